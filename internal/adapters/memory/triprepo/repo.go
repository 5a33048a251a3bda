package triprepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/triprepo"
)

// Repo is an in-memory implementation of triprepo.Repository.
// It is safe for concurrent use.
//
// AddMember performs the capacity check and the membership append under the
// write lock, so the check-then-act sequence is one indivisible step per the
// port contract.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.TripID]domain.Trip
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.TripID]domain.Trip),
	}
}

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	_ = ctx
	if t.ID == "" {
		return triprepo.ErrAlreadyExists // treat empty ID as invalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[t.ID]; ok {
		return triprepo.ErrAlreadyExists
	}
	r.byID[t.ID] = cloneTrip(t)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	return cloneTrip(t), nil
}

func (r *Repo) ListOpen(ctx context.Context) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0)
	for _, t := range r.byID {
		if t.Status == domain.TripStatusOpen {
			out = append(out, cloneTrip(t))
		}
	}
	sortTrips(out)
	return out, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0)
	for _, t := range r.byID {
		if t.OrganizerID == userID || t.IsMember(userID) {
			out = append(out, cloneTrip(t))
		}
	}
	sortTrips(out)
	return out, nil
}

func (r *Repo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0, len(r.byID))
	for _, t := range r.byID {
		out = append(out, cloneTrip(t))
	}
	sortTrips(out)
	return out, nil
}

func (r *Repo) AddMember(ctx context.Context, tripID domain.TripID, m domain.Membership) (domain.Trip, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[tripID]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	if t.Status != domain.TripStatusOpen && t.Status != domain.TripStatusFull {
		return domain.Trip{}, triprepo.ErrNotOpen
	}
	if t.IsMember(m.UserID) {
		return domain.Trip{}, triprepo.ErrAlreadyMember
	}
	if len(t.Members) >= t.Capacity {
		return domain.Trip{}, triprepo.ErrFull
	}

	t = cloneTrip(t)
	t.Members = append(t.Members, m)
	t.Status = domain.MembershipStatus(t.Capacity, len(t.Members))
	t.UpdatedAt = m.JoinedAt
	r.byID[tripID] = t
	return cloneTrip(t), nil
}

func (r *Repo) RemoveMember(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Trip, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[tripID]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	if !t.IsMember(userID) {
		return domain.Trip{}, triprepo.ErrNotMember
	}

	t = cloneTrip(t)
	kept := make([]domain.Membership, 0, len(t.Members)-1)
	for _, m := range t.Members {
		if m.UserID == userID {
			continue
		}
		kept = append(kept, m)
	}
	t.Members = kept
	if t.Status == domain.TripStatusOpen || t.Status == domain.TripStatusFull {
		t.Status = domain.MembershipStatus(t.Capacity, len(t.Members))
	}
	r.byID[tripID] = t
	return cloneTrip(t), nil
}

func (r *Repo) SetStatus(ctx context.Context, tripID domain.TripID, status domain.TripStatus, updatedAt time.Time) (domain.Trip, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[tripID]
	if !ok {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	t = cloneTrip(t)
	t.Status = status
	t.UpdatedAt = updatedAt
	r.byID[tripID] = t
	return cloneTrip(t), nil
}

func (r *Repo) ListDueForCompletion(ctx context.Context, now time.Time) ([]domain.Trip, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Trip, 0)
	for _, t := range r.byID {
		if t.Status != domain.TripStatusOpen && t.Status != domain.TripStatusFull {
			continue
		}
		if t.ToDate.Before(now) {
			out = append(out, cloneTrip(t))
		}
	}
	sortTrips(out)
	return out, nil
}

func cloneTrip(t domain.Trip) domain.Trip {
	cp := t
	if t.Members != nil {
		cp.Members = append([]domain.Membership(nil), t.Members...)
	}
	if t.Description != nil {
		v := *t.Description
		cp.Description = &v
	}
	return cp
}

func sortTrips(ts []domain.Trip) {
	// Sorting rule: by fromDate ascending, ties broken by createdAt, then ID.
	sort.Slice(ts, func(i, j int) bool {
		a, b := ts[i], ts[j]
		if !a.FromDate.Equal(b.FromDate) {
			return a.FromDate.Before(b.FromDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return string(a.ID) < string(b.ID)
	})
}
