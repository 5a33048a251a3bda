package userrepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/userrepo"
)

// Repo is an in-memory implementation of userrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu      sync.RWMutex
	byID    map[domain.UserID]domain.User
	byEmail map[string]domain.UserID
}

func NewRepo() *Repo {
	return &Repo{
		byID:    make(map[domain.UserID]domain.User),
		byEmail: make(map[string]domain.UserID),
	}
}

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[u.ID]; ok {
		return userrepo.ErrAlreadyExists
	}
	key := emailKey(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return userrepo.ErrEmailTaken
	}
	r.byID[u.ID] = cloneUser(u)
	r.byEmail[key] = u.ID
	return nil
}

func (r *Repo) Update(ctx context.Context, u domain.User) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[u.ID]
	if !ok {
		return userrepo.ErrNotFound
	}
	// Email is immutable here; preserve the index mapping.
	u.Email = cur.Email
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[emailKey(email)]
	if !ok {
		return domain.User{}, userrepo.ErrNotFound
	}
	return cloneUser(r.byID[id]), nil
}

func (r *Repo) AddCompletion(ctx context.Context, id domain.UserID, coins int, updatedAt time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return userrepo.ErrNotFound
	}
	u.CompletedTrips++
	u.Coins += coins
	u.UpdatedAt = updatedAt
	r.byID[id] = u
	return nil
}

func (r *Repo) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CompletedTrips != b.CompletedTrips {
			return a.CompletedTrips > b.CompletedTrips
		}
		if a.Coins != b.Coins {
			return a.Coins > b.Coins
		}
		return a.FullName < b.FullName
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID), nil
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cloneUser(u domain.User) domain.User {
	cp := u
	if u.Bio != nil {
		v := *u.Bio
		cp.Bio = &v
	}
	if u.AvatarURL != nil {
		v := *u.AvatarURL
		cp.AvatarURL = &v
	}
	return cp
}
