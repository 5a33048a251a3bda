package memoryrepo

import (
	"context"
	"sync"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repo is an in-memory implementation of memoryrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu  sync.RWMutex
	all []domain.Memory
}

func NewRepo() *Repo {
	return &Repo{}
}

func (r *Repo) Create(ctx context.Context, m domain.Memory) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.all = append(r.all, m)
	return nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Memory, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Memory, 0)
	for _, m := range r.all {
		if m.TripID == tripID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Memory, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Memory, 0)
	for _, m := range r.all {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}
