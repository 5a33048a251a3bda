package chatrepo

import (
	"context"
	"sync"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repo is an in-memory implementation of chatrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu     sync.RWMutex
	byTrip map[domain.TripID][]domain.ChatMessage
}

func NewRepo() *Repo {
	return &Repo{
		byTrip: make(map[domain.TripID][]domain.ChatMessage),
	}
}

func (r *Repo) Append(ctx context.Context, m domain.ChatMessage) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTrip[m.TripID] = append(r.byTrip[m.TripID], m)
	return nil
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.ChatMessage, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	msgs := r.byTrip[tripID]
	out := make([]domain.ChatMessage, len(msgs))
	copy(out, msgs)
	return out, nil
}
