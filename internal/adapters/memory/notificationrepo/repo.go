package notificationrepo

import (
	"context"
	"sync"

	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/notificationrepo"
)

// Repo is an in-memory implementation of notificationrepo.Repository (and
// therefore notifier.Sink). It is safe for concurrent use.
//
// Feeds are kept in append order per recipient, which gives the FIFO
// expectation for free.
type Repo struct {
	mu          sync.RWMutex
	byRecipient map[domain.UserID][]domain.Notification
}

func NewRepo() *Repo {
	return &Repo{
		byRecipient: make(map[domain.UserID][]domain.Notification),
	}
}

func (r *Repo) Append(ctx context.Context, n domain.Notification) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRecipient[n.RecipientID] = append(r.byRecipient[n.RecipientID], cloneNotification(n))
	return nil
}

func (r *Repo) ListByRecipient(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	feed := r.byRecipient[recipientID]
	out := make([]domain.Notification, 0, len(feed))
	for _, n := range feed {
		out = append(out, cloneNotification(n))
	}
	return out, nil
}

func (r *Repo) MarkRead(ctx context.Context, recipientID domain.UserID, id domain.NotificationID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	feed := r.byRecipient[recipientID]
	for i := range feed {
		if feed[i].ID == id {
			feed[i].Read = true
			return nil
		}
	}
	return notificationrepo.ErrNotFound
}

func (r *Repo) ClearByRecipient(ctx context.Context, recipientID domain.UserID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byRecipient, recipientID)
	return nil
}

func cloneNotification(n domain.Notification) domain.Notification {
	cp := n
	if n.Payload != nil {
		cp.Payload = make(map[string]string, len(n.Payload))
		for k, v := range n.Payload {
			cp.Payload[k] = v
		}
	}
	return cp
}
