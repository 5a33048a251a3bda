package notifier

import (
	"context"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Sink receives notifications for delivery to their recipient.
//
// Delivery is at-least-once and best-effort relative to the mutation that
// produced the event: a failed append degrades UX but must never roll back a
// committed membership change. FIFO order per recipient is expected but not
// safety-critical.
type Sink interface {
	Append(ctx context.Context, n domain.Notification) error
}

// Fanout delivers each notification to every sink, returning the first error
// after attempting all of them.
type Fanout []Sink

func (f Fanout) Append(ctx context.Context, n domain.Notification) error {
	var first error
	for _, s := range f {
		if err := s.Append(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
