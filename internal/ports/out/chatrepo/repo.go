package chatrepo

import (
	"context"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repository provides access to persisted trip chat messages.
type Repository interface {
	Append(ctx context.Context, m domain.ChatMessage) error

	// ListByTrip returns a trip's messages in creation order.
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.ChatMessage, error)
}
