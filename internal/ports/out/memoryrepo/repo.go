package memoryrepo

import (
	"context"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repository provides access to persisted memory photos.
type Repository interface {
	Create(ctx context.Context, m domain.Memory) error

	// ListByTrip returns a trip's memories in creation order.
	ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Memory, error)

	// ListByUser returns a user's memories in creation order.
	ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Memory, error)
}
