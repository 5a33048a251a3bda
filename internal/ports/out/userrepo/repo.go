package userrepo

import (
	"context"
	"time"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repository provides access to persisted users.
type Repository interface {
	Create(ctx context.Context, u domain.User) error
	Update(ctx context.Context, u domain.User) error

	GetByID(ctx context.Context, id domain.UserID) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)

	// AddCompletion increments the user's completed-trip count by one and
	// credits coins, as a single atomic step.
	AddCompletion(ctx context.Context, id domain.UserID, coins int, updatedAt time.Time) error

	// Leaderboard returns up to limit users ordered by completed trips
	// descending, then coins descending, then full name ascending.
	Leaderboard(ctx context.Context, limit int) ([]domain.User, error)

	Count(ctx context.Context) (int, error)
}
