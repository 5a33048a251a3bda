package triprepo

import (
	"context"
	"time"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repository provides access to persisted trips and their memberships.
//
// AddMember is the load-bearing contract of this port: the capacity check and
// the membership append must execute as one indivisible step per trip, so
// that concurrent joins racing for the last spot resolve to exactly one
// winner. Different trips are independent and need no cross-trip
// coordination.
type Repository interface {
	Create(ctx context.Context, t domain.Trip) error

	GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error)

	// ListOpen returns trips with status OPEN, ordered by FromDate ascending
	// (ties broken by CreatedAt, then ID).
	ListOpen(ctx context.Context) ([]domain.Trip, error)

	// ListByUser returns trips the user organizes or participates in.
	ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Trip, error)

	// ListAll returns every trip regardless of status. Used by analytics.
	ListAll(ctx context.Context) ([]domain.Trip, error)

	// AddMember appends m to the trip's membership iff the trip is OPEN and
	// has an unused spot, recomputing the stored status in the same step.
	// Fails with ErrNotFound, ErrAlreadyMember, ErrFull, or ErrNotOpen.
	// On success the updated trip is returned.
	AddMember(ctx context.Context, tripID domain.TripID, m domain.Membership) (domain.Trip, error)

	// RemoveMember removes the user's membership, transitioning a FULL trip
	// back to OPEN. Fails with ErrNotFound or ErrNotMember.
	RemoveMember(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Trip, error)

	// SetStatus overwrites the trip status (cancellation, completion).
	SetStatus(ctx context.Context, tripID domain.TripID, status domain.TripStatus, updatedAt time.Time) (domain.Trip, error)

	// ListDueForCompletion returns OPEN or FULL trips whose ToDate is before
	// the given instant.
	ListDueForCompletion(ctx context.Context, now time.Time) ([]domain.Trip, error)
}
