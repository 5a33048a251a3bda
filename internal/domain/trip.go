package domain

import "time"

type TripStatus string

const (
	TripStatusOpen      TripStatus = "OPEN"
	TripStatusFull      TripStatus = "FULL"
	TripStatusCancelled TripStatus = "CANCELLED"
	TripStatusCompleted TripStatus = "COMPLETED"
)

// Membership is one joined participant on a trip. The organizer is never a
// member. A membership is only ever created or removed, never mutated.
type Membership struct {
	UserID   UserID
	JoinedAt time.Time
}

// Trip is a travel event with an organizer, a fixed capacity and a set of
// joined participants.
//
// Capacity counts participants excluding the organizer and is immutable after
// creation. The invariant len(Members) <= Capacity holds at all times; the
// storage layer enforces it atomically under concurrent joins.
type Trip struct {
	ID          TripID
	OrganizerID UserID

	Destination string
	Departure   string
	FromDate    time.Time
	ToDate      time.Time
	Transport   string
	Budget      string
	Category    string
	Description *string

	Capacity int
	Members  []Membership

	Status TripStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SpotsLeft is the unused capacity on the trip.
func (t Trip) SpotsLeft() int {
	n := t.Capacity - len(t.Members)
	if n < 0 {
		return 0
	}
	return n
}

func (t Trip) IsMember(id UserID) bool {
	for _, m := range t.Members {
		if m.UserID == id {
			return true
		}
	}
	return false
}

// MembershipStatus derives OPEN/FULL from the current member count. It does
// not apply to cancelled or completed trips, whose status is sticky.
func MembershipStatus(capacity, members int) TripStatus {
	if members >= capacity {
		return TripStatusFull
	}
	return TripStatusOpen
}
