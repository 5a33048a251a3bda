package triprepo

import "errors"

var (
	ErrNotFound      = errors.New("trip not found")
	ErrAlreadyExists = errors.New("trip already exists")

	// ErrAlreadyMember indicates the user already holds a membership.
	ErrAlreadyMember = errors.New("user already joined trip")

	// ErrFull indicates the trip has no unused spots.
	ErrFull = errors.New("trip is full")

	// ErrNotOpen indicates the trip is cancelled or completed.
	ErrNotOpen = errors.New("trip is not open")

	// ErrNotMember indicates the user holds no membership on the trip.
	ErrNotMember = errors.New("user is not a member of trip")
)
