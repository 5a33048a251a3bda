package trips

import "time"

// PostTripInput carries the descriptive bundle for a new trip. Pointer and
// empty-string fields distinguish "omitted" so required-field validation can
// report every missing field in one pass.
type PostTripInput struct {
	Destination string
	Departure   string
	Transport   string
	Budget      string
	Category    string

	FromDate *time.Time
	ToDate   *time.Time

	// MaxPeople is the trip capacity, excluding the organizer.
	MaxPeople *int

	Description *string
}
