package analytics

import (
	"context"
	"errors"
	"net/http"
	"sort"

	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/triprepo"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/userrepo"
)

// Summary is the admin dashboard aggregate.
type Summary struct {
	TotalUsers     int
	TotalTrips     int
	OpenTrips      int
	FullTrips      int
	CancelledTrips int
	CompletedTrips int
	TotalJoins     int

	TripsPerCategory map[string]int
	TopDestinations  []DestinationCount

	// FillRate is joined spots over offered spots across non-cancelled
	// trips, in [0, 1].
	FillRate float64
}

type DestinationCount struct {
	Destination string
	Trips       int
}

// Service computes admin analytics from the trip and user repositories.
type Service struct {
	trips triprepo.Repository
	users userrepo.Repository
}

func NewService(tripsRepo triprepo.Repository, usersRepo userrepo.Repository) *Service {
	return &Service{trips: tripsRepo, users: usersRepo}
}

// Summarize builds the dashboard aggregate. Callers must be admins.
func (s *Service) Summarize(ctx context.Context, caller domain.UserID) (Summary, error) {
	u, err := s.users.GetByID(ctx, caller)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Summary{}, errNotAuthorized()
		}
		return Summary{}, err
	}
	if u.Role != domain.RoleAdmin {
		return Summary{}, errNotAuthorized()
	}

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return Summary{}, err
	}
	trips, err := s.trips.ListAll(ctx)
	if err != nil {
		return Summary{}, err
	}

	out := Summary{
		TotalUsers:       totalUsers,
		TotalTrips:       len(trips),
		TripsPerCategory: make(map[string]int),
	}
	byDestination := make(map[string]int)
	offered, joined := 0, 0
	for _, t := range trips {
		switch t.Status {
		case domain.TripStatusOpen:
			out.OpenTrips++
		case domain.TripStatusFull:
			out.FullTrips++
		case domain.TripStatusCancelled:
			out.CancelledTrips++
		case domain.TripStatusCompleted:
			out.CompletedTrips++
		}
		out.TotalJoins += len(t.Members)
		out.TripsPerCategory[t.Category]++
		byDestination[t.Destination]++
		if t.Status != domain.TripStatusCancelled {
			offered += t.Capacity
			joined += len(t.Members)
		}
	}
	if offered > 0 {
		out.FillRate = float64(joined) / float64(offered)
	}

	out.TopDestinations = topDestinations(byDestination, 5)
	return out, nil
}

func topDestinations(counts map[string]int, limit int) []DestinationCount {
	out := make([]DestinationCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DestinationCount{Destination: d, Trips: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trips != out[j].Trips {
			return out[i].Trips > out[j].Trips
		}
		return out[i].Destination < out[j].Destination
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func errNotAuthorized() *apperr.Error {
	return apperr.New(http.StatusForbidden, "NOT_AUTHORIZED", "admin access required")
}
