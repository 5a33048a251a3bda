package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memtriprepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/triprepo"
	memuserrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/userrepo"
	"github.com/nomadnova/nomadnova-api/internal/app/analytics"
	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/domain"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, repo *memuserrepo.Repo, id domain.UserID, role domain.Role) {
	t.Helper()
	err := repo.Create(context.Background(), domain.User{
		ID:        id,
		Email:     string(id) + "@example.com",
		FullName:  "User " + string(id),
		Role:      role,
		CreatedAt: testNow,
		UpdatedAt: testNow,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
}

func seedTrip(t *testing.T, repo *memtriprepo.Repo, id domain.TripID, destination, category string, capacity, members int, status domain.TripStatus) {
	t.Helper()
	ms := make([]domain.Membership, 0, members)
	for i := 0; i < members; i++ {
		ms = append(ms, domain.Membership{UserID: domain.UserID(string(id) + "-m" + string(rune('a'+i))), JoinedAt: testNow})
	}
	err := repo.Create(context.Background(), domain.Trip{
		ID:          id,
		OrganizerID: "org",
		Destination: destination,
		Departure:   "Berlin",
		FromDate:    testNow,
		ToDate:      testNow.Add(48 * time.Hour),
		Transport:   "plane",
		Budget:      "mid",
		Category:    category,
		Capacity:    capacity,
		Members:     ms,
		Status:      status,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
}

func TestService_Summarize_AdminOnly(t *testing.T) {
	t.Parallel()

	trips := memtriprepo.NewRepo()
	users := memuserrepo.NewRepo()
	seedUser(t, users, "admin", domain.RoleAdmin)
	seedUser(t, users, "plain", domain.RoleUser)
	svc := analytics.NewService(trips, users)

	for _, caller := range []domain.UserID{"plain", "ghost"} {
		_, err := svc.Summarize(context.Background(), caller)
		var ae *apperr.Error
		if !errors.As(err, &ae) || ae.Code != "NOT_AUTHORIZED" || ae.Status != 403 {
			t.Fatalf("caller %s: err=%v", caller, err)
		}
	}

	if _, err := svc.Summarize(context.Background(), "admin"); err != nil {
		t.Fatalf("admin: %v", err)
	}
}

func TestService_Summarize_Aggregates(t *testing.T) {
	t.Parallel()

	trips := memtriprepo.NewRepo()
	users := memuserrepo.NewRepo()
	seedUser(t, users, "admin", domain.RoleAdmin)
	svc := analytics.NewService(trips, users)

	seedTrip(t, trips, "t1", "Lisbon", "city", 4, 2, domain.TripStatusOpen)
	seedTrip(t, trips, "t2", "Lisbon", "city", 2, 2, domain.TripStatusFull)
	seedTrip(t, trips, "t3", "Oslo", "nature", 3, 1, domain.TripStatusCancelled)
	seedTrip(t, trips, "t4", "Quito", "adventure", 2, 2, domain.TripStatusCompleted)

	sum, err := svc.Summarize(context.Background(), "admin")
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if sum.TotalUsers != 1 || sum.TotalTrips != 4 {
		t.Fatalf("users=%d trips=%d", sum.TotalUsers, sum.TotalTrips)
	}
	if sum.OpenTrips != 1 || sum.FullTrips != 1 || sum.CancelledTrips != 1 || sum.CompletedTrips != 1 {
		t.Fatalf("summary=%+v", sum)
	}
	if sum.TotalJoins != 7 {
		t.Fatalf("joins=%d, want 7", sum.TotalJoins)
	}
	if sum.TripsPerCategory["city"] != 2 || sum.TripsPerCategory["nature"] != 1 {
		t.Fatalf("categories=%v", sum.TripsPerCategory)
	}
	// Fill rate skips the cancelled trip: (2+2+2)/(4+2+2).
	if sum.FillRate < 0.74 || sum.FillRate > 0.76 {
		t.Fatalf("fillRate=%f", sum.FillRate)
	}
	if len(sum.TopDestinations) == 0 || sum.TopDestinations[0].Destination != "Lisbon" || sum.TopDestinations[0].Trips != 2 {
		t.Fatalf("topDestinations=%v", sum.TopDestinations)
	}
}
