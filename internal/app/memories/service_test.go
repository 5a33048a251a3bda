package memories_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memmemoryrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/memoryrepo"
	memtriprepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/triprepo"
	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/app/memories"
	"github.com/nomadnova/nomadnova-api/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*memories.Service, *memtriprepo.Repo) {
	t.Helper()
	tripsRepo := memtriprepo.NewRepo()
	svc := memories.NewService(memmemoryrepo.NewRepo(), tripsRepo, fixedClock{now: testNow})
	return svc, tripsRepo
}

func seedTrip(t *testing.T, repo *memtriprepo.Repo, members ...domain.UserID) domain.TripID {
	t.Helper()
	ms := make([]domain.Membership, 0, len(members))
	for _, id := range members {
		ms = append(ms, domain.Membership{UserID: id, JoinedAt: testNow})
	}
	err := repo.Create(context.Background(), domain.Trip{
		ID:          "t1",
		OrganizerID: "org",
		Destination: "Lisbon",
		Departure:   "Berlin",
		FromDate:    testNow.Add(24 * time.Hour),
		ToDate:      testNow.Add(72 * time.Hour),
		Transport:   "plane",
		Budget:      "mid",
		Category:    "city",
		Capacity:    4,
		Members:     ms,
		Status:      domain.TripStatusOpen,
		CreatedAt:   testNow,
		UpdatedAt:   testNow,
	})
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}
	return "t1"
}

func TestService_PostMemory(t *testing.T) {
	t.Parallel()

	svc, trips := newService(t)
	tripID := seedTrip(t, trips, "u1")

	_, err := svc.PostMemory(context.Background(), tripID, "stranger", "https://img.example/1.jpg", "")
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Code != "NOT_A_MEMBER" {
		t.Fatalf("err=%v", err)
	}

	_, err = svc.PostMemory(context.Background(), tripID, "u1", "  ", "")
	if !errors.As(err, &ae) || ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("err=%v", err)
	}

	m, err := svc.PostMemory(context.Background(), tripID, "u1", " https://img.example/1.jpg ", " sunset ")
	if err != nil {
		t.Fatalf("PostMemory: %v", err)
	}
	if m.PhotoURL != "https://img.example/1.jpg" || m.Caption != "sunset" {
		t.Fatalf("memory=%+v", m)
	}

	byTrip, err := svc.ListByTrip(context.Background(), tripID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(byTrip) != 1 {
		t.Fatalf("memories=%d, want 1", len(byTrip))
	}

	byUser, err := svc.ListByUser(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(byUser) != 1 || byUser[0].ID != m.ID {
		t.Fatalf("memories=%+v", byUser)
	}
}

func TestService_ListByTrip_UnknownTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	_, err := svc.ListByTrip(context.Background(), "missing")
	var ae *apperr.Error
	if !errors.As(err, &ae) || ae.Code != "TRIP_NOT_FOUND" {
		t.Fatalf("err=%v", err)
	}
}
