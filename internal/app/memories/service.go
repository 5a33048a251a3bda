package memories

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/clock"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/memoryrepo"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/triprepo"
)

// Service owns trip memory photos. Posting is restricted to the organizer and
// current members; the album itself is visible to any authenticated user.
type Service struct {
	memories memoryrepo.Repository
	trips    triprepo.Repository
	clk      clock.Clock

	newMemoryID func() domain.MemoryID
}

func NewService(memoriesRepo memoryrepo.Repository, tripsRepo triprepo.Repository, clk clock.Clock) *Service {
	return &Service{
		memories: memoriesRepo,
		trips:    tripsRepo,
		clk:      clk,
		newMemoryID: func() domain.MemoryID {
			return domain.MemoryID(uuid.NewString())
		},
	}
}

func (s *Service) PostMemory(ctx context.Context, tripID domain.TripID, userID domain.UserID, photoURL, caption string) (domain.Memory, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Memory{}, apperr.New(http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
		}
		return domain.Memory{}, err
	}
	if t.OrganizerID != userID && !t.IsMember(userID) {
		return domain.Memory{}, apperr.New(http.StatusConflict, "NOT_A_MEMBER", "only trip members may post memories")
	}

	photoURL = strings.TrimSpace(photoURL)
	if photoURL == "" {
		return domain.Memory{}, apperr.New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid memory").
			WithDetails(map[string]any{"photoUrl": "must be non-empty"})
	}

	m := domain.Memory{
		ID:        s.newMemoryID(),
		TripID:    tripID,
		UserID:    userID,
		PhotoURL:  photoURL,
		Caption:   strings.TrimSpace(caption),
		CreatedAt: s.clk.Now().UTC(),
	}
	if err := s.memories.Create(ctx, m); err != nil {
		return domain.Memory{}, err
	}
	return m, nil
}

func (s *Service) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Memory, error) {
	if _, err := s.trips.GetByID(ctx, tripID); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return nil, apperr.New(http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
		}
		return nil, err
	}
	return s.memories.ListByTrip(ctx, tripID)
}

func (s *Service) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Memory, error) {
	return s.memories.ListByUser(ctx, userID)
}
