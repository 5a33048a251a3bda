package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/chatrepo"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/clock"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/triprepo"
)

const maxMessageLength = 2000

// Service owns trip group chat. Posting is restricted to the organizer and
// current members.
type Service struct {
	messages chatrepo.Repository
	trips    triprepo.Repository
	clk      clock.Clock

	newMessageID func() domain.MessageID
}

func NewService(messagesRepo chatrepo.Repository, tripsRepo triprepo.Repository, clk clock.Clock) *Service {
	return &Service{
		messages: messagesRepo,
		trips:    tripsRepo,
		clk:      clk,
		newMessageID: func() domain.MessageID {
			return domain.MessageID(uuid.NewString())
		},
	}
}

func (s *Service) PostMessage(ctx context.Context, tripID domain.TripID, authorID domain.UserID, body string) (domain.ChatMessage, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.ChatMessage{}, apperr.New(http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
		}
		return domain.ChatMessage{}, err
	}
	if t.OrganizerID != authorID && !t.IsMember(authorID) {
		return domain.ChatMessage{}, apperr.New(http.StatusConflict, "NOT_A_MEMBER", "only trip members may post to the group chat")
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return domain.ChatMessage{}, apperr.New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid message").
			WithDetails(map[string]any{"body": "must be non-empty"})
	}
	if len(body) > maxMessageLength {
		return domain.ChatMessage{}, apperr.New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid message").
			WithDetails(map[string]any{"body": "too long"})
	}

	m := domain.ChatMessage{
		ID:        s.newMessageID(),
		TripID:    tripID,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: s.clk.Now().UTC(),
	}
	if err := s.messages.Append(ctx, m); err != nil {
		return domain.ChatMessage{}, err
	}
	return m, nil
}

// ListMessages returns the trip's chat in chronological order. Reading is
// restricted to the organizer and current members.
func (s *Service) ListMessages(ctx context.Context, tripID domain.TripID, callerID domain.UserID) ([]domain.ChatMessage, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return nil, apperr.New(http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
		}
		return nil, err
	}
	if t.OrganizerID != callerID && !t.IsMember(callerID) {
		return nil, apperr.New(http.StatusConflict, "NOT_A_MEMBER", "only trip members may read the group chat")
	}
	return s.messages.ListByTrip(ctx, tripID)
}

// CanAccess reports whether the user may join the trip's live chat stream.
func (s *Service) CanAccess(ctx context.Context, tripID domain.TripID, userID domain.UserID) (bool, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return false, apperr.New(http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
		}
		return false, err
	}
	return t.OrganizerID == userID || t.IsMember(userID), nil
}
