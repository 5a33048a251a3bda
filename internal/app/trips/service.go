package trips

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/platform/metrics"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/clock"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/notifier"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/triprepo"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/userrepo"
)

// coinsPerCompletedTrip is credited to the organizer and every member when a
// trip completes.
const coinsPerCompletedTrip = 50

// Service owns trip capacity, membership and the resulting notification
// fan-out.
//
// The capacity invariant (member count never exceeds capacity) is enforced by
// the repository's atomic AddMember; the precondition checks here exist to
// surface distinct error codes, not to guard the mutation.
type Service struct {
	trips triprepo.Repository
	users userrepo.Repository
	sink  notifier.Sink
	clk   clock.Clock

	newTripID         func() domain.TripID
	newNotificationID func() domain.NotificationID
}

func NewService(tripsRepo triprepo.Repository, usersRepo userrepo.Repository, sink notifier.Sink, clk clock.Clock) *Service {
	return &Service{
		trips: tripsRepo,
		users: usersRepo,
		sink:  sink,
		clk:   clk,
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
		newNotificationID: func() domain.NotificationID {
			return domain.NotificationID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// requiredFieldOrder fixes the reporting order of missing fields.
var requiredFieldOrder = []string{
	"destination", "departure", "fromDate", "toDate",
	"transport", "budget", "maxPeople", "category",
}

// PostTrip creates a new open trip with an empty membership. Missing required
// fields are reported together so the caller can fix all of them in one pass.
func (s *Service) PostTrip(ctx context.Context, organizerID domain.UserID, in PostTripInput) (domain.Trip, error) {
	if _, err := s.users.GetByID(ctx, organizerID); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.Trip{}, apperr.New(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
		}
		return domain.Trip{}, err
	}

	present := map[string]bool{
		"destination": strings.TrimSpace(in.Destination) != "",
		"departure":   strings.TrimSpace(in.Departure) != "",
		"fromDate":    in.FromDate != nil,
		"toDate":      in.ToDate != nil,
		"transport":   strings.TrimSpace(in.Transport) != "",
		"budget":      strings.TrimSpace(in.Budget) != "",
		"maxPeople":   in.MaxPeople != nil,
		"category":    strings.TrimSpace(in.Category) != "",
	}
	var missing []string
	for _, f := range requiredFieldOrder {
		if !present[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return domain.Trip{}, apperr.New(http.StatusUnprocessableEntity, "MISSING_REQUIRED_FIELD", "missing required fields").
			WithDetails(map[string]any{"missing": missing})
	}

	if *in.MaxPeople < 1 {
		return domain.Trip{}, apperr.New(http.StatusUnprocessableEntity, "INVALID_CAPACITY", "maxPeople must be a positive integer").
			WithDetails(map[string]any{"maxPeople": *in.MaxPeople})
	}
	if in.ToDate.Before(*in.FromDate) {
		return domain.Trip{}, apperr.New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid date range").
			WithDetails(map[string]any{"toDate": "must be on or after fromDate"})
	}

	now := s.clk.Now().UTC()
	t := domain.Trip{
		ID:          s.newTripID(),
		OrganizerID: organizerID,
		Destination: domain.NormalizeHumanName(in.Destination),
		Departure:   domain.NormalizeHumanName(in.Departure),
		FromDate:    in.FromDate.UTC(),
		ToDate:      in.ToDate.UTC(),
		Transport:   strings.TrimSpace(in.Transport),
		Budget:      strings.TrimSpace(in.Budget),
		Category:    strings.TrimSpace(in.Category),
		Description: cloneStringPtr(in.Description),
		Capacity:    *in.MaxPeople,
		Members:     []domain.Membership{},
		Status:      domain.TripStatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		if errors.Is(err, triprepo.ErrAlreadyExists) {
			// Extremely unlikely (UUID collision); treat as conflict.
			return domain.Trip{}, apperr.New(http.StatusConflict, "TRIP_ID_CONFLICT", "trip id conflict")
		}
		return domain.Trip{}, err
	}
	return t, nil
}

// JoinTrip adds the user to the trip's membership and notifies the organizer.
//
// Preconditions are checked in a fixed order so each failure mode surfaces as
// its own code: TRIP_NOT_FOUND, SELF_JOIN_REJECTED, ALREADY_JOINED, then
// TRIP_FULL (or TRIP_CANCELLED/TRIP_COMPLETED for withdrawn trips). The
// repository re-checks membership and capacity atomically, so two users
// racing for the last spot resolve to exactly one winner.
func (s *Service) JoinTrip(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, errTripNotFound()
		}
		return domain.Trip{}, err
	}
	if t.OrganizerID == userID {
		metrics.TripJoins.WithLabelValues("self_join_rejected").Inc()
		return domain.Trip{}, apperr.New(http.StatusConflict, "SELF_JOIN_REJECTED", "cannot join your own trip")
	}
	if t.IsMember(userID) {
		metrics.TripJoins.WithLabelValues("already_joined").Inc()
		return domain.Trip{}, errAlreadyJoined()
	}
	if err := rejectNotOpen(t.Status); err != nil {
		return domain.Trip{}, err
	}
	if t.SpotsLeft() == 0 {
		metrics.TripJoins.WithLabelValues("full").Inc()
		return domain.Trip{}, errTripFull()
	}

	joiner, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return domain.Trip{}, apperr.New(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
		}
		return domain.Trip{}, err
	}

	updated, err := s.trips.AddMember(ctx, tripID, domain.Membership{
		UserID:   userID,
		JoinedAt: s.clk.Now().UTC(),
	})
	if err != nil {
		switch {
		case errors.Is(err, triprepo.ErrNotFound):
			return domain.Trip{}, errTripNotFound()
		case errors.Is(err, triprepo.ErrAlreadyMember):
			metrics.TripJoins.WithLabelValues("already_joined").Inc()
			return domain.Trip{}, errAlreadyJoined()
		case errors.Is(err, triprepo.ErrFull):
			// Lost the race for the last spot.
			metrics.TripJoins.WithLabelValues("full").Inc()
			return domain.Trip{}, errTripFull()
		case errors.Is(err, triprepo.ErrNotOpen):
			// Withdrawn between the precondition read and the append.
			if cur, gerr := s.trips.GetByID(ctx, tripID); gerr == nil {
				if rerr := rejectNotOpen(cur.Status); rerr != nil {
					return domain.Trip{}, rerr
				}
			}
			return domain.Trip{}, apperr.New(http.StatusConflict, "TRIP_CANCELLED", "trip has been cancelled")
		default:
			return domain.Trip{}, err
		}
	}
	metrics.TripJoins.WithLabelValues("ok").Inc()

	// Best-effort: the membership is committed; a lost notification is a
	// degraded-UX issue, not a correctness violation.
	s.notify(ctx, domain.Notification{
		ID:          s.newNotificationID(),
		Type:        domain.NotificationJoinRequest,
		TripID:      tripID,
		RecipientID: updated.OrganizerID,
		Payload: map[string]string{
			"userId":      string(userID),
			"userName":    joiner.FullName,
			"destination": updated.Destination,
		},
		CreatedAt: s.clk.Now().UTC(),
	})

	return updated, nil
}

// AbandonTrip removes the user's membership, transitioning a FULL trip back
// to OPEN, and notifies the organizer.
func (s *Service) AbandonTrip(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, errTripNotFound()
		}
		return domain.Trip{}, err
	}
	if !t.IsMember(userID) {
		return domain.Trip{}, apperr.New(http.StatusConflict, "NOT_A_MEMBER", "user is not a member of this trip")
	}

	updated, err := s.trips.RemoveMember(ctx, tripID, userID)
	if err != nil {
		switch {
		case errors.Is(err, triprepo.ErrNotFound):
			return domain.Trip{}, errTripNotFound()
		case errors.Is(err, triprepo.ErrNotMember):
			return domain.Trip{}, apperr.New(http.StatusConflict, "NOT_A_MEMBER", "user is not a member of this trip")
		default:
			return domain.Trip{}, err
		}
	}

	s.notify(ctx, domain.Notification{
		ID:          s.newNotificationID(),
		Type:        domain.NotificationMemberLeft,
		TripID:      tripID,
		RecipientID: updated.OrganizerID,
		Payload: map[string]string{
			"userId":      string(userID),
			"destination": updated.Destination,
		},
		CreatedAt: s.clk.Now().UTC(),
	})

	return updated, nil
}

// CancelTrip soft-cancels the trip and notifies every current member. The
// record survives so memberships and notifications keep their references.
// Cancelling an already-cancelled trip is an idempotent no-op.
func (s *Service) CancelTrip(ctx context.Context, tripID domain.TripID, callerID domain.UserID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, errTripNotFound()
		}
		return domain.Trip{}, err
	}
	if t.OrganizerID != callerID {
		return domain.Trip{}, apperr.New(http.StatusForbidden, "NOT_AUTHORIZED", "only the organizer may cancel this trip")
	}
	if t.Status == domain.TripStatusCancelled {
		return t, nil
	}
	if t.Status == domain.TripStatusCompleted {
		return domain.Trip{}, apperr.New(http.StatusConflict, "TRIP_COMPLETED", "trip has already completed")
	}

	now := s.clk.Now().UTC()
	updated, err := s.trips.SetStatus(ctx, tripID, domain.TripStatusCancelled, now)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, errTripNotFound()
		}
		return domain.Trip{}, err
	}

	for _, m := range updated.Members {
		s.notify(ctx, domain.Notification{
			ID:          s.newNotificationID(),
			Type:        domain.NotificationTripCancelled,
			TripID:      tripID,
			RecipientID: m.UserID,
			Payload: map[string]string{
				"destination": updated.Destination,
			},
			CreatedAt: now,
		})
	}

	return updated, nil
}

// CompleteDueTrips transitions open/full trips whose end date has passed to
// COMPLETED, credits coins to the organizer and every member, and notifies
// members. It returns the number of trips completed.
func (s *Service) CompleteDueTrips(ctx context.Context, now time.Time) (int, error) {
	due, err := s.trips.ListDueForCompletion(ctx, now)
	if err != nil {
		return 0, err
	}
	completed := 0
	for _, t := range due {
		updated, err := s.trips.SetStatus(ctx, t.ID, domain.TripStatusCompleted, now.UTC())
		if err != nil {
			if errors.Is(err, triprepo.ErrNotFound) {
				continue
			}
			return completed, err
		}
		completed++

		if err := s.users.AddCompletion(ctx, updated.OrganizerID, coinsPerCompletedTrip, now.UTC()); err != nil && !errors.Is(err, userrepo.ErrNotFound) {
			return completed, err
		}
		for _, m := range updated.Members {
			if err := s.users.AddCompletion(ctx, m.UserID, coinsPerCompletedTrip, now.UTC()); err != nil && !errors.Is(err, userrepo.ErrNotFound) {
				return completed, err
			}
			s.notify(ctx, domain.Notification{
				ID:          s.newNotificationID(),
				Type:        domain.NotificationTripCompleted,
				TripID:      updated.ID,
				RecipientID: m.UserID,
				Payload: map[string]string{
					"destination": updated.Destination,
					"coins":       strconv.Itoa(coinsPerCompletedTrip),
				},
				CreatedAt: now.UTC(),
			})
		}
	}
	return completed, nil
}

func (s *Service) GetTrip(ctx context.Context, tripID domain.TripID) (domain.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, errTripNotFound()
		}
		return domain.Trip{}, err
	}
	return t, nil
}

func (s *Service) ListOpenTrips(ctx context.Context) ([]domain.Trip, error) {
	return s.trips.ListOpen(ctx)
}

func (s *Service) ListTripsForUser(ctx context.Context, userID domain.UserID) ([]domain.Trip, error) {
	return s.trips.ListByUser(ctx, userID)
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Append(ctx, n); err != nil {
		slog.Warn("notification append failed",
			"type", string(n.Type),
			"tripId", string(n.TripID),
			"recipientId", string(n.RecipientID),
			"error", err,
		)
	}
}

func rejectNotOpen(status domain.TripStatus) error {
	switch status {
	case domain.TripStatusCancelled:
		return apperr.New(http.StatusConflict, "TRIP_CANCELLED", "trip has been cancelled")
	case domain.TripStatusCompleted:
		return apperr.New(http.StatusConflict, "TRIP_COMPLETED", "trip has already completed")
	default:
		return nil
	}
}

func errTripNotFound() *apperr.Error {
	return apperr.New(http.StatusNotFound, "TRIP_NOT_FOUND", "trip not found")
}

func errAlreadyJoined() *apperr.Error {
	return apperr.New(http.StatusConflict, "ALREADY_JOINED", "user already joined this trip")
}

func errTripFull() *apperr.Error {
	return apperr.New(http.StatusConflict, "TRIP_FULL", "trip is full")
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
