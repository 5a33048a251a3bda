package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nomadnova/nomadnova-api/internal/app/trips"
	"github.com/nomadnova/nomadnova-api/internal/domain"
)

func (s *Server) handlePostTrip(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	var req postTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	t, err := s.Trips.PostTrip(r.Context(), sub.UserID, trips.PostTripInput{
		Destination: req.Destination,
		Departure:   req.Departure,
		FromDate:    req.FromDate,
		ToDate:      req.ToDate,
		Transport:   req.Transport,
		Budget:      req.Budget,
		MaxPeople:   req.MaxPeople,
		Category:    req.Category,
		Description: req.Description,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"trip": tripFromDomain(t)})
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	var (
		ts  []domain.Trip
		err error
	)
	switch r.URL.Query().Get("scope") {
	case "mine":
		sub, ok := SubjectFromContext(r.Context())
		if !ok {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
			return
		}
		ts, err = s.Trips.ListTripsForUser(r.Context(), sub.UserID)
	default:
		ts, err = s.Trips.ListOpenTrips(r.Context())
	}
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": tripsFromDomain(ts)})
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	t, err := s.Trips.GetTrip(r.Context(), domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": tripFromDomain(t)})
}

func (s *Server) handleJoinTrip(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	t, err := s.Trips.JoinTrip(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": tripFromDomain(t)})
}

func (s *Server) handleAbandonTrip(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	t, err := s.Trips.AbandonTrip(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": tripFromDomain(t)})
}

func (s *Server) handleCancelTrip(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	t, err := s.Trips.CancelTrip(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trip": tripFromDomain(t)})
}
