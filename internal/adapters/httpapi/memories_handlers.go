package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

func (s *Server) handlePostMemory(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	var req memoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.Memories.PostMemory(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), sub.UserID, req.PhotoURL, req.Caption)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"memory": memoryFromDomain(m)})
}

func (s *Server) handleListTripMemories(w http.ResponseWriter, r *http.Request) {
	ms, err := s.Memories.ListByTrip(r.Context(), domain.TripID(chi.URLParam(r, "tripID")))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]memoryResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, memoryFromDomain(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"memories": out})
}

func (s *Server) handleListMyMemories(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	ms, err := s.Memories.ListByUser(r.Context(), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]memoryResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, memoryFromDomain(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"memories": out})
}
