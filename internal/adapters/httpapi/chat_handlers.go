package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nomadnova/nomadnova-api/internal/adapters/ws"
	"github.com/nomadnova/nomadnova-api/internal/domain"
)

func (s *Server) handleListMessages(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	ms, err := s.Chat.ListMessages(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]chatMessageResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, chatMessageFromDomain(m))
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": out})
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	var req chatMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	m, err := s.Chat.PostMessage(r.Context(), domain.TripID(chi.URLParam(r, "tripID")), sub.UserID, req.Body)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if s.Hub != nil {
		s.Hub.Broadcast(m)
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": chatMessageFromDomain(m)})
}

// handleChatWS upgrades to a websocket after verifying the caller may access
// the trip's room.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	tripID := domain.TripID(chi.URLParam(r, "tripID"))
	allowed, err := s.Chat.CanAccess(r.Context(), tripID, sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if !allowed {
		writeError(w, r, http.StatusConflict, "NOT_A_MEMBER", "only trip members may join the chat", nil)
		return
	}
	ws.Serve(s.Hub, s.Chat, s.Logger, tripID, sub.UserID, w, r)
}
