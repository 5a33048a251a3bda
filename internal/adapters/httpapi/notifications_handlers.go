package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	ns, err := s.Notifications.List(r.Context(), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		out = append(out, notificationFromDomain(n))
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": out})
}

func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	id := domain.NotificationID(chi.URLParam(r, "notificationID"))
	if err := s.Notifications.MarkRead(r.Context(), sub.UserID, id); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearNotifications(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	if err := s.Notifications.ClearAll(r.Context(), sub.UserID); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
