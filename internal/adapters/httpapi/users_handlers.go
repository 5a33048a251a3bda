package httpapi

import (
	"net/http"

	"github.com/nomadnova/nomadnova-api/internal/app/users"
)

func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	p, err := s.Users.GetProfile(r.Context(), sub.UserID)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": profileFromApp(p)})
}

func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	sub, ok := SubjectFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject", nil)
		return
	}
	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.Users.UpdateProfile(r.Context(), sub.UserID, users.UpdateProfileInput{
		FullName:  req.FullName,
		Bio:       req.Bio,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": profileFromApp(p)})
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ps, err := s.Users.Leaderboard(r.Context(), s.LeaderboardLimit)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	out := make([]profileResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, profileFromApp(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"leaderboard": out})
}
