package httpapi

import (
	"net/http"

	"github.com/nomadnova/nomadnova-api/internal/app/users"
)

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := s.Users.Signup(r.Context(), users.SignupInput{
		Email:    string(req.Email),
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"user": profileFromApp(p)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess, err := s.Users.Login(r.Context(), string(req.Email), req.Password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token: sess.Token,
		User:  profileFromApp(sess.Profile),
	})
}
