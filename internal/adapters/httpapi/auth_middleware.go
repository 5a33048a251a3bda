package httpapi

import (
	"net/http"
	"strings"

	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/platform/auth"
)

// NewAuthMiddleware enforces Authorization: Bearer <JWT> and stores the
// verified subject in request context.
func NewAuthMiddleware(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing Authorization header", nil)
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "malformed Authorization header", nil)
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token", nil)
				return
			}

			sub, err := tokens.Verify(raw)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}

// NewDevAuthMiddleware is a local/dev-only auth shim.
//
// It accepts an explicit subject via X-Debug-Subject and stores it in request
// context, falling back to defaultSubject when the header is absent. Not for
// production deployments.
func NewDevAuthMiddleware(defaultSubject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if id == "" {
				id = strings.TrimSpace(defaultSubject)
			}
			if id == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject (set X-Debug-Subject)", nil)
				return
			}
			role := domain.RoleUser
			if strings.TrimSpace(r.Header.Get("X-Debug-Role")) == string(domain.RoleAdmin) {
				role = domain.RoleAdmin
			}
			sub := auth.Subject{UserID: domain.UserID(id), Role: role}
			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
		})
	}
}
