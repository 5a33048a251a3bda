package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter constructs the API HTTP router.
//
// Auth endpoints, health, and metrics stay outside the auth middleware;
// everything else requires a verified subject.
func NewRouter(s *Server, authMW func(http.Handler) http.Handler, corsOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(NewObservabilityMiddleware(s.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/auth/signup", s.handleSignup)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(authMW)

		r.Get("/users/me", s.handleGetMe)
		r.Patch("/users/me", s.handleUpdateMe)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Post("/trips", s.handlePostTrip)
		r.Get("/trips", s.handleListTrips)
		r.Get("/trips/{tripID}", s.handleGetTrip)
		r.Post("/trips/{tripID}/join", s.handleJoinTrip)
		r.Post("/trips/{tripID}/abandon", s.handleAbandonTrip)
		r.Post("/trips/{tripID}/cancel", s.handleCancelTrip)

		r.Get("/trips/{tripID}/messages", s.handleListMessages)
		r.Post("/trips/{tripID}/messages", s.handlePostMessage)
		r.Get("/trips/{tripID}/chat/ws", s.handleChatWS)

		r.Get("/trips/{tripID}/memories", s.handleListTripMemories)
		r.Post("/trips/{tripID}/memories", s.handlePostMemory)
		r.Get("/memories/mine", s.handleListMyMemories)

		r.Get("/notifications", s.handleListNotifications)
		r.Post("/notifications/{notificationID}/read", s.handleMarkNotificationRead)
		r.Delete("/notifications", s.handleClearNotifications)

		r.Get("/admin/analytics", s.handleAnalytics)
	})

	return r
}
