package httpapi

import (
	"log/slog"

	"github.com/nomadnova/nomadnova-api/internal/adapters/ws"
	"github.com/nomadnova/nomadnova-api/internal/app/analytics"
	"github.com/nomadnova/nomadnova-api/internal/app/chat"
	"github.com/nomadnova/nomadnova-api/internal/app/memories"
	"github.com/nomadnova/nomadnova-api/internal/app/notifications"
	"github.com/nomadnova/nomadnova-api/internal/app/trips"
	"github.com/nomadnova/nomadnova-api/internal/app/users"
)

// Server is the HTTP adapter. Handlers decode requests, delegate to the app
// services, and map results onto the wire.
type Server struct {
	Users         *users.Service
	Trips         *trips.Service
	Chat          *chat.Service
	Memories      *memories.Service
	Notifications *notifications.Service
	Analytics     *analytics.Service

	Hub    *ws.Hub
	Logger *slog.Logger

	LeaderboardLimit int
}

func NewServer(
	usersSvc *users.Service,
	tripsSvc *trips.Service,
	chatSvc *chat.Service,
	memoriesSvc *memories.Service,
	notificationsSvc *notifications.Service,
	analyticsSvc *analytics.Service,
	hub *ws.Hub,
	logger *slog.Logger,
	leaderboardLimit int,
) *Server {
	return &Server{
		Users:            usersSvc,
		Trips:            tripsSvc,
		Chat:             chatSvc,
		Memories:         memoriesSvc,
		Notifications:    notificationsSvc,
		Analytics:        analyticsSvc,
		Hub:              hub,
		Logger:           logger,
		LeaderboardLimit: leaderboardLimit,
	}
}
