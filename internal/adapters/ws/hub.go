// Package ws fans chat messages out to websocket subscribers, one room per
// trip. Persistence stays in the chat service; the hub only handles delivery
// to currently connected members.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

type outbound struct {
	tripID  domain.TripID
	payload []byte
}

// Hub tracks connected clients per trip and broadcasts stored messages to the
// trip's room. Run owns all room state; the channels serialize access.
type Hub struct {
	logger *slog.Logger

	rooms      map[domain.TripID]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan outbound
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger:     logger,
		rooms:      make(map[domain.TripID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan outbound, 64),
	}
}

// Run processes hub events until ctx is cancelled. Call it once, from its own
// goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for _, room := range h.rooms {
				for c := range room {
					close(c.send)
				}
			}
			h.rooms = make(map[domain.TripID]map[*Client]struct{})
			return
		case c := <-h.register:
			room := h.rooms[c.tripID]
			if room == nil {
				room = make(map[*Client]struct{})
				h.rooms[c.tripID] = room
			}
			room[c] = struct{}{}
		case c := <-h.unregister:
			if room, ok := h.rooms[c.tripID]; ok {
				if _, ok := room[c]; ok {
					delete(room, c)
					close(c.send)
					if len(room) == 0 {
						delete(h.rooms, c.tripID)
					}
				}
			}
		case msg := <-h.broadcast:
			for c := range h.rooms[msg.tripID] {
				select {
				case c.send <- msg.payload:
				default:
					// Slow consumer, drop the connection.
					delete(h.rooms[msg.tripID], c)
					close(c.send)
				}
			}
		}
	}
}

// Broadcast delivers a stored chat message to everyone connected to its trip.
// Safe to call from any goroutine.
func (h *Hub) Broadcast(m domain.ChatMessage) {
	payload, err := json.Marshal(wireMessage{
		ID:        string(m.ID),
		TripID:    string(m.TripID),
		AuthorID:  string(m.AuthorID),
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	})
	if err != nil {
		h.logger.Warn("marshal chat message", "error", err)
		return
	}
	h.broadcast <- outbound{tripID: m.TripID, payload: payload}
}

type wireMessage struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}
