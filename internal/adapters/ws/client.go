package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// MessagePoster persists an inbound chat message before it is broadcast.
type MessagePoster interface {
	PostMessage(ctx context.Context, tripID domain.TripID, authorID domain.UserID, body string) (domain.ChatMessage, error)
}

// Client is one websocket connection subscribed to a trip's room.
type Client struct {
	logger *slog.Logger
	hub    *Hub
	poster MessagePoster
	conn   *websocket.Conn

	tripID domain.TripID
	userID domain.UserID
	send   chan []byte
}

type inbound struct {
	Body string `json:"body"`
}

// Serve upgrades the connection and joins the trip's room. Membership checks
// happen before the upgrade, in the HTTP handler.
func Serve(hub *Hub, poster MessagePoster, logger *slog.Logger, tripID domain.TripID, userID domain.UserID, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	c := &Client{
		logger: logger,
		hub:    hub,
		poster: poster,
		conn:   conn,
		tripID: tripID,
		userID: userID,
		send:   make(chan []byte, 256),
	}
	c.hub.register <- c
	go c.writePump()
	go c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read", "error", err)
			}
			return
		}
		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.logger.Warn("websocket decode", "error", err)
			continue
		}
		stored, err := c.poster.PostMessage(context.Background(), c.tripID, c.userID, in.Body)
		if err != nil {
			c.logger.Warn("websocket post message", "error", err)
			continue
		}
		c.hub.Broadcast(stored)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
