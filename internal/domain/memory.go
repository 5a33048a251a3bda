package domain

import "time"

// Memory is a photo posted to a trip's shared album.
type Memory struct {
	ID       MemoryID
	TripID   TripID
	UserID   UserID
	PhotoURL string
	Caption  string

	CreatedAt time.Time
}

// ChatMessage is one entry in a trip's group chat.
type ChatMessage struct {
	ID       MessageID
	TripID   TripID
	AuthorID UserID
	Body     string

	CreatedAt time.Time
}
