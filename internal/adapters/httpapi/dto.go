package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/nomadnova/nomadnova-api/internal/app/users"
	"github.com/nomadnova/nomadnova-api/internal/domain"
)

type signupRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
	FullName string              `json:"fullName"`
}

type loginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type profileResponse struct {
	ID             string              `json:"id"`
	Email          openapi_types.Email `json:"email"`
	FullName       string              `json:"fullName"`
	Bio            *string             `json:"bio,omitempty"`
	AvatarURL      *string             `json:"avatarUrl,omitempty"`
	Role           string              `json:"role"`
	CompletedTrips int                 `json:"completedTrips"`
	Coins          int                 `json:"coins"`
	Title          string              `json:"title"`
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  profileResponse `json:"user"`
}

type updateProfileRequest struct {
	FullName  nullable.Nullable[string] `json:"fullName,omitempty"`
	Bio       nullable.Nullable[string] `json:"bio,omitempty"`
	AvatarURL nullable.Nullable[string] `json:"avatarUrl,omitempty"`
}

type postTripRequest struct {
	Destination string     `json:"destination"`
	Departure   string     `json:"departure"`
	FromDate    *time.Time `json:"fromDate"`
	ToDate      *time.Time `json:"toDate"`
	Transport   string     `json:"transport"`
	Budget      string     `json:"budget"`
	MaxPeople   *int       `json:"maxPeople"`
	Category    string     `json:"category"`
	Description *string    `json:"description,omitempty"`
}

type membershipResponse struct {
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}

type tripResponse struct {
	ID          string               `json:"id"`
	OrganizerID string               `json:"organizerId"`
	Destination string               `json:"destination"`
	Departure   string               `json:"departure"`
	FromDate    time.Time            `json:"fromDate"`
	ToDate      time.Time            `json:"toDate"`
	Transport   string               `json:"transport"`
	Budget      string               `json:"budget"`
	Category    string               `json:"category"`
	Description *string              `json:"description,omitempty"`
	MaxPeople   int                  `json:"maxPeople"`
	SpotsLeft   int                  `json:"spotsLeft"`
	Status      string               `json:"status"`
	Members     []membershipResponse `json:"members"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type notificationResponse struct {
	ID        string            `json:"id"`
	Type      string            `json:"type"`
	TripID    string            `json:"tripId"`
	Payload   map[string]string `json:"payload,omitempty"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

type chatMessageRequest struct {
	Body string `json:"body"`
}

type chatMessageResponse struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	AuthorID  string    `json:"authorId"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
}

type memoryRequest struct {
	PhotoURL string `json:"photoUrl"`
	Caption  string `json:"caption,omitempty"`
}

type memoryResponse struct {
	ID        string    `json:"id"`
	TripID    string    `json:"tripId"`
	UserID    string    `json:"userId"`
	PhotoURL  string    `json:"photoUrl"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func profileFromApp(p users.Profile) profileResponse {
	return profileResponse{
		ID:             string(p.ID),
		Email:          openapi_types.Email(p.Email),
		FullName:       p.FullName,
		Bio:            p.Bio,
		AvatarURL:      p.AvatarURL,
		Role:           string(p.Role),
		CompletedTrips: p.CompletedTrips,
		Coins:          p.Coins,
		Title:          p.Title,
	}
}

func tripFromDomain(t domain.Trip) tripResponse {
	members := make([]membershipResponse, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, membershipResponse{
			UserID:   string(m.UserID),
			JoinedAt: m.JoinedAt,
		})
	}
	return tripResponse{
		ID:          string(t.ID),
		OrganizerID: string(t.OrganizerID),
		Destination: t.Destination,
		Departure:   t.Departure,
		FromDate:    t.FromDate,
		ToDate:      t.ToDate,
		Transport:   t.Transport,
		Budget:      t.Budget,
		Category:    t.Category,
		Description: t.Description,
		MaxPeople:   t.Capacity,
		SpotsLeft:   t.SpotsLeft(),
		Status:      string(t.Status),
		Members:     members,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func tripsFromDomain(ts []domain.Trip) []tripResponse {
	out := make([]tripResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, tripFromDomain(t))
	}
	return out
}

func notificationFromDomain(n domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        string(n.ID),
		Type:      string(n.Type),
		TripID:    string(n.TripID),
		Payload:   n.Payload,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func chatMessageFromDomain(m domain.ChatMessage) chatMessageResponse {
	return chatMessageResponse{
		ID:        string(m.ID),
		TripID:    string(m.TripID),
		AuthorID:  string(m.AuthorID),
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
	}
}

func memoryFromDomain(m domain.Memory) memoryResponse {
	return memoryResponse{
		ID:        string(m.ID),
		TripID:    string(m.TripID),
		UserID:    string(m.UserID),
		PhotoURL:  m.PhotoURL,
		Caption:   m.Caption,
		CreatedAt: m.CreatedAt,
	}
}
