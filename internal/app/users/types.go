package users

import (
	"github.com/oapi-codegen/nullable"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

type SignupInput struct {
	Email    string
	Password string
	FullName string
}

// UpdateProfileInput uses tri-state fields: unspecified leaves the field
// untouched, null clears it, a value replaces it. FullName cannot be null.
type UpdateProfileInput struct {
	FullName  nullable.Nullable[string]
	Bio       nullable.Nullable[string]
	AvatarURL nullable.Nullable[string]
}

// Profile is the caller-facing view of a user, with the derived title.
type Profile struct {
	ID        domain.UserID
	Email     string
	FullName  string
	Bio       *string
	AvatarURL *string
	Role      domain.Role

	CompletedTrips int
	Coins          int
	Title          string
}

// Session is the result of a successful login.
type Session struct {
	Token   string
	Profile Profile
}
