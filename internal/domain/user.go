package domain

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the domain representation of a user profile.
type User struct {
	ID    UserID
	Email string

	FullName  string
	Bio       *string
	AvatarURL *string

	Role Role

	// PasswordHash is a bcrypt hash; it never leaves the backend.
	PasswordHash string

	// CompletedTrips and Coins feed the gamified title ladder and leaderboard.
	CompletedTrips int
	Coins          int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Title returns the user's current rung on the title ladder.
func (u User) Title() string {
	return TitleForTrips(u.CompletedTrips)
}
