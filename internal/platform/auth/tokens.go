// Package auth mints and verifies session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

var ErrInvalidToken = errors.New("invalid token")

// Subject is the authenticated identity extracted from a verified token.
type Subject struct {
	UserID domain.UserID
	Role   domain.Role
}

type claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokens(secret string, ttl time.Duration) *Tokens {
	return &Tokens{
		secret: []byte(secret),
		issuer: "nomadnova",
		ttl:    ttl,
	}
}

// Issue creates a signed token for the user.
func (t *Tokens) Issue(userID domain.UserID, role domain.Role, now time.Time) (string, error) {
	c := claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   string(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := tok.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, returning the authenticated subject.
func (t *Tokens) Verify(token string) (Subject, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Subject{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return Subject{}, ErrInvalidToken
	}
	role := domain.Role(c.Role)
	if role != domain.RoleAdmin {
		role = domain.RoleUser
	}
	return Subject{UserID: domain.UserID(c.Subject), Role: role}, nil
}
