package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/oapi-codegen/nullable"
	"golang.org/x/crypto/bcrypt"

	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/platform/auth"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/clock"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/userrepo"
)

const minPasswordLength = 8

// Service owns user accounts, sessions, profiles and the leaderboard.
type Service struct {
	users  userrepo.Repository
	tokens *auth.Tokens
	clk    clock.Clock

	newUserID func() domain.UserID
}

func NewService(usersRepo userrepo.Repository, tokens *auth.Tokens, clk clock.Clock) *Service {
	return &Service{
		users:  usersRepo,
		tokens: tokens,
		clk:    clk,
		newUserID: func() domain.UserID {
			return domain.UserID(uuid.NewString())
		},
	}
}

// SetNewUserIDForTest overrides user ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewUserIDForTest(fn func() domain.UserID) {
	if fn != nil {
		s.newUserID = fn
	}
}

func (s *Service) Signup(ctx context.Context, in SignupInput) (Profile, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := domain.NormalizeHumanName(in.FullName)

	details := map[string]any{}
	if !strings.Contains(email, "@") {
		details["email"] = "must be a valid email address"
	}
	if len(in.Password) < minPasswordLength {
		details["password"] = "must be at least 8 characters"
	}
	if name == "" {
		details["fullName"] = "must be non-empty"
	}
	if len(details) > 0 {
		return Profile{}, apperr.New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid signup input").WithDetails(details)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Profile{}, err
	}

	now := s.clk.Now().UTC()
	u := domain.User{
		ID:           s.newUserID(),
		Email:        email,
		FullName:     name,
		Role:         domain.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrEmailTaken) {
			return Profile{}, apperr.New(http.StatusConflict, "EMAIL_TAKEN", "an account already exists for this email")
		}
		return Profile{}, err
	}
	return profileFromUser(u), nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Session{}, errInvalidCredentials()
		}
		return Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return Session{}, errInvalidCredentials()
	}
	token, err := s.tokens.Issue(u.ID, u.Role, s.clk.Now().UTC())
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Profile: profileFromUser(u)}, nil
}

func (s *Service) GetProfile(ctx context.Context, id domain.UserID) (Profile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Profile{}, errUserNotFound()
		}
		return Profile{}, err
	}
	return profileFromUser(u), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id domain.UserID, in UpdateProfileInput) (Profile, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Profile{}, errUserNotFound()
		}
		return Profile{}, err
	}

	if in.FullName.IsSpecified() {
		if in.FullName.IsNull() {
			return Profile{}, apperr.New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid fullName").
				WithDetails(map[string]any{"fullName": "cannot be null"})
		}
		v, _ := in.FullName.Get()
		name := domain.NormalizeHumanName(v)
		if name == "" {
			return Profile{}, apperr.New(http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid fullName").
				WithDetails(map[string]any{"fullName": "must be non-empty"})
		}
		u.FullName = name
	}
	applyNullableString(&u.Bio, in.Bio)
	applyNullableString(&u.AvatarURL, in.AvatarURL)

	u.UpdatedAt = s.clk.Now().UTC()
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return Profile{}, errUserNotFound()
		}
		return Profile{}, err
	}
	return profileFromUser(u), nil
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]Profile, error) {
	us, err := s.users.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(us))
	for _, u := range us {
		out = append(out, profileFromUser(u))
	}
	return out, nil
}

func errInvalidCredentials() *apperr.Error {
	return apperr.New(http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
}

func errUserNotFound() *apperr.Error {
	return apperr.New(http.StatusNotFound, "USER_NOT_FOUND", "user not found")
}

func applyNullableString(dst **string, o nullable.Nullable[string]) {
	if !o.IsSpecified() {
		return
	}
	if o.IsNull() {
		*dst = nil
		return
	}
	v, err := o.Get()
	if err != nil {
		return
	}
	*dst = &v
}

func profileFromUser(u domain.User) Profile {
	return Profile{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		Bio:            cloneStringPtr(u.Bio),
		AvatarURL:      cloneStringPtr(u.AvatarURL),
		Role:           u.Role,
		CompletedTrips: u.CompletedTrips,
		Coins:          u.Coins,
		Title:          u.Title(),
	}
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
