package users_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oapi-codegen/nullable"

	memuserrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/userrepo"
	"github.com/nomadnova/nomadnova-api/internal/app/apperr"
	"github.com/nomadnova/nomadnova-api/internal/app/users"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/platform/auth"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newService() (*users.Service, *memuserrepo.Repo, *auth.Tokens) {
	repo := memuserrepo.NewRepo()
	tokens := auth.NewTokens("test-secret", time.Hour)
	svc := users.NewService(repo, tokens, fixedClock{now: testNow})
	return svc, repo, tokens
}

func appErr(t *testing.T, err error) *apperr.Error {
	t.Helper()
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected app error, got %v", err)
	}
	return ae
}

func TestService_Signup_ValidationBatching(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService()
	_, err := svc.Signup(context.Background(), users.SignupInput{
		Email:    "not-an-email",
		Password: "short",
		FullName: "   ",
	})
	ae := appErr(t, err)
	if ae.Code != "VALIDATION_ERROR" || ae.Status != 422 {
		t.Fatalf("code=%s status=%d", ae.Code, ae.Status)
	}
	for _, field := range []string{"email", "password", "fullName"} {
		if _, ok := ae.Details[field]; !ok {
			t.Errorf("details missing %q: %v", field, ae.Details)
		}
	}
}

func TestService_Signup_NormalizesAndHashes(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newService()
	svc.SetNewUserIDForTest(func() domain.UserID { return "u1" })

	p, err := svc.Signup(context.Background(), users.SignupInput{
		Email:    "  Nova@Example.COM ",
		Password: "correct horse",
		FullName: "  Ada   Lovelace ",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if p.Email != "nova@example.com" || p.FullName != "Ada Lovelace" {
		t.Fatalf("profile=%+v", p)
	}
	if p.Title != "New Traveler" {
		t.Fatalf("title=%s", p.Title)
	}

	stored, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "correct horse" {
		t.Fatalf("password stored in the clear")
	}
}

func TestService_Signup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService()
	in := users.SignupInput{Email: "nova@example.com", Password: "correct horse", FullName: "Ada"}
	if _, err := svc.Signup(context.Background(), in); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	in.Email = "NOVA@example.com"
	_, err := svc.Signup(context.Background(), in)
	ae := appErr(t, err)
	if ae.Code != "EMAIL_TAKEN" || ae.Status != 409 {
		t.Fatalf("code=%s status=%d", ae.Code, ae.Status)
	}
}

func TestService_Login(t *testing.T) {
	t.Parallel()

	svc, _, tokens := newService()
	if _, err := svc.Signup(context.Background(), users.SignupInput{
		Email:    "nova@example.com",
		Password: "correct horse",
		FullName: "Ada",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, err := svc.Login(context.Background(), "nova@example.com", "wrong password")
	ae := appErr(t, err)
	if ae.Code != "INVALID_CREDENTIALS" || ae.Status != 401 {
		t.Fatalf("code=%s status=%d", ae.Code, ae.Status)
	}

	_, err = svc.Login(context.Background(), "unknown@example.com", "correct horse")
	ae = appErr(t, err)
	if ae.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("code=%s", ae.Code)
	}

	sess, err := svc.Login(context.Background(), "Nova@Example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	sub, err := tokens.Verify(sess.Token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if sub.UserID != sess.Profile.ID || sub.Role != domain.RoleUser {
		t.Fatalf("subject=%+v", sub)
	}
}

func TestService_UpdateProfile_TriState(t *testing.T) {
	t.Parallel()

	svc, _, _ := newService()
	svc.SetNewUserIDForTest(func() domain.UserID { return "u1" })
	if _, err := svc.Signup(context.Background(), users.SignupInput{
		Email:    "nova@example.com",
		Password: "correct horse",
		FullName: "Ada",
	}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	p, err := svc.UpdateProfile(context.Background(), "u1", users.UpdateProfileInput{
		Bio: nullable.NewNullableWithValue("hello"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Bio == nil || *p.Bio != "hello" {
		t.Fatalf("bio=%v", p.Bio)
	}
	if p.FullName != "Ada" {
		t.Fatalf("unspecified fullName changed: %s", p.FullName)
	}

	p, err = svc.UpdateProfile(context.Background(), "u1", users.UpdateProfileInput{
		Bio: nullable.NewNullNullable[string](),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Bio != nil {
		t.Fatalf("null did not clear bio: %v", *p.Bio)
	}

	_, err = svc.UpdateProfile(context.Background(), "u1", users.UpdateProfileInput{
		FullName: nullable.NewNullNullable[string](),
	})
	ae := appErr(t, err)
	if ae.Code != "VALIDATION_ERROR" {
		t.Fatalf("code=%s", ae.Code)
	}
}

func TestService_Leaderboard_Order(t *testing.T) {
	t.Parallel()

	svc, repo, _ := newService()
	seed := []domain.User{
		{ID: "a", Email: "a@example.com", FullName: "Alice", CompletedTrips: 5, Coins: 250},
		{ID: "b", Email: "b@example.com", FullName: "Bob", CompletedTrips: 12, Coins: 600},
		{ID: "c", Email: "c@example.com", FullName: "Carol", CompletedTrips: 5, Coins: 300},
	}
	for _, u := range seed {
		u.Role = domain.RoleUser
		u.CreatedAt = testNow
		u.UpdatedAt = testNow
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("create %s: %v", u.ID, err)
		}
	}

	board, err := svc.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	gotOrder := make([]domain.UserID, 0, len(board))
	for _, p := range board {
		gotOrder = append(gotOrder, p.ID)
	}
	want := []domain.UserID{"b", "c", "a"}
	for i := range want {
		if gotOrder[i] != want[i] {
			t.Fatalf("order=%v, want %v", gotOrder, want)
		}
	}
	if board[0].Title != "City Sampler" {
		t.Fatalf("title=%s", board[0].Title)
	}
}
