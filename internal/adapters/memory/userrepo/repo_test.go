package userrepo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	memuserrepo "github.com/nomadnova/nomadnova-api/internal/adapters/memory/userrepo"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/userrepo"
)

var repoNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, repo *memuserrepo.Repo, id domain.UserID, email string) {
	t.Helper()
	err := repo.Create(context.Background(), domain.User{
		ID:        id,
		Email:     email,
		FullName:  "User " + string(id),
		Role:      domain.RoleUser,
		CreatedAt: repoNow,
		UpdatedAt: repoNow,
	})
	if err != nil {
		t.Fatalf("create %s: %v", id, err)
	}
}

func TestRepo_Create_EmailUniqueness(t *testing.T) {
	t.Parallel()

	repo := memuserrepo.NewRepo()
	seedUser(t, repo, "u1", "nova@example.com")

	err := repo.Create(context.Background(), domain.User{
		ID:    "u2",
		Email: "NOVA@example.com",
	})
	if !errors.Is(err, userrepo.ErrEmailTaken) {
		t.Fatalf("err=%v, want ErrEmailTaken", err)
	}

	got, err := repo.GetByEmail(context.Background(), "Nova@Example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != "u1" {
		t.Fatalf("id=%s", got.ID)
	}
}

func TestRepo_AddCompletion_Concurrent(t *testing.T) {
	t.Parallel()

	repo := memuserrepo.NewRepo()
	seedUser(t, repo, "u1", "nova@example.com")

	const sweeps = 20
	var wg sync.WaitGroup
	for i := 0; i < sweeps; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := repo.AddCompletion(context.Background(), "u1", 50, repoNow); err != nil {
				t.Errorf("AddCompletion: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := repo.GetByID(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CompletedTrips != sweeps || got.Coins != sweeps*50 {
		t.Fatalf("completed=%d coins=%d", got.CompletedTrips, got.Coins)
	}
}

func TestRepo_Leaderboard_OrderAndLimit(t *testing.T) {
	t.Parallel()

	repo := memuserrepo.NewRepo()
	users := []domain.User{
		{ID: "a", Email: "a@example.com", FullName: "Zoe", CompletedTrips: 7, Coins: 350},
		{ID: "b", Email: "b@example.com", FullName: "Amy", CompletedTrips: 7, Coins: 350},
		{ID: "c", Email: "c@example.com", FullName: "Max", CompletedTrips: 9, Coins: 100},
	}
	for _, u := range users {
		u.Role = domain.RoleUser
		u.CreatedAt = repoNow
		u.UpdatedAt = repoNow
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("create %s: %v", u.ID, err)
		}
	}

	board, err := repo.Leaderboard(context.Background(), 2)
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("entries=%d, want 2", len(board))
	}
	// Max leads on completions; Amy beats Zoe on the name tiebreak.
	if board[0].ID != "c" || board[1].ID != "b" {
		t.Fatalf("order=%s,%s", board[0].ID, board[1].ID)
	}
}
