package userrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/nomadnova/nomadnova-api/internal/adapters/postgres"
	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/userrepo"
)

// Repo is a Postgres implementation of userrepo.Repository. Email uniqueness
// is enforced by a unique index on lower(email).
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const userColumns = `
	id, email, full_name, bio, avatar_url, role, password_hash,
	completed_trips, coins, created_at, updated_at
`

func (r *Repo) Create(ctx context.Context, u domain.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	userUUID, err := uuid.Parse(string(u.ID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO users (
			id, email, full_name, bio, avatar_url, role, password_hash,
			completed_trips, coins, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		userUUID,
		u.Email,
		u.FullName,
		u.Bio,
		u.AvatarURL,
		string(u.Role),
		u.PasswordHash,
		u.CompletedTrips,
		u.Coins,
		u.CreatedAt.UTC(),
		u.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			if pe.ConstraintName == "users_pkey" {
				return userrepo.ErrAlreadyExists
			}
			return userrepo.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repo) Update(ctx context.Context, u domain.User) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	userUUID, err := uuid.Parse(string(u.ID))
	if err != nil {
		return userrepo.ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET
			full_name = $2, bio = $3, avatar_url = $4, updated_at = $5
		WHERE id = $1
	`, userUUID, u.FullName, u.Bio, u.AvatarURL, u.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	if r.pool == nil {
		return domain.User{}, errors.New("nil postgres pool")
	}
	userUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.User{}, userrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userUUID)
	return scanUser(row)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if r.pool == nil {
		return domain.User{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

// AddCompletion bumps the completion counter and coin balance in one
// statement, so concurrent sweeps never lose an increment.
func (r *Repo) AddCompletion(ctx context.Context, id domain.UserID, coins int, updatedAt time.Time) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	userUUID, err := uuid.Parse(string(id))
	if err != nil {
		return userrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET
			completed_trips = completed_trips + 1,
			coins = coins + $2,
			updated_at = $3
		WHERE id = $1
	`, userUUID, coins, updatedAt.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return userrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		ORDER BY completed_trips DESC, coins DESC, full_name ASC, id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	if r.pool == nil {
		return 0, errors.New("nil postgres pool")
	}
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		id                   uuid.UUID
		u                    domain.User
		role                 string
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &u.Email, &u.FullName, &u.Bio, &u.AvatarURL, &role, &u.PasswordHash,
		&u.CompletedTrips, &u.Coins, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, userrepo.ErrNotFound
		}
		return domain.User{}, err
	}
	u.ID = domain.UserID(id.String())
	u.Role = domain.Role(role)
	u.CreatedAt = createdAt.UTC()
	u.UpdatedAt = updatedAt.UTC()
	return u, nil
}
