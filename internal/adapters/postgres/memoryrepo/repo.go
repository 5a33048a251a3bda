package memoryrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repo is a Postgres implementation of memoryrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Create(ctx context.Context, m domain.Memory) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("invalid memory id: %w", err)
	}
	tripUUID, err := uuid.Parse(string(m.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	userUUID, err := uuid.Parse(string(m.UserID))
	if err != nil {
		return fmt.Errorf("invalid user id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO memories (id, trip_id, user_id, photo_url, caption, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, tripUUID, userUUID, m.PhotoURL, m.Caption, m.CreatedAt.UTC())
	return err
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.Memory, error) {
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.Memory{}, nil
	}
	return r.list(ctx, `
		SELECT id, trip_id, user_id, photo_url, caption, created_at
		FROM memories WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripUUID)
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Memory, error) {
	userUUID, err := uuid.Parse(string(userID))
	if err != nil {
		return []domain.Memory{}, nil
	}
	return r.list(ctx, `
		SELECT id, trip_id, user_id, photo_url, caption, created_at
		FROM memories WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`, userUUID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]domain.Memory, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Memory, 0)
	for rows.Next() {
		var (
			id, trip, user uuid.UUID
			m              domain.Memory
			createdAt      time.Time
		)
		if err := rows.Scan(&id, &trip, &user, &m.PhotoURL, &m.Caption, &createdAt); err != nil {
			return nil, err
		}
		m.ID = domain.MemoryID(id.String())
		m.TripID = domain.TripID(trip.String())
		m.UserID = domain.UserID(user.String())
		m.CreatedAt = createdAt.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
