package chatrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nomadnova/nomadnova-api/internal/domain"
)

// Repo is a Postgres implementation of chatrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Append(ctx context.Context, m domain.ChatMessage) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(m.ID))
	if err != nil {
		return fmt.Errorf("invalid message id: %w", err)
	}
	tripUUID, err := uuid.Parse(string(m.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	authorUUID, err := uuid.Parse(string(m.AuthorID))
	if err != nil {
		return fmt.Errorf("invalid author id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, trip_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, id, tripUUID, authorUUID, m.Body, m.CreatedAt.UTC())
	return err
}

func (r *Repo) ListByTrip(ctx context.Context, tripID domain.TripID) ([]domain.ChatMessage, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return []domain.ChatMessage{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, trip_id, author_id, body, created_at
		FROM chat_messages
		WHERE trip_id = $1
		ORDER BY created_at ASC, id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.ChatMessage, 0)
	for rows.Next() {
		var (
			id, trip, author uuid.UUID
			m                domain.ChatMessage
			createdAt        time.Time
		)
		if err := rows.Scan(&id, &trip, &author, &m.Body, &createdAt); err != nil {
			return nil, err
		}
		m.ID = domain.MessageID(id.String())
		m.TripID = domain.TripID(trip.String())
		m.AuthorID = domain.UserID(author.String())
		m.CreatedAt = createdAt.UTC()
		out = append(out, m)
	}
	return out, rows.Err()
}
