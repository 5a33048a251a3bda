package notificationrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nomadnova/nomadnova-api/internal/domain"
	"github.com/nomadnova/nomadnova-api/internal/ports/out/notificationrepo"
)

// Repo is a Postgres implementation of notificationrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Append(ctx context.Context, n domain.Notification) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(n.ID))
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	tripUUID, err := uuid.Parse(string(n.TripID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	recipientUUID, err := uuid.Parse(string(n.RecipientID))
	if err != nil {
		return fmt.Errorf("invalid recipient id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (id, type, trip_id, recipient_id, payload, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, string(n.Type), tripUUID, recipientUUID, n.Payload, n.Read, n.CreatedAt.UTC())
	return err
}

func (r *Repo) ListByRecipient(ctx context.Context, recipientID domain.UserID) ([]domain.Notification, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	recipientUUID, err := uuid.Parse(string(recipientID))
	if err != nil {
		return []domain.Notification{}, nil
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, type, trip_id, recipient_id, payload, read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at ASC, id ASC
	`, recipientUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		var (
			id, tripID, recipient uuid.UUID
			n                     domain.Notification
			typ                   string
			createdAt             time.Time
		)
		if err := rows.Scan(&id, &typ, &tripID, &recipient, &n.Payload, &n.Read, &createdAt); err != nil {
			return nil, err
		}
		n.ID = domain.NotificationID(id.String())
		n.Type = domain.NotificationType(typ)
		n.TripID = domain.TripID(tripID.String())
		n.RecipientID = domain.UserID(recipient.String())
		n.CreatedAt = createdAt.UTC()
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r *Repo) MarkRead(ctx context.Context, recipientID domain.UserID, id domain.NotificationID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	recipientUUID, err := uuid.Parse(string(recipientID))
	if err != nil {
		return notificationrepo.ErrNotFound
	}
	notifUUID, err := uuid.Parse(string(id))
	if err != nil {
		return notificationrepo.ErrNotFound
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1 AND recipient_id = $2
	`, notifUUID, recipientUUID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notificationrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) ClearByRecipient(ctx context.Context, recipientID domain.UserID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	recipientUUID, err := uuid.Parse(string(recipientID))
	if err != nil {
		return nil
	}
	_, err = r.pool.Exec(ctx, `DELETE FROM notifications WHERE recipient_id = $1`, recipientUUID)
	return err
}
