package triprepo

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
	"github.com/nomadnova/nomadnova-api/internal/ports/out/triprepo"
)

// Repo is a Postgres implementation of triprepo.Repository.
//
// AddMember takes a row lock on the trip inside one transaction, so the
// capacity check and the membership insert commit atomically; two joiners
// racing for the last spot serialize on the lock and exactly one wins.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const tripColumns = `
	id, organizer_id, destination, departure, from_date, to_date,
	transport, budget, category, description, capacity, status,
	created_at, updated_at
`

func (r *Repo) Create(ctx context.Context, t domain.Trip) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(t.ID))
	if err != nil {
		return fmt.Errorf("invalid trip id: %w", err)
	}
	organizerUUID, err := uuid.Parse(string(t.OrganizerID))
	if err != nil {
		return fmt.Errorf("invalid organizer id: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO trips (
			id, organizer_id, destination, departure, from_date, to_date,
			transport, budget, category, description, capacity, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		tripUUID,
		organizerUUID,
		t.Destination,
		t.Departure,
		t.FromDate.UTC(),
		t.ToDate.UTC(),
		t.Transport,
		t.Budget,
		t.Category,
		t.Description,
		t.Capacity,
		string(t.Status),
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return triprepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.TripID) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}

	row := r.pool.QueryRow(ctx, `SELECT `+tripColumns+` FROM trips WHERE id = $1`, tripUUID)
	t, err := scanTrip(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, triprepo.ErrNotFound
		}
		return domain.Trip{}, err
	}
	t.Members, err = r.loadMembers(ctx, tripUUID)
	if err != nil {
		return domain.Trip{}, err
	}
	return t, nil
}

func (r *Repo) ListOpen(ctx context.Context) ([]domain.Trip, error) {
	return r.list(ctx, `SELECT `+tripColumns+` FROM trips WHERE status = 'OPEN' ORDER BY from_date ASC, created_at ASC, id ASC`)
}

func (r *Repo) ListByUser(ctx context.Context, userID domain.UserID) ([]domain.Trip, error) {
	uid, err := uuid.Parse(string(userID))
	if err != nil {
		return []domain.Trip{}, nil
	}
	return r.list(ctx, `
		SELECT `+tripColumns+` FROM trips t
		WHERE t.organizer_id = $1
		   OR EXISTS (SELECT 1 FROM trip_members m WHERE m.trip_id = t.id AND m.user_id = $1)
		ORDER BY t.from_date ASC, t.created_at ASC, t.id ASC
	`, uid)
}

func (r *Repo) ListAll(ctx context.Context) ([]domain.Trip, error) {
	return r.list(ctx, `SELECT `+tripColumns+` FROM trips ORDER BY from_date ASC, created_at ASC, id ASC`)
}

func (r *Repo) ListDueForCompletion(ctx context.Context, now time.Time) ([]domain.Trip, error) {
	return r.list(ctx, `
		SELECT `+tripColumns+` FROM trips
		WHERE status IN ('OPEN', 'FULL') AND to_date < $1
		ORDER BY from_date ASC, created_at ASC, id ASC
	`, now.UTC())
}

func (r *Repo) AddMember(ctx context.Context, tripID domain.TripID, m domain.Membership) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	userUUID, err := uuid.Parse(string(m.UserID))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("invalid user id: %w", err)
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var capacity int
		var status string
		// Row lock serializes concurrent joins on the same trip.
		if err := tx.QueryRow(ctx, `SELECT capacity, status FROM trips WHERE id = $1 FOR UPDATE`, tripUUID).
			Scan(&capacity, &status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return triprepo.ErrNotFound
			}
			return err
		}
		if status != string(domain.TripStatusOpen) && status != string(domain.TripStatusFull) {
			return triprepo.ErrNotOpen
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM trip_members WHERE trip_id = $1`, tripUUID).Scan(&count); err != nil {
			return err
		}
		if count >= capacity {
			return triprepo.ErrFull
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO trip_members (trip_id, user_id, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (trip_id, user_id) DO NOTHING
		`, tripUUID, userUUID, m.JoinedAt.UTC())
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return triprepo.ErrAlreadyMember
		}

		newStatus := string(domain.MembershipStatus(capacity, count+1))
		_, err = tx.Exec(ctx, `UPDATE trips SET status = $2, updated_at = $3 WHERE id = $1`,
			tripUUID, newStatus, m.JoinedAt.UTC())
		return err
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return r.GetByID(ctx, tripID)
}

func (r *Repo) RemoveMember(ctx context.Context, tripID domain.TripID, userID domain.UserID) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	userUUID, err := uuid.Parse(string(userID))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotMember
	}

	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var capacity int
		var status string
		if err := tx.QueryRow(ctx, `SELECT capacity, status FROM trips WHERE id = $1 FOR UPDATE`, tripUUID).
			Scan(&capacity, &status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return triprepo.ErrNotFound
			}
			return err
		}

		tag, err := tx.Exec(ctx, `DELETE FROM trip_members WHERE trip_id = $1 AND user_id = $2`, tripUUID, userUUID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return triprepo.ErrNotMember
		}

		if status == string(domain.TripStatusOpen) || status == string(domain.TripStatusFull) {
			var count int
			if err := tx.QueryRow(ctx, `SELECT count(*) FROM trip_members WHERE trip_id = $1`, tripUUID).Scan(&count); err != nil {
				return err
			}
			newStatus := string(domain.MembershipStatus(capacity, count))
			if _, err := tx.Exec(ctx, `UPDATE trips SET status = $2, updated_at = now() WHERE id = $1`, tripUUID, newStatus); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	return r.GetByID(ctx, tripID)
}

func (r *Repo) SetStatus(ctx context.Context, tripID domain.TripID, status domain.TripStatus, updatedAt time.Time) (domain.Trip, error) {
	if r.pool == nil {
		return domain.Trip{}, errors.New("nil postgres pool")
	}
	tripUUID, err := uuid.Parse(string(tripID))
	if err != nil {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE trips SET status = $2, updated_at = $3 WHERE id = $1`,
		tripUUID, string(status), updatedAt.UTC())
	if err != nil {
		return domain.Trip{}, err
	}
	if tag.RowsAffected() == 0 {
		return domain.Trip{}, triprepo.ErrNotFound
	}
	return r.GetByID(ctx, tripID)
}

func (r *Repo) list(ctx context.Context, query string, args ...any) ([]domain.Trip, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Trip, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		id, err := uuid.Parse(string(t.ID))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	members, err := r.loadMembersForTrips(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Members = members[out[i].ID]
		if out[i].Members == nil {
			out[i].Members = []domain.Membership{}
		}
	}
	return out, nil
}

func (r *Repo) loadMembers(ctx context.Context, tripUUID uuid.UUID) ([]domain.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT user_id, joined_at FROM trip_members
		WHERE trip_id = $1
		ORDER BY joined_at ASC, user_id ASC
	`, tripUUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Membership, 0)
	for rows.Next() {
		var uid uuid.UUID
		var joinedAt time.Time
		if err := rows.Scan(&uid, &joinedAt); err != nil {
			return nil, err
		}
		out = append(out, domain.Membership{
			UserID:   domain.UserID(uid.String()),
			JoinedAt: joinedAt.UTC(),
		})
	}
	return out, rows.Err()
}

func (r *Repo) loadMembersForTrips(ctx context.Context, tripUUIDs []uuid.UUID) (map[domain.TripID][]domain.Membership, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT trip_id, user_id, joined_at FROM trip_members
		WHERE trip_id = ANY($1)
		ORDER BY joined_at ASC, user_id ASC
	`, tripUUIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[domain.TripID][]domain.Membership)
	for rows.Next() {
		var tid, uid uuid.UUID
		var joinedAt time.Time
		if err := rows.Scan(&tid, &uid, &joinedAt); err != nil {
			return nil, err
		}
		key := domain.TripID(tid.String())
		out[key] = append(out[key], domain.Membership{
			UserID:   domain.UserID(uid.String()),
			JoinedAt: joinedAt.UTC(),
		})
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrip(row rowScanner) (domain.Trip, error) {
	var (
		id, organizerID      uuid.UUID
		t                    domain.Trip
		status               string
		fromDate, toDate     time.Time
		createdAt, updatedAt time.Time
	)
	err := row.Scan(
		&id, &organizerID, &t.Destination, &t.Departure, &fromDate, &toDate,
		&t.Transport, &t.Budget, &t.Category, &t.Description, &t.Capacity, &status,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Trip{}, err
	}
	t.ID = domain.TripID(id.String())
	t.OrganizerID = domain.UserID(organizerID.String())
	t.FromDate = fromDate.UTC()
	t.ToDate = toDate.UTC()
	t.Status = domain.TripStatus(status)
	t.CreatedAt = createdAt.UTC()
	t.UpdatedAt = updatedAt.UTC()
	t.Members = []domain.Membership{}
	return t, nil
}
