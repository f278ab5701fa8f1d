package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"checkin-importer/internal/models"

	"github.com/lib/pq"
)

const existsQuery = `SELECT EXISTS (SELECT 1 FROM checkins WHERE person_id = $1 AND submitted_at = $2)`

const insertQuery = `
	INSERT INTO checkins (
		id, person_id, event_date, submitted_at, weather, moods, note,
		presence, capacity, support_person_id, support_label,
		source, import_batch_id, imported_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (person_id, submitted_at) DO NOTHING`

type DB interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type PostgresCheckInStore struct {
	db DB
}

func NewPostgresCheckInStore(db DB) *PostgresCheckInStore {
	return &PostgresCheckInStore{db: db}
}

func (s *PostgresCheckInStore) Exists(ctx context.Context, personID string, at time.Time) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, existsQuery, personID, at.UTC()).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: exists: %w", ErrStoreUnavailable, err)
	}
	return exists, nil
}

func (s *PostgresCheckInStore) InsertIfAbsent(ctx context.Context, rec *models.CheckIn) (bool, error) {
	res, err := s.db.ExecContext(ctx, insertQuery, insertArgs(rec)...)
	if err != nil {
		return false, fmt.Errorf("%w: insert %s: %w", ErrStoreUnavailable, rec.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return n == 1, nil
}

// InsertMany writes recs in one transaction, in order.
func (s *PostgresCheckInStore) InsertMany(ctx context.Context, recs []*models.CheckIn) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: begin: %w", ErrStoreUnavailable, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertQuery)
	if err != nil {
		return 0, fmt.Errorf("%w: prepare: %w", ErrStoreUnavailable, err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range recs {
		res, err := stmt.ExecContext(ctx, insertArgs(rec)...)
		if err != nil {
			return 0, fmt.Errorf("%w: insert %s: %w", ErrStoreUnavailable, rec.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrStoreUnavailable, err)
	}
	return inserted, nil
}

func insertArgs(rec *models.CheckIn) []any {
	moods := rec.Moods
	if moods == nil {
		moods = []string{}
	}
	return []any{
		rec.ID,
		rec.PersonID,
		rec.EventDate.UTC(),
		rec.SubmittedAt.UTC(),
		rec.Weather,
		pq.Array(moods),
		rec.Note,
		rec.Presence,
		rec.Capacity,
		rec.SupportPersonID,
		rec.SupportLabel,
		rec.Source,
		rec.ImportBatchID,
		rec.ImportedAt.UTC(),
	}
}
