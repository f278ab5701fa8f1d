package storage

import (
	"context"
	"errors"
	"time"

	"checkin-importer/internal/models"
)

var ErrStoreUnavailable = errors.New("check-in store unavailable")

// CheckInStoreInterface is the write surface of the target store.
// Both insert calls skip rows whose (person, submitted at) key already exists.
type CheckInStoreInterface interface {
	Exists(ctx context.Context, personID string, at time.Time) (bool, error)
	// InsertIfAbsent reports false when the key was already stored.
	InsertIfAbsent(ctx context.Context, rec *models.CheckIn) (bool, error)
	// InsertMany returns how many of recs were actually written.
	InsertMany(ctx context.Context, recs []*models.CheckIn) (int, error)
}
