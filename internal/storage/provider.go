package storage

import (
	"context"
	"fmt"
	"time"

	"checkin-importer/internal/models"
	"checkin-importer/internal/providers"
	"checkin-importer/internal/structures"
)

// NewCheckInStore picks the store named by storage.kind.
func NewCheckInStore(conf *structures.Config, database providers.DatabaseProviderInterface, metrics providers.MetricsProviderInterface, logger providers.Logger) (CheckInStoreInterface, error) {
	var store CheckInStoreInterface
	switch conf.Storage.Kind {
	case "memory":
		store = NewMemoryCheckInStore()
	case "postgres":
		db, err := database.DB(context.Background())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		store = NewPostgresCheckInStore(db)
	default:
		return nil, fmt.Errorf("unknown storage kind %q", conf.Storage.Kind)
	}
	logger.Infof(providers.TypeStore, "Check-in store: %s", conf.Storage.Kind)
	return &instrumentedStore{inner: store, metrics: metrics}, nil
}

type instrumentedStore struct {
	inner   CheckInStoreInterface
	metrics providers.MetricsProviderInterface
}

func (s *instrumentedStore) Exists(ctx context.Context, personID string, at time.Time) (bool, error) {
	defer s.observe("exists", time.Now())
	return s.inner.Exists(ctx, personID, at)
}

func (s *instrumentedStore) InsertIfAbsent(ctx context.Context, rec *models.CheckIn) (bool, error) {
	defer s.observe("insert", time.Now())
	return s.inner.InsertIfAbsent(ctx, rec)
}

func (s *instrumentedStore) InsertMany(ctx context.Context, recs []*models.CheckIn) (int, error) {
	defer s.observe("insert_many", time.Now())
	return s.inner.InsertMany(ctx, recs)
}

func (s *instrumentedStore) observe(op string, start time.Time) {
	s.metrics.ObserveStoreDuration(op, time.Since(start))
}
