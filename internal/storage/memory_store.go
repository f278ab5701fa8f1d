package storage

import (
	"context"
	"sync"
	"time"

	"checkin-importer/internal/models"
)

// MemoryCheckInStore keeps records in insertion order. Used for offline runs and tests.
type MemoryCheckInStore struct {
	mu      sync.RWMutex
	keys    map[models.CheckInKey]struct{}
	records []*models.CheckIn
}

func NewMemoryCheckInStore(seed ...*models.CheckIn) *MemoryCheckInStore {
	s := &MemoryCheckInStore{keys: make(map[models.CheckInKey]struct{})}
	for _, rec := range seed {
		s.insert(rec)
	}
	return s
}

func (s *MemoryCheckInStore) Exists(_ context.Context, personID string, at time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.keys[models.KeyOf(personID, at)]
	return ok, nil
}

func (s *MemoryCheckInStore) InsertIfAbsent(_ context.Context, rec *models.CheckIn) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(rec), nil
}

func (s *MemoryCheckInStore) InsertMany(_ context.Context, recs []*models.CheckIn) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, rec := range recs {
		if s.insert(rec) {
			n++
		}
	}
	return n, nil
}

// Records returns a snapshot of stored records.
func (s *MemoryCheckInStore) Records() []*models.CheckIn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.CheckIn, len(s.records))
	copy(out, s.records)
	return out
}

func (s *MemoryCheckInStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *MemoryCheckInStore) insert(rec *models.CheckIn) bool {
	k := rec.Key()
	if _, ok := s.keys[k]; ok {
		return false
	}
	s.keys[k] = struct{}{}
	s.records = append(s.records, rec)
	return true
}
