package testutil

import (
	"context"
	"sync"
	"time"

	"checkin-importer/internal/models"
	"checkin-importer/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
	Fields map[string]interface{}
}

func (m *MockLogger) record(e LogEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, e)
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record(LogEntry{Level: "error", Type: t, Format: format, Args: args})
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record(LogEntry{Level: "warn", Type: t, Format: format, Args: args})
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record(LogEntry{Level: "debug", Type: t, Format: format, Args: args})
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record(LogEntry{Level: "info", Type: t, Format: format, Args: args})
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record(LogEntry{Level: "fatal", Type: t, Format: format, Args: args})
}
func (m *MockLogger) Fields(t providers.TypeEnum, msg string, fields map[string]interface{}) {
	m.record(LogEntry{Level: "info", Type: t, Format: msg, Fields: fields})
}
func (m *MockLogger) Close() {}

// ByLevel returns the recorded entries of one level.
func (m *MockLogger) ByLevel(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.Logs {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
	Hits int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	if ok {
		m.Hits++
	}
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCompressor implements providers.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
	Closed       bool
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	// Default: return as-is (identity)
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() { m.Closed = true }

// MockStore implements storage.CheckInStoreInterface on a map. Existing keys
// can be preloaded, and each call can be made to fail.
type MockStore struct {
	mu       sync.Mutex
	Existing map[models.CheckInKey]bool
	Inserted []*models.CheckIn

	ExistsErr error
	InsertErr error
	// Stale keys pass Exists but are rejected on insert.
	Stale map[models.CheckInKey]bool

	ExistsCalls     int
	InsertCalls     int
	InsertManyCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{
		Existing: make(map[models.CheckInKey]bool),
		Stale:    make(map[models.CheckInKey]bool),
	}
}

func (m *MockStore) Exists(_ context.Context, personID string, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistsCalls++
	if m.ExistsErr != nil {
		return false, m.ExistsErr
	}
	return m.Existing[models.KeyOf(personID, at)], nil
}

func (m *MockStore) InsertIfAbsent(_ context.Context, rec *models.CheckIn) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertCalls++
	if m.InsertErr != nil {
		return false, m.InsertErr
	}
	return m.insert(rec), nil
}

func (m *MockStore) InsertMany(_ context.Context, recs []*models.CheckIn) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InsertManyCalls++
	if m.InsertErr != nil {
		return 0, m.InsertErr
	}
	n := 0
	for _, rec := range recs {
		if m.insert(rec) {
			n++
		}
	}
	return n, nil
}

func (m *MockStore) insert(rec *models.CheckIn) bool {
	k := rec.Key()
	if m.Existing[k] || m.Stale[k] {
		return false
	}
	m.Existing[k] = true
	m.Inserted = append(m.Inserted, rec)
	return true
}

// MockRegistry implements registry.PersonRegistryInterface.
type MockRegistry struct {
	People []models.Person
	Err    error
	Calls  int
}

func (m *MockRegistry) FetchAll(_ context.Context) ([]models.Person, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.People, nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts rows by outcome.
type MockMetrics struct {
	mu     sync.Mutex
	Rows   map[string]int
	Runs   int
	Writes int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Rows: make(map[string]int)}
}

func (m *MockMetrics) AddRows(outcome string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rows[outcome] += n
}
func (m *MockMetrics) IncCacheHits()                                  {}
func (m *MockMetrics) IncCacheMisses()                                {}
func (m *MockMetrics) ObserveStoreDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveRunDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Runs++
}
func (m *MockMetrics) Write() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	return nil
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
