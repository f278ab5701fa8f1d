package importer

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type IDGen interface {
	New(at time.Time) (string, error)
}

// ulidGen issues lexically sortable record ids; ids from one run are monotonic.
type ulidGen struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newULIDGen() *ulidGen {
	return &ulidGen{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ulidGen) New(at time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(at.UTC()), g.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// NewBatchID tags every record written by one run.
func NewBatchID() string {
	return uuid.New().String()
}
