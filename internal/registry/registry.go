package registry

import (
	"context"
	"errors"

	"checkin-importer/internal/models"
)

var ErrRegistryUnavailable = errors.New("person registry unavailable")

// PersonRegistryInterface is the read-only bulk fetch of the user directory.
type PersonRegistryInterface interface {
	FetchAll(ctx context.Context) ([]models.Person, error)
}

// StaticRegistry serves a fixed list; handy for tests and small fixtures.
type StaticRegistry struct {
	People []models.Person
}

func (s *StaticRegistry) FetchAll(_ context.Context) ([]models.Person, error) {
	out := make([]models.Person, len(s.People))
	copy(out, s.People)
	return out, nil
}
