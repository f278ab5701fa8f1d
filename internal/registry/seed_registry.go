package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"checkin-importer/internal/models"
	"checkin-importer/internal/providers"

	json "github.com/goccy/go-json"
)

// SeedFileRegistry loads the directory from a JSON seed file. Files ending in
// ".zst" are zstd-compressed.
type SeedFileRegistry struct {
	path       string
	compressor providers.CompressorInterface
	logger     providers.Logger
}

func NewSeedFileRegistry(path string, compressor providers.CompressorInterface, logger providers.Logger) *SeedFileRegistry {
	return &SeedFileRegistry{path: path, compressor: compressor, logger: logger}
}

type seedEnvelope struct {
	People []models.Person `json:"people"`
}

func (s *SeedFileRegistry) FetchAll(_ context.Context) ([]models.Person, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: seed file %s does not exist", ErrRegistryUnavailable, s.path)
		}
		return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
	}

	if strings.HasSuffix(s.path, ".zst") {
		data, err = s.compressor.Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress seed file: %w", err)
		}
	}

	people, err := decodeSeed(data)
	if err != nil {
		return nil, fmt.Errorf("decode seed file %s: %w", s.path, err)
	}

	for i := range people {
		if role, ok := models.ParseRole(string(people[i].Role)); ok {
			people[i].Role = role
		}
	}
	s.logger.Infof(providers.TypeApp, "Loaded %d people from seed file %s", len(people), s.path)
	return people, nil
}

// decodeSeed accepts a bare array or an object with a "people" array.
func decodeSeed(data []byte) ([]models.Person, error) {
	var people []models.Person
	arrErr := json.Unmarshal(data, &people)
	if arrErr == nil {
		return people, nil
	}
	var env seedEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.People != nil {
		return env.People, nil
	}
	return nil, arrErr
}
