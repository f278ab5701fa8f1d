package registry

import (
	"context"
	"fmt"

	"checkin-importer/internal/providers"
	"checkin-importer/internal/structures"
)

// NewPersonRegistry picks the registry named by registry.kind.
func NewPersonRegistry(conf *structures.Config, database providers.DatabaseProviderInterface, compressor providers.CompressorInterface, logger providers.Logger) (PersonRegistryInterface, error) {
	switch conf.Registry.Kind {
	case "file":
		return NewSeedFileRegistry(conf.Registry.SeedPath, compressor, logger), nil
	case "database":
		db, err := database.DB(context.Background())
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRegistryUnavailable, err)
		}
		return NewPostgresRegistry(db), nil
	}
	return nil, fmt.Errorf("unknown registry kind %q", conf.Registry.Kind)
}
