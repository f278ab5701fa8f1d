//go:build wireinject
// +build wireinject

package di

import (
	"checkin-importer/internal"
	"checkin-importer/internal/providers"
	"checkin-importer/internal/registry"
	"checkin-importer/internal/report"
	"checkin-importer/internal/services"
	"checkin-importer/internal/storage"
	"checkin-importer/internal/structures"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewZstdCompressor,
		providers.NewDatabaseProvider,

		registry.NewPersonRegistry,
		storage.NewCheckInStore,
		services.NewImportService,
		report.NewReporter,
		internal.NewApp,
	)

	return nil, nil
}
