package internal

import (
	"context"
	"sync"
	"time"

	"checkin-importer/internal/models"
	"checkin-importer/internal/providers"
	"checkin-importer/internal/report"
	"checkin-importer/internal/services"
	"checkin-importer/internal/sheet"
	"checkin-importer/internal/structures"
)

type App struct {
	conf       *structures.Config
	logger     providers.Logger
	service    services.ImportServiceInterface
	reporter   report.ReporterInterface
	metrics    providers.MetricsProviderInterface
	database   providers.DatabaseProviderInterface
	compressor providers.CompressorInterface
	load       func(path, sourceID string) (*sheet.Source, error)
	closeOnce  sync.Once
}

func NewApp(
	conf *structures.Config,
	logger providers.Logger,
	service services.ImportServiceInterface,
	reporter report.ReporterInterface,
	metrics providers.MetricsProviderInterface,
	database providers.DatabaseProviderInterface,
	compressor providers.CompressorInterface,
) *App {
	return &App{
		conf:       conf,
		logger:     logger,
		service:    service,
		reporter:   reporter,
		metrics:    metrics,
		database:   database,
		compressor: compressor,
		load:       sheet.Load,
	}
}

// Run performs one import. Resources are released whatever the outcome.
func (a *App) Run(ctx context.Context) (*models.ImportStats, error) {
	defer a.Close()

	started := time.Now()
	a.logger.Infof(providers.TypeApp, "Starting %s for %s", a.conf.AppName, a.conf.Source.Path)

	src, err := a.load(a.conf.Source.Path, a.conf.Source.ID)
	if err != nil {
		a.logger.Fatalf(providers.TypeApp, "Load source: %s", err)
		return nil, err
	}
	a.logger.Infof(providers.TypeApp, "Loaded sheet %q: %d columns, %d rows", src.Sheet, len(src.Headers), len(src.Rows))

	stats, err := a.service.Run(ctx, src)
	if err != nil {
		a.logger.Fatalf(providers.TypeApp, "Import aborted: %s", err)
		if stats != nil {
			a.emit(stats, started)
		}
		return stats, err
	}

	a.emit(stats, started)
	a.logger.Infof(providers.TypeApp, "Import finished in %s", time.Since(started).Round(time.Millisecond))
	return stats, nil
}

func (a *App) emit(stats *models.ImportStats, started time.Time) {
	rep := report.New(a.conf.Source.ID, stats, started, time.Since(started), a.conf.Import.ReportLimit)
	if err := a.reporter.Emit(rep); err != nil {
		a.logger.Errorf(providers.TypeApp, "Report error: %s", err)
	}
	if err := a.metrics.Write(); err != nil {
		a.logger.Errorf(providers.TypeApp, "Metrics error: %s", err)
	}
}

func (a *App) Close() {
	a.closeOnce.Do(func() {
		if err := a.database.Close(); err != nil {
			a.logger.Errorf(providers.TypeStore, "Database close error: %s", err)
		}
		a.compressor.Close()
		a.logger.Close()
	})
}
