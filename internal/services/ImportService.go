package services

import (
	"context"
	"fmt"
	"time"

	"checkin-importer/internal/importer"
	"checkin-importer/internal/matching"
	"checkin-importer/internal/models"
	"checkin-importer/internal/normalize"
	"checkin-importer/internal/providers"
	"checkin-importer/internal/registry"
	"checkin-importer/internal/sheet"
	"checkin-importer/internal/storage"
	"checkin-importer/internal/structures"
)

type ImportServiceInterface interface {
	// Run imports every row of src in order. A returned error is fatal;
	// skipped rows only show up in the stats.
	Run(ctx context.Context, src *sheet.Source) (*models.ImportStats, error)
}

type ImportService struct {
	conf     structures.ImportConfig
	registry registry.PersonRegistryInterface
	store    storage.CheckInStoreInterface
	cache    providers.CacheProviderInterface
	metrics  providers.MetricsProviderInterface
	logger   providers.Logger

	patterns   []sheet.FieldPattern
	honorifics matching.Honorifics
	weather    *normalize.WeatherMapper
	keywords   []string
	roles      []models.Role

	builderOpts []importer.BuilderOption
}

func NewImportService(
	conf *structures.Config,
	reg registry.PersonRegistryInterface,
	store storage.CheckInStoreInterface,
	cache providers.CacheProviderInterface,
	metrics providers.MetricsProviderInterface,
	logger providers.Logger,
) (ImportServiceInterface, error) {
	weather, err := normalize.NewWeatherMapper(normalize.DefaultWeatherRules())
	if err != nil {
		return nil, err
	}

	roles := importer.DefaultSupportRoles()
	if len(conf.Import.SupportRoles) > 0 {
		roles = make([]models.Role, 0, len(conf.Import.SupportRoles))
		for _, r := range conf.Import.SupportRoles {
			role, ok := models.ParseRole(r)
			if !ok {
				return nil, fmt.Errorf("unknown support role %q", r)
			}
			roles = append(roles, role)
		}
	}

	return &ImportService{
		conf:       conf.Import,
		registry:   reg,
		store:      store,
		cache:      cache,
		metrics:    metrics,
		logger:     logger,
		patterns:   sheet.DefaultFieldPatterns(),
		honorifics: matching.DefaultHonorifics(),
		weather:    weather,
		keywords:   importer.DefaultGenericSupportKeywords(),
		roles:      roles,
	}, nil
}

func (s *ImportService) Run(ctx context.Context, src *sheet.Source) (*models.ImportStats, error) {
	start := time.Now()
	defer func() { s.metrics.ObserveRunDuration(time.Since(start)) }()

	people, err := s.registry.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch person registry: %w", err)
	}
	index := matching.NewPersonIndex(people, s.honorifics)
	st := index.Stats
	s.logger.Infof(providers.TypeMatch, "Person index: %d people, %d emails, %d names, %d tokens",
		st.People, st.Emails, st.FullNames, st.Tokens)
	if st.Shadowed > 0 {
		s.logger.Warnf(providers.TypeMatch, "%d people share a normalized name with an earlier entry and are reachable by email or token only", st.Shadowed)
	}

	cols, err := sheet.DiscoverColumns(src.Headers, s.patterns)
	if err != nil {
		return nil, err
	}
	for _, p := range s.patterns {
		if h, ok := cols[p.Field]; ok {
			s.logger.Debugf(providers.TypeImport, "Column %s -> %q", p.Field, h)
		} else {
			s.logger.Debugf(providers.TypeImport, "Column %s not found", p.Field)
		}
	}

	matcher := matching.NewMatcher(index)
	support := importer.NewSupportResolver(matcher, s.roles, s.keywords, s.cache)
	batchID := importer.NewBatchID()
	builder := importer.NewBuilder(cols, matcher, s.weather, support, src.ID, batchID, s.builderOpts...)
	writer := importer.NewWriter(s.store, s.logger, s.conf.DryRun, s.conf.BatchSize)

	s.logger.Infof(providers.TypeImport, "Importing %d rows from %s (batch %s, dry run %t)", len(src.Rows), src.ID, batchID, s.conf.DryRun)

	stats := models.NewImportStats(s.conf.MaxDiagnostics, s.conf.DryRun)
	blank := 0
	for _, row := range src.Rows {
		stats.RowsSeen++
		if row.IsBlank() {
			blank++
			continue
		}
		stats.RowsProcessed++

		rec, reason, err := builder.Build(row)
		if err != nil {
			return stats, err
		}
		switch reason {
		case models.SkipNoUser:
			stats.Skip(reason)
			d := builder.Diagnose(row)
			stats.AddUnmatched(d)
			s.logger.Debugf(providers.TypeMatch, "Row %d: no person for name %q email %q", row.Number, d.Name, d.Email)
			continue
		case models.SkipMissingRequired:
			stats.Skip(reason)
			s.logger.Debugf(providers.TypeImport, "Row %d: missing timestamp or score", row.Number)
			continue
		}

		if rec.SupportLabel != nil {
			stats.AddLegacyLabel(*rec.SupportLabel)
		}

		outcome, err := writer.Write(ctx, rec)
		if err != nil {
			return stats, fmt.Errorf("row %d: %w", row.Number, err)
		}
		if outcome == importer.OutcomeDuplicate {
			stats.Skip(models.SkipDuplicate)
			continue
		}
		stats.Inserted++
	}

	if err := writer.Flush(ctx); err != nil {
		return stats, err
	}
	if lost := writer.Conflicts(); lost > 0 {
		stats.Inserted -= lost
		stats.SkippedDuplicate += lost
	}

	s.recordMetrics(stats, blank)
	return stats, nil
}

func (s *ImportService) recordMetrics(stats *models.ImportStats, blank int) {
	s.metrics.AddRows(providers.OutcomeBlank, blank)
	s.metrics.AddRows(providers.OutcomeInserted, stats.Inserted)
	s.metrics.AddRows(providers.OutcomeDuplicate, stats.SkippedDuplicate)
	s.metrics.AddRows(providers.OutcomeNoUser, stats.SkippedNoUser)
	s.metrics.AddRows(providers.OutcomeMissingRequired, stats.SkippedMissingRequired)
}
