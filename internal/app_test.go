package internal

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"checkin-importer/internal/models"
	"checkin-importer/internal/providers"
	"checkin-importer/internal/report"
	"checkin-importer/internal/sheet"
	"checkin-importer/internal/structures"
	"checkin-importer/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	stats *models.ImportStats
	err   error
	calls int
}

func (s *stubService) Run(_ context.Context, _ *sheet.Source) (*models.ImportStats, error) {
	s.calls++
	return s.stats, s.err
}

type stubReporter struct {
	reports []*report.Report
}

func (r *stubReporter) Emit(rep *report.Report) error {
	r.reports = append(r.reports, rep)
	return nil
}

type appFixture struct {
	app        *App
	service    *stubService
	reporter   *stubReporter
	metrics    *testutil.MockMetrics
	compressor *testutil.MockCompressor
}

func newAppFixture(service *stubService) *appFixture {
	conf := &structures.Config{
		AppName: "CheckinImporter",
		Source:  structures.SourceConfig{Path: "legacy.xlsx", ID: "legacy"},
		Import:  structures.ImportConfig{ReportLimit: 10},
	}
	f := &appFixture{
		service:    service,
		reporter:   &stubReporter{},
		metrics:    testutil.NewMockMetrics(),
		compressor: &testutil.MockCompressor{},
	}
	f.app = NewApp(conf, &testutil.MockLogger{}, service, f.reporter, f.metrics,
		providers.NewDatabaseProvider(conf, &testutil.MockLogger{}), f.compressor)
	f.app.load = func(_, id string) (*sheet.Source, error) {
		return sheet.NewSource(id, []string{"Timestamp"}, nil), nil
	}
	return f
}

func TestApp_RunEmitsReport(t *testing.T) {
	stats := models.NewImportStats(10, false)
	stats.Inserted = 3
	f := newAppFixture(&stubService{stats: stats})

	got, err := f.app.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, got.Inserted)
	require.Len(t, f.reporter.reports, 1)
	assert.Equal(t, "legacy", f.reporter.reports[0].Source)
	assert.Equal(t, 1, f.metrics.Writes)
	assert.True(t, f.compressor.Closed)
}

func TestApp_MissingSourceIsFatal(t *testing.T) {
	f := newAppFixture(&stubService{})
	f.app.load = sheet.Load
	f.app.conf.Source.Path = filepath.Join(t.TempDir(), "absent.xlsx")

	_, err := f.app.Run(context.Background())
	assert.ErrorIs(t, err, sheet.ErrSourceNotFound)
	assert.Zero(t, f.service.calls)
	assert.Empty(t, f.reporter.reports)
	assert.True(t, f.compressor.Closed)
}

func TestApp_AbortedRunReportsPartialStats(t *testing.T) {
	stats := models.NewImportStats(10, false)
	stats.RowsSeen = 4
	f := newAppFixture(&stubService{stats: stats, err: fmt.Errorf("row 5: %w", errors.New("connection lost"))})

	_, err := f.app.Run(context.Background())
	assert.Error(t, err)
	require.Len(t, f.reporter.reports, 1)
	assert.Equal(t, 4, f.reporter.reports[0].RowsSeen)
}

func TestApp_SchemaErrorSkipsReport(t *testing.T) {
	f := newAppFixture(&stubService{err: &sheet.SchemaResolutionError{Missing: []sheet.Field{sheet.FieldPresence}}})

	_, err := f.app.Run(context.Background())
	var schemaErr *sheet.SchemaResolutionError
	assert.ErrorAs(t, err, &schemaErr)
	assert.Empty(t, f.reporter.reports)
}

func TestApp_CloseTwice(t *testing.T) {
	f := newAppFixture(&stubService{stats: models.NewImportStats(10, false)})
	f.app.Close()
	assert.NotPanics(t, f.app.Close)
}
