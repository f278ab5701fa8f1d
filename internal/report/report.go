package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"checkin-importer/internal/models"
	"checkin-importer/internal/providers"
	"checkin-importer/internal/structures"

	json "github.com/goccy/go-json"
)

// Report is the operator-facing summary of one run.
type Report struct {
	Source                 string                `json:"source"`
	DryRun                 bool                  `json:"dry_run"`
	StartedAt              time.Time             `json:"started_at"`
	DurationSeconds        float64               `json:"duration_seconds"`
	RowsSeen               int                   `json:"rows_seen"`
	RowsProcessed          int                   `json:"rows_processed"`
	Inserted               int                   `json:"inserted"`
	SkippedDuplicate       int                   `json:"skipped_duplicate"`
	SkippedNoUser          int                   `json:"skipped_no_user"`
	SkippedMissingRequired int                   `json:"skipped_missing_required"`
	Unmatched              []models.UnmatchedRow `json:"unmatched"`
	LegacyLabels           []models.LabelCount   `json:"legacy_labels"`
}

// New keeps at most limit diagnostics and limit labels.
func New(source string, stats *models.ImportStats, startedAt time.Time, duration time.Duration, limit int) *Report {
	return &Report{
		Source:                 source,
		DryRun:                 stats.DryRun,
		StartedAt:              startedAt.UTC(),
		DurationSeconds:        duration.Seconds(),
		RowsSeen:               stats.RowsSeen,
		RowsProcessed:          stats.RowsProcessed,
		Inserted:               stats.Inserted,
		SkippedDuplicate:       stats.SkippedDuplicate,
		SkippedNoUser:          stats.SkippedNoUser,
		SkippedMissingRequired: stats.SkippedMissingRequired,
		Unmatched:              stats.TopUnmatched(limit),
		LegacyLabels:           stats.TopLegacyLabels(limit),
	}
}

type ReporterInterface interface {
	Emit(r *Report) error
}

type Reporter struct {
	path       string
	logger     providers.Logger
	compressor providers.CompressorInterface
}

func NewReporter(conf *structures.Config, logger providers.Logger, compressor providers.CompressorInterface) ReporterInterface {
	return &Reporter{path: conf.Report.Path, logger: logger, compressor: compressor}
}

// Emit logs the summary and, when a report path is configured, writes it
// as JSON. A path ending in ".zst" is zstd-compressed.
func (r *Reporter) Emit(rep *Report) error {
	r.logger.Fields(providers.TypeImport, "import summary", map[string]interface{}{
		"source":                   rep.Source,
		"dry_run":                  rep.DryRun,
		"duration_seconds":         rep.DurationSeconds,
		"rows_seen":                rep.RowsSeen,
		"rows_processed":           rep.RowsProcessed,
		"inserted":                 rep.Inserted,
		"skipped_duplicate":        rep.SkippedDuplicate,
		"skipped_no_user":          rep.SkippedNoUser,
		"skipped_missing_required": rep.SkippedMissingRequired,
	})
	for _, u := range rep.Unmatched {
		r.logger.Infof(providers.TypeMatch, "Unmatched row %d: name %q email %q", u.Row, u.Name, u.Email)
	}
	for _, l := range rep.LegacyLabels {
		r.logger.Infof(providers.TypeMatch, "Legacy support label %q x%d", l.Label, l.Count)
	}

	if r.path == "" {
		return nil
	}
	return r.write(rep)
}

func (r *Reporter) write(rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if strings.HasSuffix(r.path, ".zst") {
		data, err = r.compressor.Compress(data)
		if err != nil {
			return fmt.Errorf("compress report: %w", err)
		}
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write report: %w", err)
	}
	r.logger.Infof(providers.TypeApp, "Report written to %s", r.path)
	return nil
}
