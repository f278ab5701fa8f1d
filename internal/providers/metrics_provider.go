package providers

import (
	"fmt"
	"time"

	"checkin-importer/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row outcomes reported on importer_rows_total.
const (
	OutcomeBlank           = "blank"
	OutcomeInserted        = "inserted"
	OutcomeDuplicate       = "duplicate"
	OutcomeNoUser          = "no-user"
	OutcomeMissingRequired = "missing-required"
)

type MetricsProviderInterface interface {
	AddRows(outcome string, n int)
	IncCacheHits()
	IncCacheMisses()
	ObserveStoreDuration(op string, duration time.Duration)
	ObserveRunDuration(duration time.Duration)
	// Write dumps the registry to the configured textfile, if any.
	Write() error
}

type MetricsProvider struct {
	registry      *prometheus.Registry
	textfile      string
	rowsTotal     *prometheus.CounterVec
	cacheHits     prometheus.Counter
	cacheMisses   prometheus.Counter
	storeDuration *prometheus.HistogramVec
	runDuration   prometheus.Histogram
	lastRun       prometheus.Gauge
}

func (m *MetricsProvider) AddRows(outcome string, n int) {
	m.rowsTotal.WithLabelValues(outcome).Add(float64(n))
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObserveStoreDuration(op string, duration time.Duration) {
	m.storeDuration.WithLabelValues(op).Observe(duration.Seconds())
}

func (m *MetricsProvider) ObserveRunDuration(duration time.Duration) {
	m.runDuration.Observe(duration.Seconds())
	m.lastRun.SetToCurrentTime()
}

func (m *MetricsProvider) Write() error {
	if m.textfile == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.textfile, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", m.textfile, err)
	}
	return nil
}

// Gatherer exposes the per-run registry.
func (m *MetricsProvider) Gatherer() prometheus.Gatherer {
	return m.registry
}

// NewMetricsProvider builds a per-run registry. A batch job has no scrape
// endpoint, so results are pushed to a node-exporter textfile instead.
func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &MetricsProvider{
		registry: reg,
		textfile: conf.Metrics.Textfile,

		rowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "importer_rows_total",
			Help: "Spreadsheet rows by outcome",
		}, []string{"outcome"}),

		cacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "importer_cache_hits_total",
			Help: "Support-contact resolutions served from cache",
		}),

		cacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "importer_cache_misses_total",
			Help: "Support-contact resolutions computed",
		}),

		storeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "importer_store_duration_seconds",
			Help:    "Check-in store call duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),

		runDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "importer_run_duration_seconds",
			Help:    "Wall time of an import run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),

		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "importer_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) AddRows(_ string, _ int)                        {}
func (n *noopMetrics) IncCacheHits()                                  {}
func (n *noopMetrics) IncCacheMisses()                                {}
func (n *noopMetrics) ObserveStoreDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) ObserveRunDuration(_ time.Duration)             {}
func (n *noopMetrics) Write() error                                   { return nil }
