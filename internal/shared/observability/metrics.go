package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	LintDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "litscan_lint_seconds",
		Help:    "Time spent parsing and checking a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesLintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litscan_files_linted_total",
		Help: "Total number of source files checked.",
	})

	LiteralsFlaggedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litscan_literals_flagged_total",
		Help: "Total number of literals reported as needing translation.",
	})

	FixesAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litscan_fixes_applied_total",
		Help: "Total number of literal rewrites written back to source files.",
	})

	FixesSkippedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litscan_fixes_skipped_total",
		Help: "Total number of rewrites dropped because they overlapped another.",
	})

	TranslationTasksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litscan_translation_tasks_total",
		Help: "Per-locale translation tasks by outcome.",
	}, []string{"status"})

	TranslationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "litscan_translation_seconds",
		Help:    "Latency of translator calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"locale"})

	CatalogWritesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "litscan_catalog_writes_total",
		Help: "Catalog insert attempts by result (inserted, exists, error).",
	}, []string{"result"})

	JobsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "litscan_jobs_in_flight",
		Help: "Translation jobs scheduled but not yet finished.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "litscan_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
