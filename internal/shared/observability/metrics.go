package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParsingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unusedargs_parsing_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	ParsersLeased = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "unusedargs_parsers_leased",
		Help: "Number of pooled tree-sitter parsers currently in use.",
	}, []string{"language"})

	ParsersCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unusedargs_parsers_created_total",
		Help: "Total number of tree-sitter parsers allocated by the pools.",
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unusedargs_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	FilesLintedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedargs_files_linted_total",
		Help: "Total number of source files the rule ran on.",
	})

	FilesSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unusedargs_files_skipped_total",
		Help: "Total number of source files skipped, by reason.",
	}, []string{"reason"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "unusedargs_findings_total",
		Help: "Total number of unused-argument findings emitted, by code.",
	}, []string{"code"})

	BaselineSuppressedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedargs_baseline_suppressed_total",
		Help: "Total number of findings hidden because they are recorded in the baseline.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "unusedargs_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
