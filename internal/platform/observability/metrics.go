package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_records_processed_total",
		Help: "The total number of records resolved, by processing method",
	}, []string{"method"})

	RecordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_records_skipped_total",
		Help: "The total number of records skipped during validation",
	})

	RecordsEscalated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_records_escalated_total",
		Help: "The total number of records escalated to the LLM batch processor",
	})

	LLMBatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sweeper_llm_batches_total",
		Help: "The total number of LLM batches issued, by outcome",
	}, []string{"status"})

	LLMTokensUsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_llm_tokens_total",
		Help: "The total number of LLM tokens spent",
	})

	LLMRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sweeper_llm_request_duration_seconds",
		Help:    "Duration of LLM batch requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"category"})

	ApplyFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_apply_failures_total",
		Help: "The total number of record updates that failed after retry",
	})

	RecordsArchived = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweeper_records_archived_total",
		Help: "The total number of records archived as garbage",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "sweeper_run_duration_seconds",
		Help:    "Duration in seconds of a full pipeline run",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
	})

	TokensSaved = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sweeper_tokens_saved",
		Help: "Tokens saved in the last run versus the per-record LLM baseline",
	})
)
