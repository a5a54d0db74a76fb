package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the AMAS engine, its store, and the
// background jobs that keep the due-index and monitoring trees healthy.

var (
	EngineProcessDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amas_engine_process_duration_seconds",
			Help:    "Duration of a single ProcessEvent pipeline run",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	EngineProcessErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amas_engine_process_errors_total",
			Help: "Total number of ProcessEvent errors by taxonomy class",
		},
		[]string{"error_class"},
	)

	DecisionAlgorithmDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amas_decision_algorithm_duration_seconds",
			Help:    "Duration of an individual decision algorithm proposal",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"algorithm"},
	)

	EnsembleWeight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "amas_ensemble_trust_weight",
			Help: "Current trust weight assigned to each decision algorithm",
		},
		[]string{"algorithm"},
	)

	ColdStartPhaseTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amas_cold_start_phase_transitions_total",
			Help: "Total number of cold-start phase transitions",
		},
		[]string{"from", "to"},
	)

	InvariantViolations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amas_invariant_violations_total",
			Help: "Total number of invariant violations detected by the monitoring sampler",
		},
		[]string{"field"},
	)

	MonitoringEventsSampled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amas_monitoring_events_sampled_total",
			Help: "Total number of monitoring events persisted",
		},
		[]string{"reason"}, // "anomaly", "cold_start", "probabilistic"
	)

	WordSelectorDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amas_word_selector_duration_seconds",
			Help:    "Duration of a word selection call",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	WordSelectorCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "amas_word_selector_candidate_count",
			Help:    "Number of candidate words considered per selection call",
			Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amas_store_operation_duration_seconds",
			Help:    "Duration of a store operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "tree"},
	)

	StoreOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amas_store_operation_errors_total",
			Help: "Total number of store operation errors by taxonomy class",
		},
		[]string{"operation", "tree", "error_class"},
	)

	StoreCASRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amas_store_cas_retries_total",
			Help: "Total number of compare-and-swap retry attempts",
		},
		[]string{"tree"},
	)

	UserLockMapSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "amas_user_lock_map_size",
			Help: "Current number of entries in the per-user lock map",
		},
	)

	BackgroundJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "amas_background_job_duration_seconds",
			Help:    "Duration of a background job run",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		},
		[]string{"job"},
	)

	BackgroundJobSkippedOverlap = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "amas_background_job_skipped_overlap_total",
			Help: "Total number of background job runs skipped because the previous run was still in flight",
		},
		[]string{"job"},
	)

	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "amas_app_info",
			Help: "Build information for the running binary",
		},
		[]string{"version", "go_version"},
	)
)

// RecordEngineProcess records one ProcessEvent pipeline run.
func RecordEngineProcess(duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	EngineProcessDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordEngineError increments the taxonomy-classed error counter.
func RecordEngineError(errorClass string) {
	EngineProcessErrors.WithLabelValues(errorClass).Inc()
}

// RecordDecisionAlgorithm records how long one algorithm's Propose took.
func RecordDecisionAlgorithm(algorithm string, duration time.Duration) {
	DecisionAlgorithmDuration.WithLabelValues(algorithm).Observe(duration.Seconds())
}

// SetEnsembleWeight publishes the current trust weight for an algorithm.
func SetEnsembleWeight(algorithm string, weight float64) {
	EnsembleWeight.WithLabelValues(algorithm).Set(weight)
}

// RecordColdStartTransition records a cold-start phase change.
func RecordColdStartTransition(from, to string) {
	ColdStartPhaseTransitions.WithLabelValues(from, to).Inc()
}

// RecordInvariantViolation records one invariant violation by field name.
func RecordInvariantViolation(field string) {
	InvariantViolations.WithLabelValues(field).Inc()
}

// RecordMonitoringEvent records a persisted monitoring event and its sampling reason.
func RecordMonitoringEvent(reason string) {
	MonitoringEventsSampled.WithLabelValues(reason).Inc()
}

// RecordWordSelector records a word selection call.
func RecordWordSelector(duration time.Duration, candidateCount int, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	WordSelectorDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	WordSelectorCandidates.Observe(float64(candidateCount))
}

// RecordStoreOperation records a store operation outcome.
func RecordStoreOperation(operation, tree string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation, tree).Observe(duration.Seconds())
	if err != nil {
		StoreOperationErrors.WithLabelValues(operation, tree, ClassifyError(err)).Inc()
	}
}

// RecordCASRetry records one compare-and-swap retry for a tree.
func RecordCASRetry(tree string) {
	StoreCASRetries.WithLabelValues(tree).Inc()
}

// SetUserLockMapSize publishes the per-user lock map's current size.
func SetUserLockMapSize(n int) {
	UserLockMapSize.Set(float64(n))
}

// RecordBackgroundJob records a completed background job run.
func RecordBackgroundJob(job string, duration time.Duration) {
	BackgroundJobDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// RecordBackgroundJobSkipped records a background job run skipped due to overlap.
func RecordBackgroundJobSkipped(job string) {
	BackgroundJobSkippedOverlap.WithLabelValues(job).Inc()
}

// ClassifyError maps an error to a short label for metrics cardinality control.
// It is deliberately coarse: callers that already know the taxonomy class
// (store/errors.go) should prefer passing that string directly.
func ClassifyError(err error) string {
	if err == nil {
		return "none"
	}
	return "error"
}
