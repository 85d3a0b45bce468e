package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/felixgeelhaar/testrank/internal/errors"
)

// Metrics holds all Prometheus metrics for testrank
type Metrics struct {
	// Batch metrics
	Batches       *prometheus.CounterVec
	BatchDuration prometheus.Histogram
	Scenarios     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	// Ranking metrics
	RankedByTier  *prometheus.CounterVec
	RankedByGroup *prometheus.CounterVec

	// Advisor metrics
	AdvisorCalls     *prometheus.CounterVec
	AdvisorFallbacks *prometheus.CounterVec

	// Dependency metrics
	DependencyCycles prometheus.Counter

	// Execution metrics
	Executions        *prometheus.CounterVec
	ExecutionFailures *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Batches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_batches_total",
				Help: "Total number of scenario batches ranked",
			},
			[]string{"success"},
		),
		BatchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "testrank_batch_duration_seconds",
				Help:    "Wall time of a full batch run in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 600},
			},
		),
		Scenarios: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_scenarios_total",
				Help: "Total number of scenarios seen, by ingestion status",
			},
			[]string{"status"},
		),
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "testrank_stage_duration_seconds",
				Help:    "Engine stage duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),

		RankedByTier: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_ranked_scenarios_total",
				Help: "Total number of ranked scenarios by final tier",
			},
			[]string{"tier"},
		),
		RankedByGroup: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_execution_group_scenarios_total",
				Help: "Total number of ranked scenarios by execution group",
			},
			[]string{"group"},
		),

		AdvisorCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_advisor_calls_total",
				Help: "Total number of advisor consultations",
			},
			[]string{"success"},
		),
		AdvisorFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_advisor_fallbacks_total",
				Help: "Total number of advisor results replaced by the heuristic",
			},
			[]string{"error_code"},
		),

		DependencyCycles: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "testrank_dependency_unresolved_total",
				Help: "Total number of scenarios left unresolved by dependency cycles",
			},
		),

		Executions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_executions_total",
				Help: "Total number of real executions that produced an outcome, by reliability",
			},
			[]string{"reliability"},
		),
		ExecutionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_execution_failures_total",
				Help: "Total number of real executions that produced no outcome",
			},
			[]string{"error_code"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "testrank_errors_total",
				Help: "Total number of errors and warnings by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// ObserveStage records how long an engine stage took.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordError counts a coded error against a component.
func (m *Metrics) RecordError(component string, err error) {
	if m == nil || err == nil {
		return
	}
	code := string(errors.CodeOf(err))
	if code == "" {
		code = "unknown"
	}
	m.Errors.WithLabelValues(code, component).Inc()
}

func successLabel(ok bool) string {
	if ok {
		return "true"
	}
	return "false"
}

// RecordBatch counts a finished batch run.
func (m *Metrics) RecordBatch(ok bool, d time.Duration) {
	if m == nil {
		return
	}
	m.Batches.WithLabelValues(successLabel(ok)).Inc()
	m.BatchDuration.Observe(d.Seconds())
}

// RecordAdvisor counts one advisor consultation and its dropped results.
func (m *Metrics) RecordAdvisor(warnings []*errors.RankError) {
	if m == nil {
		return
	}
	failed := false
	for _, w := range warnings {
		if w.Code == errors.ErrCodeAdvisorFailed {
			failed = true
		}
		m.AdvisorFallbacks.WithLabelValues(string(w.Code)).Inc()
	}
	m.AdvisorCalls.WithLabelValues(successLabel(!failed)).Inc()
}
