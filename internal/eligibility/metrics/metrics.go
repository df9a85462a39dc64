package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the eligibility module.
type Metrics struct {
	// Evaluation outcomes by decision
	Decisions *prometheus.CounterVec

	// Criterion failures by criterion name
	CriterionFailures *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram
}

// New creates a new Metrics instance with all eligibility metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahaay_eligibility_decisions_total",
			Help: "Total eligibility decisions by outcome",
		}, []string{"decision"}),

		CriterionFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahaay_eligibility_criterion_failures_total",
			Help: "Total failed criteria by criterion name",
		}, []string{"criterion"}),

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sahaay_eligibility_evaluate_duration_seconds",
			Help:    "Duration of a full eligibility evaluation including rule resolution",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementDecision records an evaluation outcome.
func (m *Metrics) IncrementDecision(decision string) {
	if m != nil {
		m.Decisions.WithLabelValues(decision).Inc()
	}
}

// IncrementCriterionFailure records one failed criterion.
func (m *Metrics) IncrementCriterionFailure(criterion string) {
	if m != nil {
		m.CriterionFailures.WithLabelValues(criterion).Inc()
	}
}

// ObserveEvaluateLatency records the total evaluation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
