package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the documents module.
type Metrics struct {
	// Validation verdicts by payload kind and status
	Validations *prometheus.CounterVec

	// Keyword-match confidence for file-based validations
	Confidence prometheus.Histogram

	// Aggregate status values served on status reads
	FinalStatuses *prometheus.CounterVec

	// Text extraction latency
	ExtractLatency prometheus.Histogram
}

// New creates a new Metrics instance with all documents metrics registered.
func New() *Metrics {
	return &Metrics{
		Validations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahaay_documents_validations_total",
			Help: "Total document validations by payload kind and verdict",
		}, []string{"kind", "status"}),

		Confidence: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sahaay_documents_confidence",
			Help:    "Keyword-match confidence of file-based validations",
			Buckets: []float64{0.1, 0.25, 0.5, 0.75, 0.9, 1},
		}),

		FinalStatuses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahaay_documents_final_status_total",
			Help: "Aggregate document statuses served on status reads",
		}, []string{"status"}),

		ExtractLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "sahaay_documents_extract_duration_seconds",
			Help:    "Duration of optical text extraction calls",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementValidation records one validation verdict.
func (m *Metrics) IncrementValidation(kind, status string) {
	if m != nil {
		m.Validations.WithLabelValues(kind, status).Inc()
	}
}

// ObserveConfidence records a file-based validation's confidence.
func (m *Metrics) ObserveConfidence(c float64) {
	if m != nil {
		m.Confidence.Observe(c)
	}
}

// IncrementFinalStatus records an aggregate status read.
func (m *Metrics) IncrementFinalStatus(status string) {
	if m != nil {
		m.FinalStatuses.WithLabelValues(status).Inc()
	}
}

// ObserveExtractLatency records a text extraction duration.
func (m *Metrics) ObserveExtractLatency(d time.Duration) {
	if m != nil {
		m.ExtractLatency.Observe(d.Seconds())
	}
}
