package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the rules repository.
type Metrics struct {
	// Cache hits/misses by kind ("eligibility", "documents")
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec

	// Source resolution failures that degraded to empty/default rules
	SourceFallbacks *prometheus.CounterVec

	// Source resolution latency on cache miss
	ResolveLatency *prometheus.HistogramVec
}

// New creates a new Metrics instance with all rules repository metrics registered.
func New() *Metrics {
	return &Metrics{
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahaay_rules_cache_hits_total",
			Help: "Total rule cache hits by kind",
		}, []string{"kind"}),

		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahaay_rules_cache_misses_total",
			Help: "Total rule cache misses by kind",
		}, []string{"kind"}),

		SourceFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "sahaay_rules_source_fallbacks_total",
			Help: "Total rule source failures degraded to empty or default rules",
		}, []string{"kind"}),

		ResolveLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sahaay_rules_resolve_duration_seconds",
			Help:    "Duration of rule source resolution on cache miss",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"kind"}),
	}
}

// RecordHit records a cache hit.
func (m *Metrics) RecordHit(kind string) {
	if m != nil {
		m.CacheHits.WithLabelValues(kind).Inc()
	}
}

// RecordMiss records a cache miss.
func (m *Metrics) RecordMiss(kind string) {
	if m != nil {
		m.CacheMisses.WithLabelValues(kind).Inc()
	}
}

// RecordFallback records a degraded source resolution.
func (m *Metrics) RecordFallback(kind string) {
	if m != nil {
		m.SourceFallbacks.WithLabelValues(kind).Inc()
	}
}

// ObserveResolve records the duration of a source resolution.
func (m *Metrics) ObserveResolve(kind string, d time.Duration) {
	if m != nil {
		m.ResolveLatency.WithLabelValues(kind).Observe(d.Seconds())
	}
}
