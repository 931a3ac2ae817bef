// Package metrics exposes Prometheus instrumentation for the checkout path.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Checkout outcome label values.
const (
	OutcomeSuccess    = "success"
	OutcomeFailed     = "failed"
	OutcomeRejected   = "rejected"
	OutcomeIdempotent = "idempotent"
)

// CheckoutMetrics counts checkout attempts by outcome and tracks latency.
type CheckoutMetrics struct {
	attempts *prometheus.CounterVec
	duration prometheus.Histogram
}

// NewCheckoutMetrics registers the checkout collectors on the default registry.
func NewCheckoutMetrics() *CheckoutMetrics {
	attempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kasir",
		Name:      "checkout_attempts_total",
		Help:      "Total number of checkout attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "kasir",
		Name:      "checkout_duration_seconds",
		Help:      "Wall-clock duration of checkout attempts.",
		Buckets:   prometheus.DefBuckets,
	})

	prometheus.MustRegister(attempts, duration)
	return &CheckoutMetrics{attempts: attempts, duration: duration}
}

// Observe records one finished checkout attempt. Safe on a nil receiver so
// callers without metrics wired can pass nil.
func (m *CheckoutMetrics) Observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Handler returns the scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
