// Package metrics exposes Prometheus counters for verification outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Verified            prometheus.Counter
	Rejected            prometheus.Counter
	PolicyDenied        *prometheus.CounterVec
	PendingListDuration prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		Verified: promauto.NewCounter(prometheus.CounterOpts{
			Name: "legacylink_profiles_verified_total",
			Help: "Total number of profiles marked verified.",
		}),
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "legacylink_profiles_rejected_total",
			Help: "Total number of profiles rejected.",
		}),
		PolicyDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "legacylink_verification_policy_denied_total",
			Help: "Authorization denials by operation.",
		}, []string{"operation"}),
		PendingListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "legacylink_pending_list_duration_seconds",
			Help:    "Latency of pending profile listings.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncrementVerified() {
	if m == nil {
		return
	}
	m.Verified.Inc()
}

func (m *Metrics) IncrementRejected() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

func (m *Metrics) IncrementPolicyDenied(operation string) {
	if m == nil {
		return
	}
	m.PolicyDenied.WithLabelValues(operation).Inc()
}

func (m *Metrics) ObservePendingList(seconds float64) {
	if m == nil {
		return
	}
	m.PendingListDuration.Observe(seconds)
}
