package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds application-wide Prometheus metrics.
type Metrics struct {
	RequestDuration *prometheus.HistogramVec
	ProfilesCreated prometheus.Counter
}

// New creates and registers all application-wide metrics.
func New() *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "legacylink_http_request_duration_seconds",
			Help:    "Duration of HTTP requests by method, route and status",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "status"}),
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "legacylink_profiles_created_total",
			Help: "Total number of profiles created via signup",
		}),
	}
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
}

// IncrementProfilesCreated records a successful signup.
func (m *Metrics) IncrementProfilesCreated() {
	m.ProfilesCreated.Inc()
}
