// Package metrics registers the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the forecast service.
type Metrics struct {
	RequestsTotal  *prometheus.CounterVec
	RequestDur     prometheus.Histogram
	ForecastsTotal *prometheus.CounterVec
	RateLimited    prometheus.Counter
}

// New registers and returns all collectors on the default registry.
func New() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxpredict_http_requests_total",
			Help: "HTTP requests served (by path and status)",
		}, []string{"path", "status"}),
		RequestDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fxpredict_http_request_duration_seconds",
			Help:    "HTTP request handling latency",
			Buckets: prometheus.DefBuckets,
		}),
		ForecastsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fxpredict_forecasts_generated_total",
			Help: "Forecasts generated (by pair)",
		}, []string{"pair"}),
		RateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fxpredict_requests_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		}),
	}

	prometheus.MustRegister(
		m.RequestsTotal,
		m.RequestDur,
		m.ForecastsTotal,
		m.RateLimited,
	)

	return m
}
