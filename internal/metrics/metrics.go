package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Route label of requests no route matched
const unmatchedRoute = "unmatched"

// Metrics holds HTTP request collectors on own registry
type Metrics struct {
	registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}

	m.registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// RecordRequest counts request by its route pattern, never by raw path
func (m *Metrics) RecordRequest(method string, route string, status int, seconds float64) {
	if route == "" {
		route = unmatchedRoute
	}
	code := strconv.Itoa(status)

	m.requestDuration.WithLabelValues(method, route, code).Observe(seconds)
	m.requestTotal.WithLabelValues(method, route, code).Inc()
}

// Handler exposes collected metrics in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
