package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the HTTP server on a registry of
// its own, so several servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	wateringsTotal        prometheus.Counter
	reportsTotal          *prometheus.CounterVec
	analysisFailuresTotal prometheus.Counter
}

// NewMetrics creates and registers the server metrics.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sawiku_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sawiku_http_request_duration_seconds",
				Help:    "Time taken for HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		wateringsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sawiku_waterings_total",
			Help: "Total number of recorded waterings",
		}),
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sawiku_growth_reports_total",
				Help: "Total number of submitted growth reports by grade",
			},
			[]string{"grade"}, // A-F, or "none" when no grade was parsed
		),
		analysisFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sawiku_analysis_failures_total",
			Help: "Total number of photo analyses that failed",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.wateringsTotal,
		m.reportsTotal,
		m.analysisFailuresTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return m, nil
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordWatering counts a recorded watering.
func (m *Metrics) RecordWatering() {
	m.wateringsTotal.Inc()
}

// RecordReport counts a submitted growth report.
func (m *Metrics) RecordReport(grade string, analysisFailed bool) {
	if grade == "" {
		grade = "none"
	}
	m.reportsTotal.WithLabelValues(grade).Inc()
	if analysisFailed {
		m.analysisFailuresTotal.Inc()
	}
}

// Middleware records the count and latency of every request by route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let the error handler write the response so the status is final.
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
			m.httpRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
