package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requestCount    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	outcomes        *prometheus.CounterVec
	labels          *prometheus.CounterVec
	inference       prometheus.Histogram
}

// New builds collectors on a private registry so several instances can
// coexist in one process.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			}, []string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			}, []string{"path"},
		),
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predictions_total",
				Help: "Prediction requests by terminal outcome",
			}, []string{"outcome"},
		),
		labels: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "predicted_labels_total",
				Help: "Top-1 labels returned to clients",
			}, []string{"label"},
		),
		inference: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inference_duration_seconds",
				Help:    "Time spent inside the model predictor",
				Buckets: prometheus.DefBuckets,
			},
		),
	}

	m.registry.MustRegister(
		m.requestCount,
		m.requestDuration,
		m.outcomes,
		m.labels,
		m.inference,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) ObserveOutcome(outcome string) {
	m.outcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLabel(label string) {
	m.labels.WithLabelValues(label).Inc()
}

func (m *Metrics) ObserveInference(d time.Duration) {
	m.inference.Observe(d.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records count and latency per route. Routes are labelled by
// their registered pattern to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}

			status := c.Response().Status
			m.requestCount.WithLabelValues(path, c.Request().Method, strconv.Itoa(status)).Inc()
			m.requestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())

			return nil
		}
	}
}
