package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "liftquote"

	// Labels
	kindLabel      = "kind"
	classLabel     = "class"
	recipientLabel = "recipient"
	outcomeLabel   = "outcome"
)

var latencyBuckets = []float64{5, 25, 100, 300, 1000, 5000}

// Metrics holds the service collectors on its own registry so that tests and
// the /metrics endpoint see the same values.
type Metrics struct {
	registry      *prometheus.Registry
	quotes        *prometheus.CounterVec
	notifications *prometheus.CounterVec
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		quotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotes_total",
			Help:      "Quotes computed, partitioned by kind and recommended crane class.",
		}, []string{kindLabel, classLabel}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Quote notifications attempted, partitioned by recipient and outcome.",
		}, []string{recipientLabel, outcomeLabel}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Number of HTTP requests partitioned by status code, method and route.",
		}, []string{"code", "method", "path"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_milliseconds",
			Help:      "Time spent on the request partitioned by status code, method and route.",
			Buckets:   latencyBuckets,
		}, []string{"code", "method", "path"}),
	}
	m.registry.MustRegister(m.quotes, m.notifications, m.requests, m.latency)
	return m
}

func (m *Metrics) QuoteComputed(kind, class string) {
	m.quotes.With(prometheus.Labels{kindLabel: kind, classLabel: class}).Inc()
}

func (m *Metrics) NotificationAttempted(recipient, outcome string) {
	m.notifications.With(prometheus.Labels{recipientLabel: recipient, outcomeLabel: outcome}).Inc()
}

// Middleware records every request under its route pattern. Unmatched routes
// are grouped under "unmatched" to keep the label set bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		code := strconv.Itoa(c.Writer.Status())
		m.requests.WithLabelValues(code, c.Request.Method, path).Inc()
		m.latency.WithLabelValues(code, c.Request.Method, path).Observe(float64(time.Since(start).Milliseconds()))
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
