// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "b2c_payment"

// Registry holds the application-specific Prometheus collectors.
type Registry struct {
	registry *prometheus.Registry

	httpInFlight prometheus.Gauge
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	paymentsInitiated prometheus.Counter
	paymentsCompleted *prometheus.CounterVec
	mnoDuration       *prometheus.HistogramVec
	queueDepth        prometheus.Gauge
	reconciliations   prometheus.Counter
	reconciledFailed  prometheus.Counter
}

// NewRegistry creates a registry with the HTTP, payment and Go runtime collectors registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method", "path"}),

		paymentsInitiated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "initiated_total",
			Help:      "Total number of payments accepted for processing.",
		}),
		paymentsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "payments",
			Name:      "completed_total",
			Help:      "Total number of payments that reached a terminal status.",
		}, []string{"status"}),
		mnoDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "mno",
			Name:      "request_duration_seconds",
			Help:      "Duration of mobile network operator requests.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 8), // 100ms to ~13s
		}, []string{"outcome"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dispatcher",
			Name:      "queue_depth",
			Help:      "Number of payments waiting for a worker.",
		}),
		reconciliations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "runs_total",
			Help:      "Total number of reconciliation runs.",
		}),
		reconciledFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconciliation",
			Name:      "timed_out_payments_total",
			Help:      "Total number of stuck payments failed by reconciliation.",
		}),
	}

	r.registry.MustRegister(
		r.httpInFlight,
		r.httpRequests,
		r.httpDuration,
		r.paymentsInitiated,
		r.paymentsCompleted,
		r.mnoDuration,
		r.queueDepth,
		r.reconciliations,
		r.reconciledFailed,
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)
	return r
}

// Handler returns an HTTP handler exposing the registered metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Middleware records request count, duration and in-flight requests per matched route.
func (r *Registry) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		r.httpInFlight.Inc()
		defer r.httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := strings.ToUpper(c.Request.Method)

		r.httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		r.httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

func (r *Registry) PaymentInitiated() {
	r.paymentsInitiated.Inc()
}

func (r *Registry) PaymentCompleted(status payments.Status) {
	r.paymentsCompleted.WithLabelValues(string(status)).Inc()
}

func (r *Registry) ObserveMNORequest(outcome string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	r.mnoDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (r *Registry) SetQueueDepth(depth int) {
	r.queueDepth.Set(float64(depth))
}

func (r *Registry) ReconciliationRun(failed int) {
	r.reconciliations.Inc()
	r.reconciledFailed.Add(float64(failed))
}
