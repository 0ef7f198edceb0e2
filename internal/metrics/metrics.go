// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream and document outcomes
const (
	OutcomeSuccess    = "success"
	OutcomeError      = "error"
	OutcomeUpstream   = "upstream_error"
	OutcomeUnreadable = "unreadable"
	OutcomeTooLarge   = "too_large"
)

// Recorder is used by the services to report domain events
type Recorder interface {
	RecordUpstream(provider, outcome string, latency time.Duration)
	RecordDocument(outcome string)
}

// Collector is the Prometheus implementation of Recorder
type Collector struct {
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	documents        *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptdesk_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "promptdesk_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptdesk_upstream_requests_total",
			Help: "Upstream completion calls by provider and outcome",
		}, []string{"provider", "outcome"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "promptdesk_upstream_latency_seconds",
			Help:    "Upstream completion latency",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"provider"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "promptdesk_documents_extracted_total",
			Help: "Document extractions by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.upstreamRequests,
		c.upstreamLatency,
		c.documents,
	)

	return c
}

// RecordUpstream records one upstream completion call
func (c *Collector) RecordUpstream(provider, outcome string, latency time.Duration) {
	c.upstreamRequests.WithLabelValues(provider, outcome).Inc()
	c.upstreamLatency.WithLabelValues(provider).Observe(latency.Seconds())
}

// RecordDocument records one extraction attempt
func (c *Collector) RecordDocument(outcome string) {
	c.documents.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and durations labelled with the
// matched chi route pattern, keeping label cardinality bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the scrape handler for gatherer
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordUpstream(string, string, time.Duration) {}
func (Nop) RecordDocument(string)                        {}
