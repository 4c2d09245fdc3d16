// Package metrics exposes Prometheus collectors for the gateway and the
// aggregation pipeline. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "topic_pulse"

// Outcome labels.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeEmpty   = "empty"
	OutcomeTimeout = "timeout"
)

// Metrics groups all collectors registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	gatewayRequests *prometheus.CounterVec
	authFallbacks   prometheus.Counter
	upstreamLatency *prometheus.HistogramVec
	sourceFetches   *prometheus.CounterVec
	detailFetches   *prometheus.CounterVec
	synthesis       *prometheus.CounterVec
	runDuration     prometheus.Histogram
	runItems        prometheus.Histogram
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		gatewayRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Proxy gateway requests by mode, access strategy and status code.",
		}, []string{"mode", "access", "status"}),
		authFallbacks: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "auth_fallbacks_total",
			Help:      "Token exchanges that failed and fell back to anonymous access.",
		}),
		upstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "upstream_seconds",
			Help:      "Upstream call latency by mode.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"mode"}),
		sourceFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "source_fetches_total",
			Help:      "Per-source list fetch outcomes.",
		}, []string{"outcome"}),
		detailFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "detail_fetches_total",
			Help:      "Per-item reply fetch outcomes.",
		}, []string{"outcome"}),
		synthesis: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "synthesis",
			Name:      "requests_total",
			Help:      "Report synthesis outcomes.",
		}, []string{"outcome"}),
		runDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_seconds",
			Help:      "End-to-end aggregation run duration.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		runItems: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "run_items",
			Help:      "Number of items in each merged document.",
			Buckets:   prometheus.LinearBuckets(0, 5, 7),
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) GatewayRequest(mode, access string, status int) {
	if m == nil {
		return
	}
	m.gatewayRequests.WithLabelValues(mode, access, strconv.Itoa(status)).Inc()
}

func (m *Metrics) AuthFallback() {
	if m == nil {
		return
	}
	m.authFallbacks.Inc()
}

func (m *Metrics) UpstreamLatency(mode string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(mode).Observe(d.Seconds())
}

func (m *Metrics) SourceFetch(outcome string) {
	if m == nil {
		return
	}
	m.sourceFetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) DetailFetch(outcome string) {
	if m == nil {
		return
	}
	m.detailFetches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Synthesis(outcome string) {
	if m == nil {
		return
	}
	m.synthesis.WithLabelValues(outcome).Inc()
}

// Run records one completed aggregation run.
func (m *Metrics) Run(d time.Duration, items int) {
	if m == nil {
		return
	}
	m.runDuration.Observe(d.Seconds())
	m.runItems.Observe(float64(items))
}
