// Package metrics exposes the service's Prometheus collectors. All methods
// are safe on a nil *Metrics so callers never need to check.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "killtest"

// Enrichment outcomes
const (
	OutcomeEnriched    = "enriched"
	OutcomeUnavailable = "unavailable"
	OutcomeStale       = "stale"
)

// Upstream call results
const (
	UpstreamOK          = "ok"
	UpstreamDisabled    = "disabled"
	UpstreamError       = "error"
	UpstreamEmpty       = "empty"
	UpstreamUnparseable = "unparseable"
)

type Metrics struct {
	registry *prometheus.Registry

	verdicts          *prometheus.CounterVec
	enrichment        *prometheus.CounterVec
	enrichmentLatency prometheus.Histogram
	upstream          *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New registers every collector on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Verdicts produced, by verdict and stage (offline or final).",
		}, []string{"verdict", "stage"}),
		enrichment: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_total",
			Help:      "Enrichment attempts by outcome.",
		}, []string{"outcome"}),
		enrichmentLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "enrichment_duration_seconds",
			Help:      "Time from submission to enrichment resolution.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16},
		}),
		upstream: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_calls_total",
			Help:      "Upstream LLM calls made by the analyze endpoint, by result.",
		}, []string{"result"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_transitions_total",
			Help:      "Session state transitions by target state.",
		}, []string{"state"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route template, method and status.",
		}, []string{"route", "method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route template.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
	m.registry.MustRegister(
		m.verdicts, m.enrichment, m.enrichmentLatency, m.upstream,
		m.transitions, m.httpRequests, m.httpDuration,
	)
	return m
}

// Registry is exposed for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Verdict(verdict, stage string) {
	if m == nil {
		return
	}
	m.verdicts.WithLabelValues(verdict, stage).Inc()
}

func (m *Metrics) Enrichment(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.enrichment.WithLabelValues(outcome).Inc()
	if outcome != OutcomeStale {
		m.enrichmentLatency.Observe(took.Seconds())
	}
}

func (m *Metrics) Upstream(result string) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(result).Inc()
}

func (m *Metrics) Transition(state string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(state).Inc()
}

func (m *Metrics) HTTPRequest(route, method string, code int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(took.Seconds())
}
