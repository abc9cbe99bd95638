// Package metrics exposes Prometheus counters for the relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records relay activity on its own registry.
type Collector struct {
	registry         *prometheus.Registry
	upstreamRequests *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	wordsRelayed     prometheus.Counter
	setupRequired    *prometheus.CounterVec
}

// NewCollector creates a Collector with Go and process collectors registered.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Collector{
		registry: reg,
		upstreamRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexicon_upstream_requests_total",
				Help: "Notion API calls by operation and response status code",
			},
			[]string{"operation", "status"},
		),
		upstreamFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexicon_upstream_failures_total",
				Help: "Notion API calls that failed before a response was received",
			},
			[]string{"operation"},
		),
		upstreamLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lexicon_upstream_duration_seconds",
				Help:    "Notion API call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"operation"},
		),
		wordsRelayed: f.NewCounter(
			prometheus.CounterOpts{
				Name: "lexicon_vocabulary_words_total",
				Help: "Vocabulary records relayed to the browser",
			},
		),
		setupRequired: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lexicon_setup_required_total",
				Help: "Requests answered with setup required because no API key is configured",
			},
			[]string{"endpoint"},
		),
	}
}

// RecordUpstream records a completed upstream call.
func (c *Collector) RecordUpstream(operation string, status int, d time.Duration) {
	c.upstreamRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	c.upstreamLatency.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordUpstreamFailure records a call that produced no response.
func (c *Collector) RecordUpstreamFailure(operation string, d time.Duration) {
	c.upstreamFailures.WithLabelValues(operation).Inc()
	c.upstreamLatency.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordWords adds n relayed vocabulary records.
func (c *Collector) RecordWords(n int) {
	c.wordsRelayed.Add(float64(n))
}

// RecordSetupRequired counts a setup-required answer on endpoint.
func (c *Collector) RecordSetupRequired(endpoint string) {
	c.setupRequired.WithLabelValues(endpoint).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
