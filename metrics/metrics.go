// ABOUTME: Prometheus metrics for the catalog integration layer
// ABOUTME: Counts upstream fetches, fallbacks, and logins; records fetch latency

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the interface the catalog pipeline records through.
type Recorder interface {
	FetchSucceeded(feed string)
	FetchFailed(feed string, reason string)
	FallbackServed(feed string)
	FetchLatency(feed string, d time.Duration)
	LoginAttempt(success bool)
}

// Collector implements Recorder on a Prometheus registry.
type Collector struct {
	fetchSuccess *prometheus.CounterVec
	fetchFail    *prometheus.CounterVec
	fallback     *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	logins       *prometheus.CounterVec
	registry     *prometheus.Registry
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		fetchSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_fetch_success_total",
			Help: "Successful upstream catalog fetches per feed",
		}, []string{"feed"}),
		fetchFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_fetch_fail_total",
			Help: "Failed upstream catalog fetches per feed and reason",
		}, []string{"feed", "reason"}),
		fallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "catalog_fallback_total",
			Help: "Synthetic fallback responses served per feed",
		}, []string{"feed"}),
		fetchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "catalog_fetch_latency_seconds",
			Help:    "Upstream fetch latency per feed",
			Buckets: prometheus.DefBuckets,
		}, []string{"feed"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "backoffice_login_total",
			Help: "Back-office login attempts by outcome",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.fetchSuccess, c.fetchFail, c.fallback, c.fetchLatency, c.logins)
	return c
}

func (c *Collector) FetchSucceeded(feed string) {
	c.fetchSuccess.WithLabelValues(feed).Inc()
}

func (c *Collector) FetchFailed(feed string, reason string) {
	c.fetchFail.WithLabelValues(feed, reason).Inc()
}

func (c *Collector) FallbackServed(feed string) {
	c.fallback.WithLabelValues(feed).Inc()
}

func (c *Collector) FetchLatency(feed string, d time.Duration) {
	c.fetchLatency.WithLabelValues(feed).Observe(d.Seconds())
}

func (c *Collector) LoginAttempt(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	c.logins.WithLabelValues(outcome).Inc()
}

// Handler serves the collector's registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything; used in tests.
type Nop struct{}

func (Nop) FetchSucceeded(string)              {}
func (Nop) FetchFailed(string, string)         {}
func (Nop) FallbackServed(string)              {}
func (Nop) FetchLatency(string, time.Duration) {}
func (Nop) LoginAttempt(bool)                  {}
