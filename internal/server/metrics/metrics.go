// Package metrics collects Prometheus metrics for the HTTP API and exposes
// them for scraping.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder is what the REST layer reports to.
type Recorder interface {
	RecordRequest(route, method string, status int, duration time.Duration)
	RecordAuth(op, outcome string)
	RecordUpload(mode, outcome string, bytes int)
}

type Collector struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	authEvents    *prometheus.CounterVec
	uploads       *prometheus.CounterVec
	uploadedBytes prometheus.Counter
}

// NewCollector creates the metrics and registers them with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csvdrop_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status_code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "csvdrop_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csvdrop_auth_events_total",
			Help: "Auth operations by kind and outcome.",
		}, []string{"op", "outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csvdrop_uploads_total",
			Help: "Upload gateway calls by mode and outcome.",
		}, []string{"mode", "outcome"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "csvdrop_uploaded_bytes_total",
			Help: "Bytes written to object storage through inline uploads.",
		}),
	}

	reg.MustRegister(c.requests, c.latency, c.authEvents, c.uploads, c.uploadedBytes)

	return c
}

func (c *Collector) RecordRequest(route, method string, status int, duration time.Duration) {
	c.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordAuth(op, outcome string) {
	c.authEvents.WithLabelValues(op, outcome).Inc()
}

func (c *Collector) RecordUpload(mode, outcome string, bytes int) {
	c.uploads.WithLabelValues(mode, outcome).Inc()
	if bytes > 0 {
		c.uploadedBytes.Add(float64(bytes))
	}
}

// Handler returns the scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordRequest(string, string, int, time.Duration) {}
func (Nop) RecordAuth(string, string)                        {}
func (Nop) RecordUpload(string, string, int)                 {}
