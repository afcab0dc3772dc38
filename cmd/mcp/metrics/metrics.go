// Copyright 2026 Stefan Prodan.
// SPDX-License-Identifier: AGPL-3.0

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "grounddocs_mcp"

// Recorder holds the Prometheus collectors of the MCP server.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry         *prometheus.Registry
	dispatches       *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	resolutions      *prometheus.CounterVec
	probeFailures    *prometheus.CounterVec
}

// NewRecorder creates a Recorder with its own registry,
// including the Go runtime and process collectors.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Total number of documentation requests sent to the backend.",
		}, []string{"endpoint", "outcome"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of documentation requests sent to the backend.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"endpoint"}),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "version_resolutions_total",
			Help:      "Total number of library version lookups by the source that answered.",
		}, []string{"source"}),
		probeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fingerprint_probe_failures_total",
			Help:      "Total number of failed environment fingerprint probes.",
		}, []string{"probe"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.dispatches,
		r.dispatchDuration,
		r.resolutions,
		r.probeFailures,
	)
	return r
}

// Registry returns the registry holding the collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns the HTTP handler serving the metrics.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// ObserveDispatch records a backend request and its outcome.
func (r *Recorder) ObserveDispatch(endpoint, outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.dispatches.WithLabelValues(endpoint, outcome).Inc()
	r.dispatchDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordResolution records which source answered a version lookup.
func (r *Recorder) RecordResolution(source string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(source).Inc()
}

// RecordProbeFailure records a failed fingerprint probe.
func (r *Recorder) RecordProbeFailure(probe string) {
	if r == nil {
		return
	}
	r.probeFailures.WithLabelValues(probe).Inc()
}
