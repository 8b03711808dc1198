// Package metrics records Prometheus metrics for survey service calls.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the HTTP adapter and the store report to.
// A nil Recorder is valid and records nothing.
type Recorder struct {
	registry           *prometheus.Registry
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	generationsTotal   *prometheus.CounterVec
	generationDuration prometheus.Histogram
}

// NewRecorder creates a Recorder backed by its own registry, so several
// clients in one process never collide on registration.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surveygen_requests_total",
				Help: "Total number of survey service requests by method, path and outcome",
			},
			[]string{"method", "path", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "surveygen_request_duration_seconds",
				Help:    "Duration of survey service requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
			},
			[]string{"method", "path"},
		),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "surveygen_generations_total",
				Help: "Total number of survey generations by outcome",
			},
			[]string{"outcome"},
		),
		generationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "surveygen_generation_duration_seconds",
				Help:    "End-to-end duration of survey generations in seconds",
				Buckets: []float64{1, 5, 10, 20, 30, 45, 60, 90},
			},
		),
	}

	r.registry.MustRegister(r.requestsTotal, r.requestDuration, r.generationsTotal, r.generationDuration)
	return r
}

// ObserveRequest records one HTTP round trip. outcome is "ok" or an error type label.
func (r *Recorder) ObserveRequest(method, path, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(method, path, outcome).Inc()
	r.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveGeneration records one store-level generation.
func (r *Recorder) ObserveGeneration(outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.generationsTotal.WithLabelValues(outcome).Inc()
	r.generationDuration.Observe(duration.Seconds())
}

// Registry exposes the underlying registry for tests and custom exporters.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the recorded metrics to path in the text exposition
// format, for pickup by the node_exporter textfile collector. The write is
// atomic.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
