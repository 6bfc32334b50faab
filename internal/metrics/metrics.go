// Package metrics exports fetch attempt counters in the Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tinytelemetry/retrylist/internal/model"
)

const namespace = "retrylist"

// AttemptMetrics holds the instruments fed by finished fetch attempts.
// A nil *AttemptMetrics is a valid no-op recorder.
type AttemptMetrics struct {
	registry *prometheus.Registry

	attempts   *prometheus.CounterVec
	superseded *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	items      prometheus.Gauge
}

// New registers the instruments on a private registry together with the Go
// runtime and process collectors.
func New() *AttemptMetrics {
	reg := prometheus.NewRegistry()
	m := &AttemptMetrics{
		registry: reg,
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "Applied fetch attempts by trigger and outcome.",
		}, []string{"trigger", "outcome"}),
		superseded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_superseded_total",
			Help:      "Fetch attempts discarded because a newer trigger won.",
		}, []string{"trigger"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time from trigger to delivered result.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 1.5, 2, 5},
		}, []string{"trigger"}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "list_items",
			Help:      "Items in the most recent ready outcome.",
		}),
	}
	reg.MustRegister(
		m.attempts,
		m.superseded,
		m.duration,
		m.items,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordAttempt implements model.AttemptRecorder. It never fails.
func (m *AttemptMetrics) RecordAttempt(a model.Attempt) error {
	if m == nil {
		return nil
	}
	trigger := a.Trigger.String()
	if a.Superseded {
		m.superseded.WithLabelValues(trigger).Inc()
		return nil
	}
	m.attempts.WithLabelValues(trigger, a.Outcome.String()).Inc()
	m.duration.WithLabelValues(trigger).Observe(a.Duration().Seconds())
	if a.Outcome == model.OutcomeReady && a.ItemCount > 0 {
		m.items.Set(float64(a.ItemCount))
	}
	return nil
}

// Handler serves the registry in the text exposition format.
func (m *AttemptMetrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and embedding.
func (m *AttemptMetrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
