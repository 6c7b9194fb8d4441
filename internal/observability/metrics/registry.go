// Package metrics provides centralized Prometheus metrics for the briefing
// agent.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Briefing pipeline metrics.
var (
	// BriefingRunsTotal counts completed briefing runs by outcome.
	// outcome: delivered, degraded, error_notice
	BriefingRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "briefing_runs_total",
			Help: "Total number of briefing runs by outcome",
		},
		[]string{"outcome"},
	)

	// BriefingRunDuration measures end-to-end briefing run duration.
	BriefingRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "briefing_run_duration_seconds",
			Help:    "End-to-end briefing run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// NewsItemsFetchedTotal counts headlines fetched per news source.
	NewsItemsFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_items_fetched_total",
			Help: "Total number of news items fetched per source",
		},
		[]string{"source"},
	)

	// SourceFetchErrorsTotal counts isolated per-source fetch failures.
	SourceFetchErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "source_fetch_errors_total",
			Help: "Total number of fetch failures per aggregation source",
		},
		[]string{"source"},
	)

	// DigestFallbacksTotal counts fallback syntheses by reason.
	// reason: no_model, generate_failed, empty_response
	DigestFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "digest_fallbacks_total",
			Help: "Total number of fallback digest syntheses by reason",
		},
		[]string{"reason"},
	)

	// GenerationDuration measures a single generation backend call.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "generation_duration_seconds",
			Help:    "Time taken by one generation backend call",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		},
	)

	// DeliveriesTotal counts outbound delivery attempts by status.
	// status: success, failure
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deliveries_total",
			Help: "Total number of outbound delivery attempts",
		},
		[]string{"status"},
	)

	// DependencyHealth reports the latest probe verdict per dependency
	// (1 healthy, 0 unhealthy).
	DependencyHealth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dependency_health",
			Help: "Latest health probe verdict per dependency (1 healthy, 0 unhealthy)",
		},
		[]string{"dependency"},
	)

	// ModelReselectionsTotal counts model reselection passes by result.
	// result: selected, exhausted
	ModelReselectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_reselections_total",
			Help: "Total number of model reselection passes by result",
		},
		[]string{"result"},
	)
)

// RecordRun records one completed run with its outcome and duration.
func RecordRun(outcome string, duration time.Duration) {
	BriefingRunsTotal.WithLabelValues(outcome).Inc()
	BriefingRunDuration.Observe(duration.Seconds())
}

// RecordSourceFetch records the result of one news source fetch.
func RecordSourceFetch(source string, items int, err error) {
	if err != nil {
		SourceFetchErrorsTotal.WithLabelValues(source).Inc()
		return
	}
	NewsItemsFetchedTotal.WithLabelValues(source).Add(float64(items))
}

// RecordFallback records a fallback synthesis with its trigger reason.
func RecordFallback(reason string) {
	DigestFallbacksTotal.WithLabelValues(reason).Inc()
}

// RecordDelivery records one delivery attempt.
func RecordDelivery(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	DeliveriesTotal.WithLabelValues(status).Inc()
}

// RecordHealth records the latest probe verdict for a dependency.
func RecordHealth(dependency string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1.0
	}
	DependencyHealth.WithLabelValues(dependency).Set(v)
}
