// Package metrics holds the Prometheus collectors of the orderflow service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "orderflow"

// Run outcomes.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidConfig = "invalid_config"
	OutcomeCancelled     = "cancelled"
	OutcomeSuperseded    = "superseded"
)

var (
	pipelineRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Total pipeline runs by outcome",
		},
		[]string{"outcome"},
	)

	pipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of pipeline runs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		},
	)

	feedLines = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_lines_total",
			Help:      "Feed lines seen by the tick normalizer by result",
		},
		[]string{"result"},
	)

	barsEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bars_emitted_total",
			Help:      "Total bars produced",
		},
	)

	bubblesEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bubbles_emitted_total",
			Help:      "Total bubbles produced",
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
		},
		[]string{"method", "path"},
	)
)

// ObserveRun records one finished run.
func ObserveRun(outcome string, elapsed time.Duration) {
	pipelineRuns.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		pipelineDuration.Observe(elapsed.Seconds())
	}
}

// ObserveSuperseded records a run whose result was discarded.
func ObserveSuperseded() {
	pipelineRuns.WithLabelValues(OutcomeSuperseded).Inc()
}

// ObserveLines records the normalizer line counts of one run.
func ObserveLines(accepted, malformed, filtered int) {
	feedLines.WithLabelValues("accepted").Add(float64(accepted))
	feedLines.WithLabelValues("malformed").Add(float64(malformed))
	feedLines.WithLabelValues("filtered").Add(float64(filtered))
}

// ObserveOutput records the number of bars and bubbles of one run.
func ObserveOutput(bars, bubbles int) {
	barsEmitted.Add(float64(bars))
	bubblesEmitted.Add(float64(bubbles))
}

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
