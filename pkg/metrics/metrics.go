// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// GenerationDuration tracks text model round trips.
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slides_generation_duration_seconds",
			Help:    "Slide generation duration",
			Buckets: []float64{.5, 1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"provider", "status"},
	)

	// GenerationsTotal tracks generation outcomes.
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slides_generations_total",
			Help: "Total slide generation requests by outcome",
		},
		[]string{"provider", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// SlidesGenerated tracks the number of slides returned by the model.
	SlidesGenerated = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "slides_per_deck",
			Help:    "Number of slides per generated deck",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		},
	)

	// HistoryWritesTotal tracks history upserts.
	HistoryWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_writes_total",
			Help: "Total history writes",
		},
		[]string{"backend", "operation", "status"},
	)

	// ExportsTotal tracks rendered presentation files.
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "deck_exports_total",
			Help: "Total presentation files rendered",
		},
		[]string{"status"},
	)

	// UploadBytes tracks uploaded artifact sizes.
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "upload_bytes",
			Help:    "Size of uploaded presentation files",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		},
	)

	// EventsPublishedTotal tracks NATS history events.
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_events_published_total",
			Help: "History events published to JetStream",
		},
		[]string{"type", "status"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordGeneration records metrics for one generation call.
func RecordGeneration(provider, status string, duration float64) {
	GenerationDuration.WithLabelValues(provider, status).Observe(duration)
	GenerationsTotal.WithLabelValues(provider, status).Inc()
}

// RecordTokens records model token usage.
func RecordTokens(model string, tokensIn, tokensOut int) {
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordHistoryWrite records a history upsert.
func RecordHistoryWrite(backend, operation, status string) {
	HistoryWritesTotal.WithLabelValues(backend, operation, status).Inc()
}
