// Package observability exposes Prometheus metrics for provider calls and
// background ingestion.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_provider_calls_total",
		Help: "LLM provider calls by provider, operation and outcome.",
	}, []string{"provider", "operation", "outcome"})

	fallbackActivations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_fallback_activations_total",
		Help: "Times the secondary provider was tried after a primary provider error.",
	}, []string{"operation"})

	ingestJobs = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resume_ingest_jobs_total",
		Help: "Resume ingestion pipeline runs by mode and outcome.",
	}, []string{"mode", "outcome"})
)

// ProviderCall records one provider call outcome ("ok" or "error").
func ProviderCall(provider, operation, outcome string) {
	providerCalls.WithLabelValues(provider, operation, outcome).Inc()
}

// FallbackActivated records that the secondary provider was invoked.
func FallbackActivated(operation string) {
	fallbackActivations.WithLabelValues(operation).Inc()
}

// IngestJob records one ingestion run; mode is "queued" or "sync".
func IngestJob(mode, outcome string) {
	ingestJobs.WithLabelValues(mode, outcome).Inc()
}
