// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starmaps_api_request_duration_seconds",
			Help:    "API request latency in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "starmaps_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	// Generative service metrics
	LLMRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_llm_requests_total",
			Help: "Outbound generative service calls by operation and outcome",
		},
		[]string{"operation", "outcome"}, // outcome: success, error, rejected
	)

	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "starmaps_llm_request_duration_seconds",
			Help:    "Latency of outbound generative service calls",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 45, 60},
		},
		[]string{"operation"},
	)

	// Recommendation pipeline
	SynthesisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_synthesis_total",
			Help: "Graph synthesis results by source (live, fallback) and degradation reason",
		},
		[]string{"source", "reason"},
	)

	ValidationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_query_validation_total",
			Help: "Query validation verdicts by path (llm, cache, heuristic) and result",
		},
		[]string{"path", "valid"},
	)

	GraphLinksDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "starmaps_graph_links_dropped_total",
			Help: "Links discarded because an endpoint was not a node of the graph",
		},
	)

	// Sessions
	SessionsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_sessions_issued_total",
			Help: "Sessions minted by login method",
		},
		[]string{"method"}, // external, demo, magic_link
	)

	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_auth_failures_total",
			Help: "Rejected login attempts by reason",
		},
		[]string{"reason"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "starmaps_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Store maintenance
	StoreGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "starmaps_store_gc_runs_total",
			Help: "Value log garbage collection runs by result",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest records a served request.
func RecordAPIRequest(method, endpoint, status string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest moves the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLLMRequest records an outbound generative call.
func RecordLLMRequest(operation, outcome string, duration time.Duration) {
	LLMRequestsTotal.WithLabelValues(operation, outcome).Inc()
	LLMRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSynthesis records where a graph came from.
func RecordSynthesis(source, reason string) {
	SynthesisTotal.WithLabelValues(source, reason).Inc()
}

// RecordValidation records a validation verdict.
func RecordValidation(path string, valid bool) {
	v := "false"
	if valid {
		v = "true"
	}
	ValidationTotal.WithLabelValues(path, v).Inc()
}
