// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides metrics and instrumentation for the assistant.
//
// # Description
//
// This package implements Prometheus metrics for monitoring the
// self-correction loop. Metrics include:
//   - Session counters by terminal outcome
//   - Round count histograms (how often the critic pushes back)
//   - Backend error counters by loop stage
//   - Audit log write failures
//
// # Integration
//
// Metrics are exposed via the /metrics endpoint. Use with Prometheus +
// Grafana for dashboards and alerting.
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Metric Definitions
// =============================================================================

// Namespace for all metrics
const metricsNamespace = "assistant"

// Subsystem for self-correction loop metrics
const loopSubsystem = "loop"

// LoopMetrics holds all Prometheus metrics for self-correction loop operations.
//
// # Description
//
// Provides counters and histograms for monitoring loop behavior and backend
// health. Initialize once at startup via InitMetrics(). All helper methods
// are nil-safe so services can run without metrics in tests.
//
// # Fields
//
//   - SessionsTotal: Counter of completed sessions by terminal outcome
//   - Rounds: Histogram of writer/critic rounds per session
//   - BackendErrorsTotal: Counter of LLM backend errors by loop stage
//   - AuditFailuresTotal: Counter of audit log write failures
//
// # Thread Safety
//
// All operations are thread-safe.
type LoopMetrics struct {
	// SessionsTotal counts completed sessions by terminal outcome.
	// Labels: outcome (approved, exhausted, generator_failed, verifier_unparsable)
	SessionsTotal *prometheus.CounterVec

	// Rounds measures how many writer/critic rounds a session consumed.
	Rounds prometheus.Histogram

	// BackendErrorsTotal counts LLM backend failures by loop stage.
	// Labels: stage (writer, critic)
	BackendErrorsTotal *prometheus.CounterVec

	// AuditFailuresTotal counts failed session audit writes. Audit writes
	// are best-effort; this counter is the only place the loss is visible.
	AuditFailuresTotal prometheus.Counter
}

// DefaultMetrics is the singleton instance of LoopMetrics.
// Initialized by InitMetrics().
var DefaultMetrics *LoopMetrics

// InitMetrics initializes the default metrics instance.
//
// # Description
//
// Creates and registers all Prometheus metrics. Should be called once
// at application startup, after the Prometheus registry is available.
//
// # Outputs
//
//   - *LoopMetrics: The initialized metrics instance.
//
// # Limitations
//
//   - Panics if called twice (duplicate registration).
func InitMetrics() *LoopMetrics {
	DefaultMetrics = &LoopMetrics{
		SessionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: loopSubsystem,
				Name:      "sessions_total",
				Help:      "Total completed sessions by terminal outcome",
			},
			[]string{"outcome"},
		),

		Rounds: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: loopSubsystem,
				Name:      "rounds",
				Help:      "Writer/critic rounds consumed per session",
				Buckets:   []float64{1, 2, 3},
			},
		),

		BackendErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: loopSubsystem,
				Name:      "backend_errors_total",
				Help:      "LLM backend errors by loop stage",
			},
			[]string{"stage"},
		),

		AuditFailuresTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: loopSubsystem,
				Name:      "audit_failures_total",
				Help:      "Failed session audit log writes",
			},
		),
	}

	return DefaultMetrics
}

// =============================================================================
// Loop Stages
// =============================================================================

// Stage identifies which half of a round an LLM call belongs to.
type Stage string

const (
	// StageWriter is the answer generation step.
	StageWriter Stage = "writer"

	// StageCritic is the verification step.
	StageCritic Stage = "critic"
)

// =============================================================================
// Helper Methods
// =============================================================================

// RecordSession records a completed session and its round count.
//
// # Inputs
//
//   - outcome: The terminal outcome label for the session.
//   - rounds: Number of writer/critic rounds consumed.
func (m *LoopMetrics) RecordSession(outcome string, rounds int) {
	if m == nil {
		return
	}
	m.SessionsTotal.WithLabelValues(outcome).Inc()
	m.Rounds.Observe(float64(rounds))
}

// RecordBackendError records an LLM backend failure.
//
// # Inputs
//
//   - stage: The loop stage where the failure occurred.
func (m *LoopMetrics) RecordBackendError(stage Stage) {
	if m == nil {
		return
	}
	m.BackendErrorsTotal.WithLabelValues(string(stage)).Inc()
}

// RecordAuditFailure records a failed session audit write.
func (m *LoopMetrics) RecordAuditFailure() {
	if m == nil {
		return
	}
	m.AuditFailuresTotal.Inc()
}
