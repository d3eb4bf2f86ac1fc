// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package services

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/observability"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/store"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/llm"
)

// selfCorrectTracer is the OpenTelemetry tracer for SelfCorrectionService operations.
var selfCorrectTracer = otel.Tracer("assistant.services.self_correct")

// Compile-time interface implementation check.
var _ Responder = (*SelfCorrectionService)(nil)

// maxRounds is the writer/critic retry budget. The loop never runs more
// rounds than this under any input.
const maxRounds = 3

// criticTemperature pins the critic to near-deterministic sampling so the
// same draft gets the same verdict as often as the backend allows.
var criticTemperature float32 = 0.0

// =============================================================================
// SelfCorrectionService
// =============================================================================

// SelfCorrectionService answers catalog questions through a bounded
// writer/critic loop. It orchestrates the flow between:
//   - Catalog store: supplies the fact sheet every prompt is grounded on
//   - LLM client: generates candidate answers and verdicts
//   - Session store: persists the finished session and its round log
//
// The service is stateless across requests. Each request builds a fresh
// fact sheet, runs at most maxRounds writer/critic rounds, and produces
// exactly one terminal outcome. Concurrent requests are fully independent.
//
// Usage:
//
//	service := NewSelfCorrectionService(llmClient, catalog, sessions, metrics)
//	session := service.ProcessRequest(ctx, "How much is the dog food?")
type SelfCorrectionService struct {
	llmClient llm.LLMClient
	catalog   *store.CatalogStore
	sessions  *store.SessionStore
	metrics   *observability.LoopMetrics
}

// NewSelfCorrectionService creates a new SelfCorrectionService with the
// provided dependencies.
//
// # Inputs
//
//   - llmClient: Client for LLM chat completions. The concrete backend
//     (Ollama, OpenAI) is determined by configuration. Must not be nil.
//   - catalog: Read-only catalog access for fact sheet construction.
//     Must not be nil.
//   - sessions: Append-only audit persistence for finished sessions.
//     Must not be nil.
//   - metrics: Loop metrics. May be nil; all recording is skipped then.
//
// # Outputs
//
//   - *SelfCorrectionService: ready for concurrent use.
func NewSelfCorrectionService(
	llmClient llm.LLMClient,
	catalog *store.CatalogStore,
	sessions *store.SessionStore,
	metrics *observability.LoopMetrics,
) *SelfCorrectionService {
	return &SelfCorrectionService{
		llmClient: llmClient,
		catalog:   catalog,
		sessions:  sessions,
		metrics:   metrics,
	}
}

// =============================================================================
// Core Processing Methods
// =============================================================================

// ProcessRequest answers a customer question through the self-correction loop.
//
// # Description
//
// The processing flow per round is:
//  1. Writer: generate a candidate answer from the question, the fact
//     sheet, and the previous round's rejection feedback (if any).
//  2. Critic: judge the candidate against the fact sheet, returning a
//     JSON verdict recovered by ExtractJSONObject.
//
// Termination:
//   - Critic approves: outcome "approved", candidate becomes the answer.
//   - Critic rejects three times: outcome "exhausted", the last candidate
//     is released anyway (a best-effort answer beats no answer).
//   - Writer backend call fails: outcome "generator_failed", the answer
//     is a diagnostic message; no critic round runs. Backend calls are
//     never retried; a single failure is terminal for the session.
//   - Critic output cannot be parsed, or the critic backend call fails:
//     outcome "verifier_unparsable", the current candidate is accepted
//     as-is. Grounding is best-effort, not a hard gate.
//
// # Inputs
//
//   - ctx: Context for cancellation, timeouts, and tracing. Callers should
//     bound it; each round makes two blocking backend calls.
//   - question: The raw customer question.
//
// # Outputs
//
//   - *datatypes.Session: always non-nil and finalized, with the full
//     round-by-round log. This method never returns an error: every
//     internal failure is converted into a terminal outcome on the
//     session. Audit persistence failures are logged and counted but do
//     not alter the session handed back to the caller.
func (s *SelfCorrectionService) ProcessRequest(ctx context.Context, question string) *datatypes.Session {
	ctx, span := selfCorrectTracer.Start(ctx, "SelfCorrectionService.ProcessRequest")
	defer span.End()

	session := datatypes.NewSession(question)
	span.SetAttributes(attribute.String("session.id", session.ID))

	factSheet, err := s.buildFactSheet(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "catalog unavailable")
		diag := fmt.Sprintf("I am unable to answer right now: the product catalog is unavailable (%v). Please try again later.", err)
		session.AppendLog(datatypes.RoleSystem, diag)
		session.Finalize(diag, datatypes.OutcomeGeneratorFailed, 1)
		s.finish(ctx, session)
		return session
	}

	var feedback *RoundFeedback
	for round := 1; round <= maxRounds; round++ {
		answer, err := s.writerRound(ctx, factSheet, session.Question, feedback)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "writer backend failed")
			s.metrics.RecordBackendError(observability.StageWriter)
			diag := fmt.Sprintf("I am unable to answer right now due to a technical problem (%v). Please try again later.", err)
			session.AppendLog(datatypes.RoleSystem, diag)
			session.Finalize(diag, datatypes.OutcomeGeneratorFailed, round)
			break
		}
		session.AppendLog(datatypes.RoleGenerator, answer)

		verdict, err := s.criticRound(ctx, factSheet, session.Question, answer)
		if err != nil {
			// Optimistic acceptance: an unreachable or incoherent critic
			// must not withhold an answer the writer already produced.
			span.RecordError(err)
			s.metrics.RecordBackendError(observability.StageCritic)
			session.AppendLog(datatypes.RoleSystem,
				fmt.Sprintf("verifier round %d failed, accepting current candidate: %v", round, err))
			session.Finalize(answer, datatypes.OutcomeVerifierUnparsable, round)
			break
		}
		session.AppendLog(datatypes.RoleVerifier, verdict.Serialize())

		if verdict.Approved {
			session.Finalize(answer, datatypes.OutcomeApproved, round)
			break
		}
		if round == maxRounds {
			session.AppendLog(datatypes.RoleSystem,
				fmt.Sprintf("retry budget exhausted after %d rounds, releasing last candidate", maxRounds))
			session.Finalize(answer, datatypes.OutcomeExhausted, round)
			break
		}

		slog.Info("Candidate rejected, retrying",
			"sessionId", session.ID,
			"round", round,
			"feedback", verdict.Feedback,
		)
		feedback = &RoundFeedback{PreviousAnswer: answer, Feedback: verdict.Feedback}
	}

	s.finish(ctx, session)
	return session
}

// GetHistory returns all persisted sessions, newest first.
func (s *SelfCorrectionService) GetHistory(ctx context.Context) ([]datatypes.Session, error) {
	ctx, span := selfCorrectTracer.Start(ctx, "SelfCorrectionService.GetHistory")
	defer span.End()

	sessions, err := s.sessions.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "session list failed")
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	span.SetAttributes(attribute.Int("sessions.count", len(sessions)))
	return sessions, nil
}

// =============================================================================
// Private Methods
// =============================================================================

// buildFactSheet reads the catalog and renders it. The storage read is
// scoped to this call; no store resource is held across the model calls
// that follow.
func (s *SelfCorrectionService) buildFactSheet(ctx context.Context) (string, error) {
	items, err := s.catalog.ListItems(ctx)
	if err != nil {
		return "", err
	}
	return BuildFactSheet(items), nil
}

// writerRound runs one generator step and returns the candidate answer.
func (s *SelfCorrectionService) writerRound(ctx context.Context, factSheet, question string, feedback *RoundFeedback) (string, error) {
	ctx, span := selfCorrectTracer.Start(ctx, "SelfCorrectionService.writerRound")
	defer span.End()
	span.SetAttributes(attribute.Bool("round.retry", feedback != nil))

	messages := BuildWriterMessages(factSheet, question, feedback)
	answer, err := s.llmClient.Chat(ctx, messages, llm.GenerationParams{})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failed")
		return "", err
	}
	return answer, nil
}

// criticRound runs one verifier step: a backend call, extraction, and
// verdict parsing. Any failure is returned to the caller, which treats
// it as non-fatal.
func (s *SelfCorrectionService) criticRound(ctx context.Context, factSheet, question, answer string) (*datatypes.Verdict, error) {
	ctx, span := selfCorrectTracer.Start(ctx, "SelfCorrectionService.criticRound")
	defer span.End()

	messages := BuildCriticMessages(factSheet, question, answer)
	raw, err := s.llmClient.Chat(ctx, messages, llm.GenerationParams{Temperature: &criticTemperature})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chat failed")
		return nil, err
	}

	verdict, err := datatypes.ParseVerdict(ExtractJSONObject(raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "verdict unparsable")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("verdict.approved", verdict.Approved))
	return verdict, nil
}

// finish records metrics and persists the session. Persistence is
// best-effort: a write failure is surfaced to operators via log and
// counter but never to the caller, whose answer is already computed.
func (s *SelfCorrectionService) finish(ctx context.Context, session *datatypes.Session) {
	s.metrics.RecordSession(string(session.Outcome), session.IterationCount)
	slog.Info("Session completed",
		"sessionId", session.ID,
		"outcome", session.Outcome,
		"iterations", session.IterationCount,
	)

	if err := s.sessions.Append(ctx, session); err != nil {
		s.metrics.RecordAuditFailure()
		slog.Error("Failed to persist session audit log",
			"sessionId", session.ID,
			"error", err,
		)
	}
}
