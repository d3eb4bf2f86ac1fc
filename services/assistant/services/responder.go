// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package services

import (
	"context"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/store"
)

// Responder defines the contract for answering customer questions.
//
// # Description
//
// This interface abstracts the answering capability so the HTTP layer does
// not care whether a real model backend is wired in. Two implementations
// exist: SelfCorrectionService (the full writer/critic loop) and
// UnconfiguredResponder (a fixed "not configured" reply used when no
// backend is available). The implementation is selected once at process
// start by configuration.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Responder interface {
	// ProcessRequest answers a question and returns the finalized session.
	// Never returns an error: every failure mode is encoded as a terminal
	// outcome on the session itself.
	ProcessRequest(ctx context.Context, question string) *datatypes.Session

	// GetHistory returns all persisted sessions, newest first.
	GetHistory(ctx context.Context) ([]datatypes.Session, error)
}

// Compile-time interface implementation check.
var _ Responder = (*UnconfiguredResponder)(nil)

// unconfiguredAnswer is the fixed reply returned when no model backend is
// configured. It is honest rather than helpful on purpose.
const unconfiguredAnswer = "The assistant has no language model backend configured. " +
	"Set LLM_BACKEND_TYPE and the matching backend settings, then restart the service."

// UnconfiguredResponder is the no-op fallback Responder.
//
// Every question yields a complete, finalized session carrying the fixed
// "not configured" answer, so callers see the same response shape whether
// or not a backend exists. Sessions are still persisted: an operator
// paging through history can see traffic arrived while the service was
// misconfigured.
type UnconfiguredResponder struct {
	sessions *store.SessionStore
}

// NewUnconfiguredResponder creates the fallback responder. The session
// store may be nil; history is then always empty and nothing is persisted.
func NewUnconfiguredResponder(sessions *store.SessionStore) *UnconfiguredResponder {
	return &UnconfiguredResponder{sessions: sessions}
}

// ProcessRequest returns a finalized session with the fixed answer.
func (r *UnconfiguredResponder) ProcessRequest(ctx context.Context, question string) *datatypes.Session {
	session := datatypes.NewSession(question)
	session.AppendLog(datatypes.RoleSystem, unconfiguredAnswer)
	session.Finalize(unconfiguredAnswer, datatypes.OutcomeUnconfigured, 1)

	if r.sessions != nil {
		// Best-effort, same as the real loop.
		_ = r.sessions.Append(ctx, session)
	}
	return session
}

// GetHistory returns all persisted sessions, newest first.
func (r *UnconfiguredResponder) GetHistory(ctx context.Context) ([]datatypes.Session, error) {
	if r.sessions == nil {
		return nil, nil
	}
	return r.sessions.List(ctx)
}
