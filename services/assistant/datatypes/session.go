// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package datatypes provides data structures for the assistant service.
//
// This file contains the Session aggregate and its audit log entries.
// A Session records one complete user interaction: the question, every
// generator/verifier round executed by the self-correction loop, and the
// answer that was ultimately released.
package datatypes

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Role
// =============================================================================

// Role tags a LogEntry with the loop step that produced it.
//
// # Description
//
// Role is a closed set rather than free text so that audit consumers can
// switch exhaustively and typos cannot slip into stored sessions.
type Role string

const (
	// RoleGenerator marks a candidate answer produced by the writer step.
	RoleGenerator Role = "generator"

	// RoleVerifier marks a normalized verdict produced by the critic step.
	RoleVerifier Role = "verifier"

	// RoleSystem marks diagnostics emitted by the loop itself
	// (backend failures, catalog unavailability).
	RoleSystem Role = "system"
)

// Valid reports whether r is one of the defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleGenerator, RoleVerifier, RoleSystem:
		return true
	}
	return false
}

// =============================================================================
// Outcome
// =============================================================================

// Outcome identifies the terminal state the self-correction loop reached.
//
// # Description
//
// The loop always terminates in exactly one of these states. Tests and
// history views branch on Outcome instead of string-matching answers,
// because the user-visible meaning of each termination differs.
type Outcome string

const (
	// OutcomeApproved means the verifier accepted a candidate answer.
	OutcomeApproved Outcome = "approved"

	// OutcomeExhausted means the retry budget ran out; the last
	// unapproved candidate was released as a best effort.
	OutcomeExhausted Outcome = "exhausted"

	// OutcomeGeneratorFailed means the completion backend failed during
	// a generator round; the final answer is a diagnostic.
	OutcomeGeneratorFailed Outcome = "generator_failed"

	// OutcomeVerifierUnparsable means the verifier's output could not be
	// parsed into a verdict; the current candidate was accepted as-is.
	OutcomeVerifierUnparsable Outcome = "verifier_unparsable"

	// OutcomeUnconfigured means no completion backend was configured and
	// the fallback responder answered.
	OutcomeUnconfigured Outcome = "unconfigured"
)

// =============================================================================
// LogEntry
// =============================================================================

// LogEntry is one step's output within a session's audit trail.
//
// # Fields
//
//   - Role: which loop step produced the entry.
//   - Content: raw text for generator and system entries; for verifier
//     entries the extracted verdict re-serialized to JSON, so audit trails
//     stay clean of model formatting noise.
//   - Timestamp: when the entry was appended (UTC).
//
// # Ownership
//
// A LogEntry is owned exclusively by its parent Session and is never
// shared or referenced elsewhere.
type LogEntry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// =============================================================================
// Session
// =============================================================================

// Session records one user interaction with the assistant.
//
// # Description
//
// A Session is created when a question arrives, mutated only by the
// self-correction loop while it runs, and handed to the audit store exactly
// once at termination, after which it is immutable.
//
// # Invariants
//
//   - IterationCount is in [1,3] and equals the number of generator rounds
//     reflected in Log.
//   - FinalAnswer is set exactly once, when the loop terminates.
//   - Log is append-only; insertion order is chronological order.
type Session struct {
	ID             string     `json:"session_id"`
	CreatedAt      time.Time  `json:"created_at"`
	Question       string     `json:"question"`
	FinalAnswer    string     `json:"final_answer"`
	IterationCount int        `json:"iteration_count"`
	Outcome        Outcome    `json:"outcome"`
	Log            []LogEntry `json:"log"`
}

// NewSession creates a Session for the given question with a fresh ID and
// creation timestamp. The question is immutable after this point.
func NewSession(question string) *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Question:  question,
	}
}

// AppendLog appends one entry to the session's audit trail.
//
// # Inputs
//
//   - role: the loop step producing the entry. Must be a defined Role.
//   - content: the entry text.
//
// Entries are timestamped at append time; callers never set timestamps
// themselves, which keeps the log's insertion order chronological.
func (s *Session) AppendLog(role Role, content string) {
	s.Log = append(s.Log, LogEntry{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// Finalize marks the session terminal.
//
// # Description
//
// Sets the final answer, the terminal outcome, and the iteration count in
// one place so the "set exactly once" invariant has a single enforcement
// point. Calling Finalize twice indicates a loop bug; the second call is
// ignored to keep the first termination authoritative.
func (s *Session) Finalize(answer string, outcome Outcome, iterations int) {
	if s.Outcome != "" {
		return
	}
	s.FinalAnswer = answer
	s.Outcome = outcome
	s.IterationCount = iterations
}
