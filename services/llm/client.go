// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm provides clients for chat-completion backends.
//
// Every backend implements LLMClient. The self-correction loop is the only
// consumer; it issues one Chat call per generator or verifier step and
// treats any returned error as a BackendError for that step.
package llm

import (
	"context"
	"fmt"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
)

// GenerationParams carries optional sampling parameters for a completion.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// LLMClient defines the standard interface for any completion backend.
type LLMClient interface {
	// Chat sends an ordered message sequence and returns the generated
	// text. The call blocks for up to the backend's configured timeout;
	// callers must treat it as cancellable via ctx and must not hold
	// exclusive resources across it.
	Chat(ctx context.Context, messages []datatypes.Message, params GenerationParams) (string, error)
}

// BackendError wraps a failure talking to a completion backend
// (network, auth, timeout). The loop treats it as terminal for the
// current session.
type BackendError struct {
	Backend string
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend error: %v", e.Backend, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// IsBackendError checks if an error is a *BackendError.
func IsBackendError(err error) bool {
	_, ok := err.(*BackendError)
	return ok
}
