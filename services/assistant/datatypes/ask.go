// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// MaxQuestionBytes is the maximum size of a single question. Checked in
// bytes, not runes, to bound memory regardless of encoding.
const MaxQuestionBytes = 8 * 1024

// sharedValidate is the validator instance for assistant datatypes.
var sharedValidate *validator.Validate

func init() {
	sharedValidate = validator.New()
	_ = sharedValidate.RegisterValidation("maxbytes", validateQuestionBytes)
}

func validateQuestionBytes(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= MaxQuestionBytes
}

// Message is one entry in a chat-completion message sequence.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat roles understood by the completion backends.
const (
	MessageRoleSystem    = "system"
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// =============================================================================
// Ask Request / Response
// =============================================================================

// AskRequest is the body of POST /v1/ask.
//
// # Fields
//
//   - RequestID: optional client-supplied UUID v4 for correlation;
//     generated server-side when absent.
//   - Timestamp: optional Unix milliseconds (UTC); populated when absent.
//   - Question: required user question, at most 8KB.
type AskRequest struct {
	RequestID string `json:"request_id" validate:"omitempty,uuid4"`
	Timestamp int64  `json:"timestamp" validate:"gte=0"`
	Question  string `json:"question" validate:"required,maxbytes"`
}

// Validate validates the AskRequest fields. Call after JSON binding.
func (r *AskRequest) Validate() error {
	return sharedValidate.Struct(r)
}

// EnsureDefaults populates RequestID and Timestamp if the client omitted
// them, so every request is traceable in logs and audit records.
func (r *AskRequest) EnsureDefaults() {
	if r.RequestID == "" {
		r.RequestID = uuid.NewString()
	}
	if r.Timestamp == 0 {
		r.Timestamp = time.Now().UnixMilli()
	}
}

// AskResponse is the body returned by POST /v1/ask.
//
// The full session is returned, audit log included, so callers can render
// the round-by-round trail without a second request.
type AskResponse struct {
	RequestID string   `json:"request_id"`
	Session   *Session `json:"session"`
}
