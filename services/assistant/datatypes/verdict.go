// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrVerdictMalformed is returned when verifier output cannot be parsed
// into a Verdict. The loop treats this as a non-fatal failure and accepts
// the current candidate answer.
var ErrVerdictMalformed = errors.New("verdict malformed")

// Verdict is the verifier's structured judgment of a candidate answer.
//
// # Description
//
// Verdict is transient: it is never persisted as its own entity. The loop
// folds it into a verifier LogEntry via Serialize, so the audit trail holds
// the normalized form rather than raw model output.
//
// # Fields
//
//   - Approved: whether the candidate is grounded in the catalog.
//   - Feedback: free-text reason; advisory only, threaded into the next
//     generator round on rejection.
type Verdict struct {
	Approved bool   `json:"approved"`
	Feedback string `json:"feedback"`
}

// verdictWire is the decode target for ParseVerdict. Approved is a pointer
// so that a missing field is distinguishable from an explicit false.
type verdictWire struct {
	Approved *bool  `json:"approved"`
	Feedback string `json:"feedback"`
}

// ParseVerdict parses raw JSON text into a Verdict.
//
// # Description
//
// Field-name matching is case-insensitive (encoding/json semantics), since
// model output casing is not guaranteed. The "approved" field is required;
// input without it — including the extractor's "{}" safe default — fails
// with ErrVerdictMalformed. Feedback may be absent.
//
// # Inputs
//
//   - raw: candidate JSON text, typically the output of the extractor.
//
// # Outputs
//
//   - *Verdict: the parsed verdict.
//   - error: wraps ErrVerdictMalformed if raw is not a JSON object or the
//     approved field is missing or non-boolean.
func ParseVerdict(raw string) (*Verdict, error) {
	var wire verdictWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerdictMalformed, err)
	}
	if wire.Approved == nil {
		return nil, fmt.Errorf("%w: missing approved field", ErrVerdictMalformed)
	}
	return &Verdict{
		Approved: *wire.Approved,
		Feedback: wire.Feedback,
	}, nil
}

// Serialize renders the verdict back to canonical JSON for the audit log.
func (v *Verdict) Serialize() string {
	b, err := json.Marshal(v)
	if err != nil {
		// Verdict has no unmarshalable fields; this cannot happen.
		return fmt.Sprintf(`{"approved":%t,"feedback":%q}`, v.Approved, v.Feedback)
	}
	return string(b)
}
