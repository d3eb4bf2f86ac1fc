// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVerdict_Approved(t *testing.T) {
	verdict, err := ParseVerdict(`{"approved": true, "feedback": ""}`)
	require.NoError(t, err)
	assert.True(t, verdict.Approved)
	assert.Empty(t, verdict.Feedback)
}

func TestParseVerdict_Rejected(t *testing.T) {
	verdict, err := ParseVerdict(`{"approved": false, "feedback": "price mismatch"}`)
	require.NoError(t, err)
	assert.False(t, verdict.Approved)
	assert.Equal(t, "price mismatch", verdict.Feedback)
}

func TestParseVerdict_CaseInsensitiveFields(t *testing.T) {
	verdict, err := ParseVerdict(`{"Approved": true, "Feedback": "ok"}`)
	require.NoError(t, err)
	assert.True(t, verdict.Approved)
	assert.Equal(t, "ok", verdict.Feedback)
}

func TestParseVerdict_MissingFeedback(t *testing.T) {
	verdict, err := ParseVerdict(`{"approved": true}`)
	require.NoError(t, err)
	assert.True(t, verdict.Approved)
	assert.Empty(t, verdict.Feedback)
}

func TestParseVerdict_MissingApproved(t *testing.T) {
	_, err := ParseVerdict(`{"feedback": "no judgment here"}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrVerdictMalformed)
}

// The extractor's "{}" safe default must fail deterministically.
func TestParseVerdict_EmptyObject(t *testing.T) {
	_, err := ParseVerdict("{}")
	assert.ErrorIs(t, err, ErrVerdictMalformed)
}

func TestParseVerdict_NotJSON(t *testing.T) {
	_, err := ParseVerdict("sure, looks good to me")
	assert.ErrorIs(t, err, ErrVerdictMalformed)
}

func TestParseVerdict_NonBooleanApproved(t *testing.T) {
	_, err := ParseVerdict(`{"approved": "yes", "feedback": ""}`)
	assert.ErrorIs(t, err, ErrVerdictMalformed)
}

func TestVerdict_Serialize(t *testing.T) {
	v := Verdict{Approved: false, Feedback: "wrong category"}
	assert.JSONEq(t, `{"approved": false, "feedback": "wrong category"}`, v.Serialize())
}
