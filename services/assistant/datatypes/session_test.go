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

func TestNewSession(t *testing.T) {
	session := NewSession("How much is the dog food?")

	assert.NotEmpty(t, session.ID)
	assert.False(t, session.CreatedAt.IsZero())
	assert.Equal(t, "How much is the dog food?", session.Question)
	assert.Empty(t, session.Outcome, "outcome is set only at termination")
	assert.Empty(t, session.Log)
}

func TestNewSession_UniqueIDs(t *testing.T) {
	a := NewSession("q")
	b := NewSession("q")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestSession_AppendLog(t *testing.T) {
	session := NewSession("q")
	session.AppendLog(RoleGenerator, "draft")
	session.AppendLog(RoleVerifier, `{"approved":true,"feedback":""}`)

	require.Len(t, session.Log, 2)
	assert.Equal(t, RoleGenerator, session.Log[0].Role)
	assert.Equal(t, "draft", session.Log[0].Content)
	assert.False(t, session.Log[0].Timestamp.IsZero())
	assert.Equal(t, RoleVerifier, session.Log[1].Role)
}

func TestSession_Finalize(t *testing.T) {
	session := NewSession("q")
	session.Finalize("the answer", OutcomeApproved, 2)

	assert.Equal(t, "the answer", session.FinalAnswer)
	assert.Equal(t, OutcomeApproved, session.Outcome)
	assert.Equal(t, 2, session.IterationCount)
}

// A second Finalize indicates a loop bug; the first termination stays
// authoritative.
func TestSession_FinalizeOnce(t *testing.T) {
	session := NewSession("q")
	session.Finalize("first", OutcomeApproved, 1)
	session.Finalize("second", OutcomeExhausted, 3)

	assert.Equal(t, "first", session.FinalAnswer)
	assert.Equal(t, OutcomeApproved, session.Outcome)
	assert.Equal(t, 1, session.IterationCount)
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleGenerator.Valid())
	assert.True(t, RoleVerifier.Valid())
	assert.True(t, RoleSystem.Valid())
	assert.False(t, Role("narrator").Valid())
	assert.False(t, Role("").Valid())
}
