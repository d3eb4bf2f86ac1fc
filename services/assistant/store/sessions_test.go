// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
)

func newTestSessions(t *testing.T) *SessionStore {
	t.Helper()
	db, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSessionStore(db)
}

func finishedSession(question string, outcome datatypes.Outcome) *datatypes.Session {
	session := datatypes.NewSession(question)
	session.AppendLog(datatypes.RoleGenerator, "draft")
	session.Finalize("answer", outcome, 1)
	return session
}

func TestSessionStore_AppendAndGet(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	session := finishedSession("How much is the dog food?", datatypes.OutcomeApproved)
	require.NoError(t, sessions.Append(ctx, session))

	stored, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, stored.ID)
	assert.Equal(t, session.Question, stored.Question)
	assert.Equal(t, datatypes.OutcomeApproved, stored.Outcome)
	require.Len(t, stored.Log, 1)
	assert.Equal(t, datatypes.RoleGenerator, stored.Log[0].Role)
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	sessions := newTestSessions(t)

	_, err := sessions.Get(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionStore_List_NewestFirst(t *testing.T) {
	sessions := newTestSessions(t)
	ctx := context.Background()

	first := finishedSession("first", datatypes.OutcomeApproved)
	require.NoError(t, sessions.Append(ctx, first))

	second := finishedSession("second", datatypes.OutcomeExhausted)
	// Force a distinct creation time so the ordering is unambiguous.
	second.CreatedAt = first.CreatedAt.Add(time.Millisecond)
	require.NoError(t, sessions.Append(ctx, second))

	got, err := sessions.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Question)
	assert.Equal(t, "first", got[1].Question)
}

func TestSessionStore_List_Empty(t *testing.T) {
	sessions := newTestSessions(t)

	got, err := sessions.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
