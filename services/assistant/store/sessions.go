// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
)

var sessionTracer = otel.Tracer("assistant.store.sessions")

const sessionPrefix = "session/"

// ErrSessionNotFound is returned by Get when no session has the given id.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists finished sessions with their full audit logs.
//
// # Description
//
// Sessions are append-only: the loop hands a terminal Session to Append
// exactly once, and nothing ever mutates a stored session. Keys embed an
// inverted creation timestamp so iteration in key order is newest-first.
//
// # Thread Safety
//
// Safe for concurrent use.
type SessionStore struct {
	db *DB
}

// NewSessionStore creates a SessionStore over the shared database.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// sessionKey builds "session/<inverted-unixnano>/<id>". Inverting the
// timestamp makes ascending key order equal descending creation order.
func sessionKey(s *datatypes.Session) []byte {
	inverted := math.MaxInt64 - s.CreatedAt.UnixNano()
	return []byte(fmt.Sprintf("%s%020d/%s", sessionPrefix, inverted, s.ID))
}

// Append persists one finished session.
//
// # Inputs
//
//   - session: a terminal session (FinalAnswer and Outcome populated).
//
// # Outputs
//
//   - error: non-nil if serialization or the write fails. Callers treat
//     persistence as best-effort and must not let this error mask the
//     already-computed answer.
func (s *SessionStore) Append(ctx context.Context, session *datatypes.Session) error {
	ctx, span := sessionTracer.Start(ctx, "SessionStore.Append")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("session.outcome", string(session.Outcome)),
	)

	value, err := json.Marshal(session)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "marshal failed")
		return fmt.Errorf("marshal session %s: %w", session.ID, err)
	}

	err = s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(sessionKey(session), value)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write failed")
		return fmt.Errorf("append session %s: %w", session.ID, err)
	}
	return nil
}

// List returns all stored sessions ordered by creation time descending.
func (s *SessionStore) List(ctx context.Context) ([]datatypes.Session, error) {
	ctx, span := sessionTracer.Start(ctx, "SessionStore.List")
	defer span.End()

	var sessions []datatypes.Session
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var session datatypes.Session
				if err := json.Unmarshal(val, &session); err != nil {
					return fmt.Errorf("unmarshal session: %w", err)
				}
				sessions = append(sessions, session)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	span.SetAttributes(attribute.Int("sessions.count", len(sessions)))
	return sessions, nil
}

// Get returns a single session by id, or ErrSessionNotFound.
//
// Badger keys embed the creation timestamp, so lookup by id alone requires
// a prefix scan. History volumes are small enough that this stays cheap.
func (s *SessionStore) Get(ctx context.Context, id string) (*datatypes.Session, error) {
	ctx, span := sessionTracer.Start(ctx, "SessionStore.Get")
	defer span.End()
	span.SetAttributes(attribute.String("session.id", id))

	var found *datatypes.Session
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sessionPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			key := string(it.Item().Key())
			if !strings.HasSuffix(key, "/"+id) {
				continue
			}
			return it.Item().Value(func(val []byte) error {
				var session datatypes.Session
				if err := json.Unmarshal(val, &session); err != nil {
					return fmt.Errorf("unmarshal session: %w", err)
				}
				found = &session
				return nil
			})
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "get failed")
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	if found == nil {
		return nil, ErrSessionNotFound
	}
	return found, nil
}
