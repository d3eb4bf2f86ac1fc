// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/services"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/store"
)

// ListSessions returns the audit history, newest first.
func ListSessions(responder services.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		slog.Info("Received request to list sessions")
		sessions, err := responder.GetHistory(c.Request.Context())
		if err != nil {
			slog.Error("failed to list sessions", "error", err)
			c.JSON(http.StatusInternalServerError,
				gin.H{"error": "failed to list sessions"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": sessions, "count": len(sessions)})
	}
}

// GetSession returns a single persisted session by id.
func GetSession(sessions *store.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("sessionId")
		session, err := sessions.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
				return
			}
			slog.Error("failed to load session", "sessionId", id, "error", err)
			c.JSON(http.StatusInternalServerError,
				gin.H{"error": "failed to load session"})
			return
		}
		c.JSON(http.StatusOK, session)
	}
}
