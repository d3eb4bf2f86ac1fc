// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/services"
)

var askTracer = otel.Tracer("assistant.handlers")

// HandleAsk answers a customer question through the configured Responder.
//
// The handler never maps loop failures to HTTP errors: the self-correction
// loop encodes every failure mode in the session it returns, so any request
// that parses and validates gets a 200 with a complete session attached.
func HandleAsk(responder services.Responder) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := askTracer.Start(c.Request.Context(), "HandleAsk")
		defer span.End()

		var req datatypes.AskRequest
		if err := c.BindJSON(&req); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			slog.Error("Failed to parse the ask request", "error", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		req.EnsureDefaults()
		if err := req.Validate(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "validation failed")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		slog.Info("Processing ask request",
			"requestId", req.RequestID,
			"questionBytes", len(req.Question),
		)

		session := responder.ProcessRequest(ctx, req.Question)
		c.JSON(http.StatusOK, datatypes.AskResponse{
			RequestID: req.RequestID,
			Session:   session,
		})
	}
}
