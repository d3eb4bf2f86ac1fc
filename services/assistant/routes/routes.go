// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/handlers"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/services"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/store"
)

func SetupRoutes(router *gin.Engine, responder services.Responder,
	catalog *store.CatalogStore, sessions *store.SessionStore) {

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version 1 group
	v1 := router.Group("/v1")
	{
		v1.POST("/ask", handlers.HandleAsk(responder))

		catalogGroup := v1.Group("/catalog")
		{
			catalogGroup.GET("", handlers.ListCatalog(catalog))
			catalogGroup.POST("/items", handlers.CreateCatalogItem(catalog))
		}

		// Session audit routes
		sessionGroup := v1.Group("/sessions")
		{
			sessionGroup.GET("", handlers.ListSessions(responder))
			sessionGroup.GET("/:sessionId", handlers.GetSession(sessions))
		}
	}
}
