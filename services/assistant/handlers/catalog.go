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

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/store"
)

// createItemRequest accepts the price as a decimal string ("249.99") on
// the wire and converts it to cents on the way in.
type createItemRequest struct {
	Name     string `json:"name"`
	Price    string `json:"price"`
	Category string `json:"category"`
}

// ListCatalog returns every catalog item, sorted by category then name.
func ListCatalog(catalog *store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := catalog.ListItems(c.Request.Context())
		if err != nil {
			slog.Error("failed to list catalog items", "error", err)
			c.JSON(http.StatusInternalServerError,
				gin.H{"error": "failed to list catalog items"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
	}
}

// CreateCatalogItem inserts or replaces one catalog item.
func CreateCatalogItem(catalog *store.CatalogStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createItemRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		cents, err := datatypes.ParsePrice(req.Price)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		item := datatypes.CatalogItem{
			Name:       req.Name,
			PriceCents: cents,
			Category:   req.Category,
		}
		if err := item.Validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := catalog.PutItem(c.Request.Context(), &item); err != nil {
			slog.Error("failed to store catalog item", "name", item.Name, "error", err)
			c.JSON(http.StatusInternalServerError,
				gin.H{"error": "failed to store catalog item"})
			return
		}

		slog.Info("Stored catalog item", "name", item.Name, "category", item.Category)
		c.JSON(http.StatusCreated, item)
	}
}
