// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package services provides the business logic of the assistant.
//
// This package contains the self-correction loop and its collaborators:
// the fact sheet builder, prompt assembly for the writer and critic steps,
// and the verdict extractor. Services are designed to be:
//   - Testable: dependencies are injected via constructors
//   - Traceable: all methods accept context for distributed tracing
package services

import (
	"sort"
	"strings"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
)

// BuildFactSheet renders the catalog into the authoritative text block
// injected into every prompt.
//
// # Description
//
// One line per item, "name | price | category", with the price at exactly
// 2 decimals. Items are sorted by category then name (ascending,
// byte-wise) so the output is deterministic and stable under any
// permutation of the input. The sheet is rebuilt on every call — the
// catalog can change between sessions, so nothing here may cache.
//
// # Inputs
//
//   - items: the current catalog. Not mutated; sorting copies first.
//
// # Outputs
//
//   - string: the rendered fact sheet. Empty catalog yields a fixed
//     "no products" marker so prompts never embed an empty block.
func BuildFactSheet(items []datatypes.CatalogItem) string {
	if len(items) == 0 {
		return "(the catalog is currently empty)"
	}

	sorted := make([]datatypes.CatalogItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].Name < sorted[j].Name
	})

	var b strings.Builder
	for i, item := range sorted {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(item.Name)
		b.WriteString(" | ")
		b.WriteString(item.Price())
		b.WriteString(" | ")
		b.WriteString(item.Category)
	}
	return b.String()
}
