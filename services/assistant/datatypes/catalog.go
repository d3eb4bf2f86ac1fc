// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import (
	"fmt"
	"strconv"
	"strings"
)

// CatalogItem is one sellable product.
//
// # Description
//
// The catalog is the single source of truth for the assistant: any claim in
// a generated answer that contradicts this set is a groundedness violation.
// The loop only ever reads catalog items, never mutates them.
//
// # Fields
//
//   - Name: product name, unique within a category.
//   - PriceCents: price in integer cents. Prices are fixed-point values
//     with exactly 2 fractional digits; holding cents avoids float drift
//     in a money field.
//   - Category: product category used for fact-sheet grouping.
type CatalogItem struct {
	Name       string `json:"name" validate:"required,max=200"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
	Category   string `json:"category" validate:"required,max=100"`
}

// Validate validates the catalog item fields.
func (i *CatalogItem) Validate() error {
	return sharedValidate.Struct(i)
}

// Price renders the price as a fixed-point decimal with 2 fractional
// digits, e.g. 24999 -> "249.99".
func (i *CatalogItem) Price() string {
	return FormatCents(i.PriceCents)
}

// FormatCents renders integer cents as a 2-decimal fixed-point string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// ParsePrice parses a fixed-point decimal string ("249.99", "12", "7.5")
// into integer cents.
//
// # Outputs
//
//   - int64: the price in cents.
//   - error: non-nil if the string is not a decimal with at most 2
//     fractional digits.
func ParsePrice(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	var cents int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("invalid price %q: expected at most 2 fractional digits", s)
		}
		// Pad "7.5" to 50 cents.
		if len(frac) == 1 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q: %w", s, err)
		}
	}

	if units < 0 || strings.HasPrefix(whole, "-") {
		return units*100 - cents, nil
	}
	return units*100 + cents, nil
}
