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
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gopkg.in/yaml.v3"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
)

var catalogTracer = otel.Tracer("assistant.store.catalog")

const catalogPrefix = "catalog/"

// CatalogUnavailableError wraps a failure reading the product catalog.
// The loop converts it into a diagnostic session rather than propagating.
type CatalogUnavailableError struct {
	Err error
}

func (e *CatalogUnavailableError) Error() string {
	return fmt.Sprintf("catalog unavailable: %v", e.Err)
}

func (e *CatalogUnavailableError) Unwrap() error {
	return e.Err
}

// IsCatalogUnavailable checks if an error is a *CatalogUnavailableError.
func IsCatalogUnavailable(err error) bool {
	_, ok := err.(*CatalogUnavailableError)
	return ok
}

// CatalogStore provides read and admin access to the product catalog.
//
// # Description
//
// The catalog is the assistant's single source of truth. The loop only
// reads it; writes happen through the admin endpoint or the startup seed.
// Each read uses one scoped transaction that is released before any model
// call is made.
//
// # Thread Safety
//
// Safe for concurrent use; Badger transactions provide isolation.
type CatalogStore struct {
	db *DB
}

// NewCatalogStore creates a CatalogStore over the shared database.
func NewCatalogStore(db *DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func catalogKey(item *datatypes.CatalogItem) []byte {
	return []byte(catalogPrefix + item.Category + "/" + item.Name)
}

// PutItem inserts or updates one catalog item.
func (s *CatalogStore) PutItem(ctx context.Context, item *datatypes.CatalogItem) error {
	ctx, span := catalogTracer.Start(ctx, "CatalogStore.PutItem")
	defer span.End()
	span.SetAttributes(
		attribute.String("catalog.name", item.Name),
		attribute.String("catalog.category", item.Category),
	)

	if err := item.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return fmt.Errorf("invalid catalog item: %w", err)
	}

	value, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal catalog item: %w", err)
	}

	return s.db.WithTxn(ctx, func(txn *badger.Txn) error {
		return txn.Set(catalogKey(item), value)
	})
}

// ListItems returns every catalog item sorted by category then name
// (ascending, byte-wise).
//
// # Outputs
//
//   - []datatypes.CatalogItem: the full catalog, deterministically ordered.
//   - error: *CatalogUnavailableError if the read fails.
func (s *CatalogStore) ListItems(ctx context.Context) ([]datatypes.CatalogItem, error) {
	ctx, span := catalogTracer.Start(ctx, "CatalogStore.ListItems")
	defer span.End()

	var items []datatypes.CatalogItem
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(catalogPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var item datatypes.CatalogItem
				if err := json.Unmarshal(val, &item); err != nil {
					return fmt.Errorf("unmarshal catalog item: %w", err)
				}
				items = append(items, item)
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
		span.SetStatus(codes.Error, "catalog read failed")
		return nil, &CatalogUnavailableError{Err: err}
	}

	// Keys are already prefix-ordered, but the JSON values are the source
	// of truth for ordering, so sort explicitly.
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})

	span.SetAttributes(attribute.Int("catalog.items", len(items)))
	return items, nil
}

// Count returns the number of catalog items.
func (s *CatalogStore) Count(ctx context.Context) (int, error) {
	count := 0
	err := s.db.WithReadTxn(ctx, func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(catalogPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, &CatalogUnavailableError{Err: err}
	}
	return count, nil
}

// =============================================================================
// Seeding
// =============================================================================

// seedFile is the YAML shape of a catalog seed file:
//
//	items:
//	  - name: Royal Canin Maxi Adult 15kg
//	    price: "249.99"
//	    category: Dog Food
type seedFile struct {
	Items []struct {
		Name     string `yaml:"name"`
		Price    string `yaml:"price"`
		Category string `yaml:"category"`
	} `yaml:"items"`
}

// SeedFromYAML loads catalog items from a YAML file if the store is empty.
//
// # Description
//
// Intended for first startup: an already-populated catalog is left
// untouched so admin edits survive restarts. Prices in the file are
// fixed-point decimal strings ("249.99") parsed into cents.
//
// # Inputs
//
//   - ctx: context for the store transactions.
//   - path: seed file path. Empty path is a no-op.
//
// # Outputs
//
//   - int: number of items inserted (0 when skipped).
//   - error: non-nil if the file is unreadable or any item is invalid.
func (s *CatalogStore) SeedFromYAML(ctx context.Context, path string) (int, error) {
	if path == "" {
		return 0, nil
	}

	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		slog.Info("Catalog already populated, skipping seed", "items", count)
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read catalog seed %s: %w", path, err)
	}

	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return 0, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}

	inserted := 0
	for _, entry := range seed.Items {
		cents, err := datatypes.ParsePrice(entry.Price)
		if err != nil {
			return inserted, fmt.Errorf("seed item %q: %w", entry.Name, err)
		}
		item := datatypes.CatalogItem{
			Name:       entry.Name,
			PriceCents: cents,
			Category:   entry.Category,
		}
		if err := s.PutItem(ctx, &item); err != nil {
			return inserted, fmt.Errorf("seed item %q: %w", entry.Name, err)
		}
		inserted++
	}

	slog.Info("Seeded catalog from file", "path", path, "items", inserted)
	return inserted, nil
}
