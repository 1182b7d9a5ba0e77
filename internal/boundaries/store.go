// Photoglobe - Photo Library Globe Visualization
// Copyright 2026 Daniel Maier (dmaier-io)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dmaier-io/photoglobe

package boundaries

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefix for persisted datasets.
const datasetKeyPrefix = "boundaries:dataset:"

// storedDataset is the Badger record for one fetched dataset.
type storedDataset struct {
	FetchedAt time.Time `json:"fetched_at"`
	Data      []byte    `json:"data"`
}

// Store persists fetched boundary datasets in BadgerDB so region indexes
// survive restarts and upstream outages.
type Store struct {
	db *badger.DB
}

// OpenStore opens (or creates) the Badger database at path.
func OpenStore(path string) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Badger's own logger is noisy; zerolog covers the rest
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open boundary store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewStore wraps an already-open Badger database, used by tests and by
// callers that share one Badger instance.
func NewStore(db *badger.DB) *Store {
	return &Store{db: db}
}

// Put persists one dataset's raw GeoJSON bytes.
func (s *Store) Put(dataset Dataset, data []byte) error {
	record, err := json.Marshal(storedDataset{FetchedAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("marshal dataset record: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(datasetKeyPrefix+string(dataset)), record)
	})
}

// Get returns the persisted bytes for a dataset and when they were fetched.
// The boolean is false when no copy has ever been stored.
func (s *Store) Get(dataset Dataset) ([]byte, time.Time, bool, error) {
	var record storedDataset
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(datasetKeyPrefix + string(dataset)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &record)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("read dataset record: %w", err)
	}
	return record.Data, record.FetchedAt, true, nil
}

// Close releases the underlying Badger database.
func (s *Store) Close() error {
	return s.db.Close()
}
