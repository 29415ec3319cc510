// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// ErrNotFound indicates no entry exists for the requested resource.
var ErrNotFound = errors.New("entry not found")

// schema is the cache table. fetched_at is stored as Unix nanoseconds.
const schema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	resource   TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	fetched_at INTEGER NOT NULL
);
`

// =============================================================================
// CACHE STORE
// =============================================================================

// Entry is a persisted cache entry.
type Entry struct {
	Resource  string
	Payload   []byte
	FetchedAt time.Time
}

// Store is the SQLite-backed durable cache store.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the store at the given database path.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the entry for a resource, or ErrNotFound.
func (s *Store) Get(resource string) (Entry, error) {
	var payload []byte
	var fetchedAt int64
	err := s.db.QueryRow(
		"SELECT payload, fetched_at FROM cache_entries WHERE resource = ?",
		resource,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return Entry{
		Resource:  resource,
		Payload:   payload,
		FetchedAt: time.Unix(0, fetchedAt),
	}, nil
}

// Put stores or replaces the entry for a resource.
func (s *Store) Put(resource string, payload []byte, fetchedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO cache_entries (resource, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(resource) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		resource, payload, fetchedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for a resource. Deleting a missing entry is not
// an error.
func (s *Store) Delete(resource string) error {
	if _, err := s.db.Exec("DELETE FROM cache_entries WHERE resource = ?", resource); err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Purge removes all entries. Called on logout so no cached financial data
// outlives the session that fetched it.
func (s *Store) Purge() error {
	if _, err := s.db.Exec("DELETE FROM cache_entries"); err != nil {
		return fmt.Errorf("failed to purge cache entries: %w", err)
	}
	return nil
}
