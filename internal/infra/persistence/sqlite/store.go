// Package sqlite implements a snapshot backend over an embedded SQLite file.
// Snapshots keep the same binary container as the file backend and are stored
// as a single payload row keyed by store name, so corruption detection is
// uniform across backends.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"tinystore/internal/snapcodec"
	"tinystore/pkg/store"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion.
var _ store.SnapshotStore = (*Store)(nil)

// Store persists snapshots to a SQLite database file. Multiple stores may
// share one database; rows are keyed by store name.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
	name string
}

// New opens (creating if needed) the SQLite file at path and prepares the
// snapshot table. The name selects which row subsequent loads read.
func New(path, name string) (*Store, error) {
	if path == "" {
		path = "tinystore.db3"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS snapshot (
		store TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &Store{db: db, path: path, name: name}, nil
}

// Path returns the SQLite database file path.
func (s *Store) Path() string { return s.path }

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Save upserts the encoded snapshot row for the snapshot's name.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := snapcodec.Encode(snap)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshot (store, payload) VALUES (?, ?)
		 ON CONFLICT(store) DO UPDATE SET payload = excluded.payload`,
		snap.Name, payload,
	); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Load reads and decodes the snapshot row for the configured store name.
func (s *Store) Load(ctx context.Context) (store.Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM snapshot WHERE store = ?`, s.name,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("select snapshot: %w", err)
	}
	snap, err := snapcodec.Decode(payload)
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("decode snapshot for %q: %w", s.name, err)
	}
	return snap, true, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }
