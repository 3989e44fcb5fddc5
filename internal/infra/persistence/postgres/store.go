// Package postgres implements a snapshot backend over PostgreSQL, for
// deployments that want snapshots co-located with an existing server rather
// than on local disk. The row model mirrors the sqlite backend.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"tinystore/internal/snapcodec"
	"tinystore/pkg/store"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion.
var _ store.SnapshotStore = (*Store)(nil)

const defaultDriver = "pgx"

// sqlOpen is swappable so tests can substitute a stub driver.
var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// OverrideSQLOpen swaps the database opener and returns a restore func.
// Tests use it to inject stub connections without a running server.
func OverrideSQLOpen(fn func(driverName, dsn string) (*sql.DB, error)) func() {
	openMu.Lock()
	prev := sqlOpen
	sqlOpen = fn
	openMu.Unlock()
	return func() {
		openMu.Lock()
		sqlOpen = prev
		openMu.Unlock()
	}
}

// Store persists snapshots in a tinystore_snapshot table keyed by store name.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	name string
}

// New opens a Postgres-backed snapshot store using the provided DSN, pings
// the server, and ensures the snapshot table exists.
func New(dsn, name string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres snapshot store: dsn required")
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS tinystore_snapshot (
		store TEXT PRIMARY KEY,
		payload BYTEA NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create snapshot table: %w", err)
	}
	return &Store{db: db, name: name}, nil
}

// DB exposes the underlying handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Save upserts the encoded snapshot row for the snapshot's name.
func (s *Store) Save(ctx context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	payload := snapcodec.Encode(snap)
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO tinystore_snapshot (store, payload) VALUES ($1, $2)
		 ON CONFLICT (store) DO UPDATE SET payload = EXCLUDED.payload`,
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
		`SELECT payload FROM tinystore_snapshot WHERE store = $1`, s.name,
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
