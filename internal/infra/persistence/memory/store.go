// Package memory provides an in-memory snapshot backend used for tests and
// ephemeral environments.
package memory

import (
	"context"
	"sync"

	"tinystore/pkg/store"
)

// Compile-time contract assertion.
var _ store.SnapshotStore = (*Store)(nil)

// Store holds the latest snapshot in process memory.
type Store struct {
	mu   sync.RWMutex
	snap store.Snapshot
	ok   bool
}

// New returns an empty in-memory snapshot store.
func New() *Store { return &Store{} }

// Save replaces the held snapshot with a deep copy.
func (s *Store) Save(_ context.Context, snap store.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap.Clone()
	s.ok = true
	return nil
}

// Load returns a deep copy of the held snapshot, if any.
func (s *Store) Load(_ context.Context) (store.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return store.Snapshot{}, false, nil
	}
	return s.snap.Clone(), true, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }
