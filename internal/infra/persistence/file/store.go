// Package file implements the canonical snapshot backend: a single binary
// file per store, rewritten in full on every save.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"tinystore/internal/snapcodec"
	"tinystore/pkg/store"
)

// Compile-time contract assertion.
var _ store.SnapshotStore = (*Store)(nil)

// Store persists snapshots to a single file at a fixed path. Saves are
// atomic: the payload is written to a temp file in the target directory,
// synced, then renamed over the canonical path, so a crash mid-write never
// leaves a half-written snapshot behind.
type Store struct {
	path string
}

// New constructs a file-backed snapshot store. The path must be non-empty;
// the file itself is not touched until the first Save or Load.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("file snapshot store: path required")
	}
	return &Store{path: path}, nil
}

// Path returns the canonical snapshot path.
func (s *Store) Path() string { return s.path }

// Save encodes the snapshot and atomically replaces the canonical file.
func (s *Store) Save(_ context.Context, snap store.Snapshot) error {
	payload := snapcodec.Encode(snap)
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename snapshot into place: %w", err)
	}
	return nil
}

// Load reads and decodes the canonical file. A missing file reports ok=false
// with no error; a present-but-invalid file surfaces the codec's error kind.
func (s *Store) Load(_ context.Context) (store.Snapshot, bool, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return store.Snapshot{}, false, nil
	}
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("read snapshot: %w", err)
	}
	snap, err := snapcodec.Decode(data)
	if err != nil {
		return store.Snapshot{}, false, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return snap, true, nil
}

// Close is a no-op; the store holds no open handles between operations.
func (s *Store) Close() error { return nil }
