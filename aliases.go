package tinystore

import "tinystore/pkg/store"

// Re-exports so embedders can depend on the root package alone.
type (
	Item[T any]     = store.Item[T]
	ItemPtr[T any]  = store.ItemPtr[T]
	Snapshot        = store.Snapshot
	SnapshotStore   = store.SnapshotStore
	Logger          = store.Logger
	MetricsRecorder = store.MetricsRecorder
	Clock           = store.Clock
	ClockFunc       = store.ClockFunc
)

var (
	ErrDuplicateItem     = store.ErrDuplicateItem
	ErrItemNotFound      = store.ErrItemNotFound
	ErrBadName           = store.ErrBadName
	ErrSnapshotNotFound  = store.ErrSnapshotNotFound
	ErrMalformedSnapshot = store.ErrMalformedSnapshot
	ErrSchemaMismatch    = store.ErrSchemaMismatch
)

// DefaultPath returns the canonical "<name>.db" snapshot path for a store.
func DefaultPath(name string) string { return store.DefaultPath(name) }
