package store

import "errors"

// Error kinds surfaced by the store and its persistence backends. Callers
// match them with errors.Is; the concrete messages carry store-name context.
var (
	// ErrDuplicateItem reports an insert of a value already present.
	ErrDuplicateItem = errors.New("duplicate item")

	// ErrItemNotFound reports a removal of a value that is not present.
	ErrItemNotFound = errors.New("item not found")

	// ErrBadName reports a store name unusable for default path resolution:
	// empty, or containing path separators.
	ErrBadName = errors.New("invalid store name")

	// ErrSnapshotNotFound reports a load from a path or backend holding no
	// snapshot.
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrMalformedSnapshot reports a snapshot payload that fails structural
	// validation: bad magic, truncation, length overrun, or checksum
	// mismatch.
	ErrMalformedSnapshot = errors.New("malformed snapshot")

	// ErrSchemaMismatch reports a snapshot whose container version or item
	// encoding is incompatible with the currently compiled item type.
	ErrSchemaMismatch = errors.New("snapshot schema mismatch")
)
