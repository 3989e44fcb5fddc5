package store

import (
	"fmt"
	"strings"
)

// snapshotExt is the extension appended to a store name when no explicit
// path override is given.
const snapshotExt = ".db"

// MaxNameLen is the longest store name the snapshot container can frame;
// its name-length field is 16 bits wide.
const MaxNameLen = 1<<16 - 1

// ValidateName rejects names that cannot derive a collision-free default
// path or survive a snapshot round trip: empty names, names containing
// path separators, and names longer than MaxNameLen bytes.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("empty name: %w", ErrBadName)
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("name is %d bytes, limit %d: %w", len(name), MaxNameLen, ErrBadName)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name %q contains path separators: %w", name, ErrBadName)
	}
	return nil
}

// DefaultPath derives the canonical snapshot file path for a store name:
// "<name>.db" in the working directory. The mapping is deterministic, so two
// differently named stores never resolve to the same default path.
func DefaultPath(name string) string {
	return name + snapshotExt
}
