package store

import "context"

// Snapshot is the full encoded state of a store: its name and the byte form
// of every item. Item order is unspecified and carries no meaning. Each save
// is a complete rewrite; there is no incremental persistence.
type Snapshot struct {
	Name  string
	Items [][]byte
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	cp := Snapshot{Name: s.Name}
	if s.Items != nil {
		cp.Items = make([][]byte, len(s.Items))
		for i, item := range s.Items {
			cp.Items[i] = append([]byte(nil), item...)
		}
	}
	return cp
}

// SnapshotStore is the minimal abstraction over durable snapshot backends.
// Save replaces any previously stored snapshot. Load reports ok=false when
// the backend holds no snapshot, reserving errors for real failures.
// Implementations block on the calling goroutine; tinystore offers no
// cancellation beyond what the backend honors from ctx.
type SnapshotStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, bool, error)
	Close() error
}
