// Package tinystore is a minimal embedded store of unique structured values,
// addressable only by predicate over their contents. There is no primary key:
// uniqueness is enforced by hashing the entire value, and lookup is a linear
// scan driven by a caller-supplied projection. The full store can be dumped
// to a snapshot backend and reconstructed later.
//
// A Store is owned by a single goroutine; it has no internal locking and
// makes no atomicity guarantees across concurrent calls. Embedders that need
// shared access must serialize it externally.
package tinystore

import (
	"context"
	"fmt"
	"time"

	"tinystore/pkg/store"
)

// Store is the public façade over the unique item set. The zero value is not
// usable; construct with New or Load.
type Store[T store.Item[T]] struct {
	name       string
	path       string
	autosave   bool
	allowDupes bool
	dirty      bool
	closed     bool
	set        *uniqueSet[T]
	backend    store.SnapshotStore
	logger     store.Logger
	metrics    store.MetricsRecorder
	clock      store.Clock
}

// Option configures a Store during construction.
type Option[T store.Item[T]] func(*Store[T])

// WithPath overrides the default "<name>.db" snapshot path for the file
// backend.
func WithPath[T store.Item[T]](path string) Option[T] {
	return func(s *Store[T]) { s.path = path }
}

// WithAutosave arms a best-effort dump during Close. Failures of that dump
// are logged and swallowed; an explicit Dump still surfaces errors normally.
func WithAutosave[T store.Item[T]]() Option[T] {
	return func(s *Store[T]) { s.autosave = true }
}

// WithAllowDuplicates makes Add a silent no-op on duplicate values instead of
// an error. Values are still deduplicated; the option only suppresses
// ErrDuplicateItem.
func WithAllowDuplicates[T store.Item[T]]() Option[T] {
	return func(s *Store[T]) { s.allowDupes = true }
}

// WithBackend pins the snapshot backend, bypassing path and environment
// driven resolution.
func WithBackend[T store.Item[T]](backend store.SnapshotStore) Option[T] {
	return func(s *Store[T]) { s.backend = backend }
}

// WithLogger sets the structured logger.
func WithLogger[T store.Item[T]](logger store.Logger) Option[T] {
	return func(s *Store[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the operation metrics recorder.
func WithMetrics[T store.Item[T]](rec store.MetricsRecorder) Option[T] {
	return func(s *Store[T]) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithClock overrides the clock used for operation timing.
func WithClock[T store.Item[T]](clock store.Clock) Option[T] {
	return func(s *Store[T]) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New constructs an empty store. The filesystem is not touched; the snapshot
// backend is resolved lazily on first Dump or Load.
func New[T store.Item[T]](name string, opts ...Option[T]) (*Store[T], error) {
	if err := store.ValidateName(name); err != nil {
		return nil, fmt.Errorf("tinystore: %w", err)
	}
	s := &Store[T]{
		name:    name,
		set:     newUniqueSet[T](),
		logger:  store.NoopLogger{},
		metrics: store.NoopMetrics{},
		clock:   store.ClockFunc(func() time.Time { return time.Now().UTC() }),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Name returns the store name, used as the default file stem.
func (s *Store[T]) Name() string { return s.name }

// Add inserts item, rejecting values already present. The rejection is
// idempotent: the stored copy is never overwritten.
func (s *Store[T]) Add(item T) error {
	start := s.clock.Now()
	err := s.addItem(item)
	s.observe(context.Background(), "add", start, err)
	return err
}

func (s *Store[T]) addItem(item T) error {
	if s.set.add(item) {
		s.dirty = true
		return nil
	}
	if s.allowDupes {
		return nil
	}
	return fmt.Errorf("store %q: add: %w", s.name, store.ErrDuplicateItem)
}

// Remove deletes the item equal to the argument.
func (s *Store[T]) Remove(item T) error {
	start := s.clock.Now()
	err := s.removeItem(item)
	s.observe(context.Background(), "remove", start, err)
	return err
}

func (s *Store[T]) removeItem(item T) error {
	if s.set.remove(item) {
		s.dirty = true
		return nil
	}
	return fmt.Errorf("store %q: remove: %w", s.name, store.ErrItemNotFound)
}

// Contains reports whether an equal item is present.
func (s *Store[T]) Contains(item T) bool { return s.set.contains(item) }

// Len returns the number of stored items.
func (s *Store[T]) Len() int { return s.set.len() }

// IsEmpty reports whether the store holds no items.
func (s *Store[T]) IsEmpty() bool { return s.set.len() == 0 }

// Items returns clones of every stored item in unspecified order.
func (s *Store[T]) Items() []T { return s.set.items() }

// Dump saves a full snapshot through the resolved backend and clears the
// dirty flag on success.
func (s *Store[T]) Dump(ctx context.Context) error {
	start := s.clock.Now()
	err := s.dump(ctx)
	s.observe(ctx, "dump", start, err)
	if err != nil {
		return err
	}
	s.logger.Debug("snapshot saved", "store", s.name, "items", s.set.len())
	return nil
}

func (s *Store[T]) dump(ctx context.Context) error {
	backend, err := s.resolveBackend()
	if err != nil {
		return err
	}
	snap, err := s.snapshot()
	if err != nil {
		return err
	}
	if err := backend.Save(ctx, snap); err != nil {
		return fmt.Errorf("store %q: save snapshot: %w", s.name, err)
	}
	s.dirty = false
	return nil
}

// snapshot encodes the current item set.
func (s *Store[T]) snapshot() (store.Snapshot, error) {
	snap := store.Snapshot{Name: s.name, Items: make([][]byte, 0, s.set.len())}
	var encErr error
	s.set.each(func(item T) bool {
		b, err := item.MarshalBinary()
		if err != nil {
			encErr = fmt.Errorf("store %q: encode item: %w", s.name, err)
			return false
		}
		snap.Items = append(snap.Items, b)
		return true
	})
	if encErr != nil {
		return store.Snapshot{}, encErr
	}
	return snap, nil
}

func (s *Store[T]) resolveBackend() (store.SnapshotStore, error) {
	if s.backend == nil {
		backend, err := OpenSnapshotStore(s.name, s.path)
		if err != nil {
			return nil, fmt.Errorf("store %q: %w", s.name, err)
		}
		s.backend = backend
	}
	return s.backend, nil
}

// Close releases the store. When autosave is armed and unsaved mutations
// exist, it first attempts a dump; a failure there is logged and swallowed,
// since no caller is present to receive it at teardown. Close is safe to
// call more than once.
func (s *Store[T]) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.autosave && s.dirty {
		if err := s.dump(context.Background()); err != nil {
			s.logger.Error("autosave failed", "store", s.name, "error", err)
		} else {
			s.logger.Debug("autosave complete", "store", s.name, "items", s.set.len())
		}
	}
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Warn("backend close failed", "store", s.name, "error", err)
		}
	}
}

// Load reconstructs a store from the backend resolved for name (or the
// options' explicit path/backend). Decoded items re-enter through the same
// uniqueness path as Add; a corrupt or hand-edited snapshot containing
// byte-distinct but value-equal items is silently deduplicated.
func Load[T store.Item[T], PT store.ItemPtr[T]](ctx context.Context, name string, opts ...Option[T]) (*Store[T], error) {
	s, err := New[T](name, opts...)
	if err != nil {
		return nil, err
	}
	start := s.clock.Now()
	err = restore[T, PT](ctx, s)
	s.observe(ctx, "load", start, err)
	if err != nil {
		// Release any backend resolved during the restore attempt.
		s.Close()
		return nil, err
	}
	s.logger.Debug("snapshot loaded", "store", s.name, "items", s.set.len())
	return s, nil
}

func restore[T store.Item[T], PT store.ItemPtr[T]](ctx context.Context, s *Store[T]) error {
	backend, err := s.resolveBackend()
	if err != nil {
		return err
	}
	snap, ok, err := backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("store %q: load snapshot: %w", s.name, err)
	}
	if !ok {
		return fmt.Errorf("store %q: %w", s.name, store.ErrSnapshotNotFound)
	}
	return applySnapshot[T, PT](s, snap)
}

// applySnapshot decodes items into the set. The persisted name wins over the
// requested one so a renamed snapshot file still yields an equivalent store.
func applySnapshot[T store.Item[T], PT store.ItemPtr[T]](s *Store[T], snap store.Snapshot) error {
	if snap.Name != "" {
		s.name = snap.Name
	}
	for _, raw := range snap.Items {
		var v T
		if err := PT(&v).UnmarshalBinary(raw); err != nil {
			return fmt.Errorf("store %q: decode item: %w: %v", s.name, store.ErrSchemaMismatch, err)
		}
		s.set.add(v)
	}
	s.dirty = false
	return nil
}

func (s *Store[T]) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.Observe(ctx, op, err == nil, s.clock.Now().Sub(start))
}
