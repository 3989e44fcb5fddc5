package tinystore

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tinystore/pkg/store"
)

func TestNewRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "a/b", `a\b`, strings.Repeat("n", store.MaxNameLen+1)} {
		if _, err := New[user](name); !errors.Is(err, ErrBadName) {
			t.Fatalf("New(%.20q...) error = %v, want ErrBadName", name, err)
		}
	}
}

func TestNewAcceptsNameAtLengthLimit(t *testing.T) {
	name := strings.Repeat("n", store.MaxNameLen)
	s, err := New[user](name)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Name() != name {
		t.Fatalf("Name length = %d, want %d", len(s.Name()), store.MaxNameLen)
	}
}

func TestAddRemoveContains(t *testing.T) {
	s, err := New[user]("people")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	alice := user{ID: 1, Name: "alice"}
	if err := s.Add(alice); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(alice); !errors.Is(err, ErrDuplicateItem) {
		t.Fatalf("duplicate Add error = %v, want ErrDuplicateItem", err)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("Len after rejected duplicate = %d, want 1", got)
	}
	if !s.Contains(alice) {
		t.Fatalf("Contains(alice) = false")
	}
	if s.Contains(user{ID: 2, Name: "bob"}) {
		t.Fatalf("Contains reported an absent item")
	}
	if err := s.Remove(alice); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(alice); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("second Remove error = %v, want ErrItemNotFound", err)
	}
	if !s.IsEmpty() {
		t.Fatalf("store not empty after removing sole item")
	}
}

func TestAllowDuplicatesSuppressesError(t *testing.T) {
	s, err := New[user]("people", WithAllowDuplicates[user]())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	alice := user{ID: 1, Name: "alice"}
	if err := s.Add(alice); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(alice); err != nil {
		t.Fatalf("lenient duplicate Add error = %v, want nil", err)
	}
	if got := s.Len(); got != 1 {
		t.Fatalf("Len = %d, want 1: lenient mode must still deduplicate", got)
	}
}

func TestItemsReturnsClones(t *testing.T) {
	s, err := New[user]("people")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()
	if err := s.Add(user{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got := s.Items()
	got[0].Name = "mallory"
	if !s.Contains(user{ID: 1, Name: "alice"}) {
		t.Fatalf("mutating Items() result changed stored state")
	}
}

func TestCloseAutosavesWhenDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.db")
	s, err := New[user]("people", WithPath[user](path), WithAutosave[user]())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Add(user{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Close()

	loaded, err := Load[user, *user](context.Background(), "people", WithPath[user](path))
	if err != nil {
		t.Fatalf("Load after autosave: %v", err)
	}
	defer loaded.Close()
	if !loaded.Contains(user{ID: 1, Name: "alice"}) {
		t.Fatalf("autosaved item missing after reload")
	}
}

func TestCloseWithoutAutosaveLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.db")
	s, err := New[user]("people", WithPath[user](path))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Add(user{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Close()

	if _, err := Load[user, *user](context.Background(), "people", WithPath[user](path)); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("Load error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestCloseSwallowsAutosaveFailure(t *testing.T) {
	backend := &failingBackend{}
	logs := &captureLogger{}
	s, err := New[user]("people",
		WithAutosave[user](),
		WithBackend[user](backend),
		WithLogger[user](logs),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Add(user{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	s.Close() // must not panic and must not surface the save error

	if backend.saves != 1 {
		t.Fatalf("autosave attempts = %d, want 1", backend.saves)
	}
	if !logs.find("error", "autosave failed") {
		t.Fatalf("autosave failure was not logged: %+v", logs.events)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	backend := &failingBackend{}
	s, err := New[user]("people", WithAutosave[user](), WithBackend[user](backend))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Add(user{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s.Close()
	s.Close()
	if backend.saves != 1 {
		t.Fatalf("autosave attempts = %d across repeated Close, want 1", backend.saves)
	}
}

func TestCleanCloseSkipsAutosave(t *testing.T) {
	backend := &failingBackend{}
	s, err := New[user]("people", WithAutosave[user](), WithBackend[user](backend))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Close()
	if backend.saves != 0 {
		t.Fatalf("autosave ran on a store with no unsaved mutations")
	}
}

func TestDumpClearsDirtyFlag(t *testing.T) {
	s, err := New[user]("people", WithAutosave[user](), WithBackend[user](NewMemoryBackend()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Add(user{ID: 1, Name: "alice"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Dump(context.Background()); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if s.dirty {
		t.Fatalf("dirty flag still set after Dump")
	}
}

func TestOperationsRecordMetrics(t *testing.T) {
	metrics := &captureMetrics{}
	now := time.Unix(100, 0)
	clock := ClockFunc(func() time.Time {
		now = now.Add(time.Millisecond)
		return now
	})
	s, err := New[user]("people", WithMetrics[user](metrics), WithClock[user](clock))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	_ = s.Add(user{ID: 1, Name: "alice"})
	_ = s.Add(user{ID: 1, Name: "alice"})
	_ = s.Remove(user{ID: 2, Name: "bob"})

	adds := metrics.byOperation("add")
	if len(adds) != 2 || !adds[0].success || adds[1].success {
		t.Fatalf("add observations = %+v, want one success then one failure", adds)
	}
	for _, obs := range adds {
		if obs.duration <= 0 {
			t.Fatalf("add observation has non-positive duration: %+v", obs)
		}
	}
	removes := metrics.byOperation("remove")
	if len(removes) != 1 || removes[0].success {
		t.Fatalf("remove observations = %+v, want one failure", removes)
	}
}

func TestWithBackendBypassesEnvironment(t *testing.T) {
	withEnv(EnvStorageDriver, "postgres", func() {
		s, err := New[user]("people", WithBackend[user](NewMemoryBackend()))
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		defer s.Close()
		if err := s.Add(user{ID: 1, Name: "alice"}); err != nil {
			t.Fatalf("Add: %v", err)
		}
		if err := s.Dump(context.Background()); err != nil {
			t.Fatalf("Dump with pinned backend: %v", err)
		}
	})
}

var _ store.SnapshotStore = (*failingBackend)(nil)
