package memory

import (
	"context"
	"testing"

	"tinystore/pkg/store"
)

func TestLoadBeforeSave(t *testing.T) {
	s := New()
	_, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if ok {
		t.Fatalf("Load reported a snapshot before any Save")
	}
}

func TestSaveLoadIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	snap := store.Snapshot{Name: "people", Items: [][]byte{[]byte("alice")}}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Mutating the caller's copy must not touch the stored snapshot.
	snap.Items[0][0] = 'X'

	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if string(got.Items[0]) != "alice" {
		t.Fatalf("stored snapshot aliased caller memory: %q", got.Items[0])
	}

	// And mutating a loaded copy must not touch it either.
	got.Items[0][0] = 'Y'
	again, _, _ := s.Load(ctx)
	if string(again.Items[0]) != "alice" {
		t.Fatalf("loaded snapshot aliased stored memory: %q", again.Items[0])
	}
}

func TestSaveReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.Save(ctx, store.Snapshot{Name: "a", Items: [][]byte{[]byte("1")}})
	_ = s.Save(ctx, store.Snapshot{Name: "a", Items: [][]byte{[]byte("2"), []byte("3")}})
	got, ok, err := s.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load: ok=%v err=%v", ok, err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("Items = %d, want the replacing snapshot", len(got.Items))
	}
}
