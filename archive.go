package tinystore

import (
	"bytes"
	"context"
	"fmt"

	"tinystore/internal/snapcodec"
	"tinystore/pkg/blob"
	"tinystore/pkg/store"
)

// Archive writes the store's current snapshot to a blob store under key,
// independent of the configured snapshot backend. Blob writes are
// create-only, so archiving twice under one key fails.
func (s *Store[T]) Archive(ctx context.Context, dst blob.Store, key string) (blob.Info, error) {
	start := s.clock.Now()
	info, err := s.archive(ctx, dst, key)
	s.observe(ctx, "archive", start, err)
	if err != nil {
		return blob.Info{}, err
	}
	s.logger.Debug("snapshot archived", "store", s.name, "key", key, "driver", dst.Driver())
	return info, nil
}

func (s *Store[T]) archive(ctx context.Context, dst blob.Store, key string) (blob.Info, error) {
	snap, err := s.snapshot()
	if err != nil {
		return blob.Info{}, err
	}
	info, err := dst.Put(ctx, key, bytes.NewReader(snapcodec.Encode(snap)), blob.PutOptions{
		ContentType: "application/octet-stream",
		Metadata:    map[string]string{"store": s.name},
	})
	if err != nil {
		return blob.Info{}, fmt.Errorf("store %q: archive %q: %w", s.name, key, err)
	}
	return info, nil
}

// Unarchive reconstructs a store from an archived snapshot. The embedded
// snapshot name takes precedence over name, matching Load.
func Unarchive[T store.Item[T], PT store.ItemPtr[T]](ctx context.Context, src blob.Store, key, name string, opts ...Option[T]) (*Store[T], error) {
	s, err := New[T](name, opts...)
	if err != nil {
		return nil, err
	}
	_, rc, err := src.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("store %q: unarchive %q: %w", name, key, err)
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(rc); err != nil {
		return nil, fmt.Errorf("store %q: unarchive %q: read: %w", name, key, err)
	}
	snap, err := snapcodec.Decode(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("store %q: unarchive %q: %w", name, key, err)
	}
	if err := applySnapshot[T, PT](s, snap); err != nil {
		return nil, err
	}
	return s, nil
}
