// Package fs implements the archive store on the local filesystem.
package fs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"tinystore/internal/blob/core"
)

// errBadKey rejects keys that are empty or would escape the root.
var errBadKey = errors.New("invalid archive key")

// Store implements core.Store using the local filesystem. A key maps to a
// relative file path under the root, plus a JSON sidecar (the same path with
// ".meta" appended) carrying content type, user metadata, and the sha256
// etag. Writes are create-only and land via temp file + rename, matching the
// immutability contract.
type Store struct {
	root string
}

// New returns a filesystem-backed archive store rooted at path, creating the
// root if needed.
func New(root string) (*Store, error) {
	if root == "" {
		root = "./archives"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

// Driver identifies the backend.
func (s *Store) Driver() core.Driver { return core.DriverFilesystem }

// normalizeKey resolves a key to a clean relative slash path, refusing
// anything empty, absolute, or traversing above the root.
func normalizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("%w: empty", errBadKey)
	}
	clean := path.Clean(filepath.ToSlash(key))
	if clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", fmt.Errorf("%w: %q escapes the root", errBadKey, key)
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q contains '..'", errBadKey, key)
	}
	return clean, nil
}

func (s *Store) objectPath(key string) string { return filepath.Join(s.root, filepath.FromSlash(key)) }

func (s *Store) sidecarPath(key string) string { return s.objectPath(key) + ".meta" }

// sidecar is the on-disk metadata record kept next to each archive.
type sidecar struct {
	ContentType string            `json:"content_type,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	ETag        string            `json:"etag"`
	Size        int64             `json:"size"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (sc sidecar) info(key string) core.Info {
	return core.Info{
		Key:          key,
		Size:         sc.Size,
		ContentType:  sc.ContentType,
		ETag:         sc.ETag,
		Metadata:     core.CloneMetadata(sc.Metadata),
		LastModified: sc.CreatedAt,
	}
}

// Put streams a new archive to disk, computing size and sha256 along the way.
func (s *Store) Put(_ context.Context, key string, r io.Reader, opts core.PutOptions) (core.Info, error) {
	k, err := normalizeKey(key)
	if err != nil {
		return core.Info{}, err
	}
	dst := s.objectPath(k)
	if _, err := os.Stat(dst); err == nil {
		return core.Info{}, fmt.Errorf("archive %s already exists", key)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return core.Info{}, err
	}

	size, etag, err := s.stageAndRename(dst, r)
	if err != nil {
		return core.Info{}, err
	}

	sc := sidecar{
		ContentType: opts.ContentType,
		Metadata:    core.CloneMetadata(opts.Metadata),
		ETag:        etag,
		Size:        size,
		CreatedAt:   time.Now().UTC(),
	}
	raw, err := json.Marshal(sc)
	if err != nil {
		return core.Info{}, err
	}
	if err := os.WriteFile(s.sidecarPath(k), raw, 0o644); err != nil {
		return core.Info{}, err
	}
	return sc.info(key), nil
}

// stageAndRename copies r into a temp file beside dst, syncs it, and moves it
// into place, returning the byte count and hex sha256.
func (s *Store) stageAndRename(dst string, r io.Reader) (int64, string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".stage-*")
	if err != nil {
		return 0, "", err
	}
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}()

	digest := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, digest), r)
	if err != nil {
		return 0, "", err
	}
	if err := tmp.Sync(); err != nil {
		return 0, "", err
	}
	if err := tmp.Close(); err != nil {
		return 0, "", err
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(digest.Sum(nil)), nil
}

// Get opens an archive for reading alongside its metadata.
func (s *Store) Get(_ context.Context, key string) (core.Info, io.ReadCloser, error) {
	k, err := normalizeKey(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	file, err := os.Open(s.objectPath(k))
	if errors.Is(err, fs.ErrNotExist) {
		return core.Info{}, nil, fmt.Errorf("archive %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, nil, err
	}
	sc, err := s.readSidecar(k)
	if err != nil {
		_ = file.Close()
		return core.Info{}, nil, err
	}
	return sc.info(key), file, nil
}

// Head returns archive metadata only.
func (s *Store) Head(_ context.Context, key string) (core.Info, error) {
	k, err := normalizeKey(key)
	if err != nil {
		return core.Info{}, err
	}
	sc, err := s.readSidecar(k)
	if errors.Is(err, fs.ErrNotExist) {
		return core.Info{}, fmt.Errorf("archive %s: %w", key, core.ErrNotFound)
	}
	if err != nil {
		return core.Info{}, err
	}
	return sc.info(key), nil
}

// Delete removes the archive and its sidecar; returns true if it existed.
func (s *Store) Delete(_ context.Context, key string) (bool, error) {
	k, err := normalizeKey(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(s.objectPath(k)); errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err := os.Remove(s.objectPath(k)); err != nil {
		return false, err
	}
	_ = os.Remove(s.sidecarPath(k))
	return true, nil
}

// List collects archives whose keys start with prefix, sorted by key. It
// walks for sidecars first and reads them in key order.
func (s *Store) List(_ context.Context, prefix string) ([]core.Info, error) {
	var keys []string
	walk := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".meta") {
			return nil
		}
		rel, err := filepath.Rel(s.root, strings.TrimSuffix(p, ".meta"))
		if err != nil {
			return err
		}
		if key := filepath.ToSlash(rel); prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return nil
	}
	if err := filepath.WalkDir(s.root, walk); err != nil {
		return nil, err
	}
	sort.Strings(keys)

	infos := make([]core.Info, 0, len(keys))
	for _, key := range keys {
		sc, err := s.readSidecar(key)
		if err != nil {
			return nil, err
		}
		infos = append(infos, sc.info(key))
	}
	return infos, nil
}

func (s *Store) readSidecar(key string) (sidecar, error) {
	raw, err := os.ReadFile(s.sidecarPath(key))
	if err != nil {
		return sidecar{}, err
	}
	var sc sidecar
	if err := json.Unmarshal(raw, &sc); err != nil {
		return sidecar{}, err
	}
	return sc, nil
}
