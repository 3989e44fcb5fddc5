package tinystore

import (
	"fmt"
	"os"
	"strings"

	"tinystore/internal/infra/persistence/file"
	"tinystore/internal/infra/persistence/memory"
	"tinystore/internal/infra/persistence/postgres"
	"tinystore/internal/infra/persistence/sqlite"
	"tinystore/pkg/store"
)

// StorageDriver identifies a snapshot backend implementation.
type StorageDriver string

const (
	// StorageDriverFile persists one snapshot file per store.
	StorageDriverFile StorageDriver = "file"
	// StorageDriverSQLite persists snapshots in a shared sqlite database.
	StorageDriverSQLite StorageDriver = "sqlite"
	// StorageDriverPostgres persists snapshots in PostgreSQL.
	StorageDriverPostgres StorageDriver = "postgres"
	// StorageDriverMemory keeps the snapshot in process memory, for tests.
	StorageDriverMemory StorageDriver = "memory"
)

// Environment variables consumed by OpenSnapshotStore.
const (
	EnvStorageDriver = "TINYSTORE_STORAGE_DRIVER"
	EnvSQLitePath    = "TINYSTORE_SQLITE_PATH"
	EnvPostgresDSN   = "TINYSTORE_POSTGRES_DSN"
)

// OpenSnapshotStore resolves a snapshot backend for the named store from the
// environment. The driver defaults to file; pathOverride, when non-empty,
// replaces the file driver's default "<name>.db" path.
func OpenSnapshotStore(name, pathOverride string) (store.SnapshotStore, error) {
	driver := StorageDriver(strings.ToLower(strings.TrimSpace(os.Getenv(EnvStorageDriver))))
	if driver == "" {
		driver = StorageDriverFile
	}
	switch driver {
	case StorageDriverFile:
		path := pathOverride
		if path == "" {
			path = store.DefaultPath(name)
		}
		return file.New(path)
	case StorageDriverSQLite:
		return sqlite.New(os.Getenv(EnvSQLitePath), name)
	case StorageDriverPostgres:
		return postgres.New(os.Getenv(EnvPostgresDSN), name)
	case StorageDriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// NewFileBackend returns a file snapshot backend rooted at path.
func NewFileBackend(path string) (store.SnapshotStore, error) { return file.New(path) }

// NewSQLiteBackend returns a sqlite snapshot backend for the named store.
func NewSQLiteBackend(path, name string) (store.SnapshotStore, error) {
	return sqlite.New(path, name)
}

// NewPostgresBackend returns a PostgreSQL snapshot backend for the named store.
func NewPostgresBackend(dsn, name string) (store.SnapshotStore, error) {
	return postgres.New(dsn, name)
}

// NewMemoryBackend returns an in-process snapshot backend.
func NewMemoryBackend() store.SnapshotStore { return memory.New() }
