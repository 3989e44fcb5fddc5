package blob

import (
	"context"
	"fmt"
	"os"

	"tinystore/internal/infra/blob/fs"
	"tinystore/internal/infra/blob/memory"
	"tinystore/internal/infra/blob/s3"
)

// Open selects a blob.Store implementation using environment variables.
//
//	TINYSTORE_BLOB_DRIVER: fs|s3|memory (default fs)
//	TINYSTORE_BLOB_FS_ROOT: directory root when driver=fs (default ./archives)
//	(S3 specific variables documented in the s3 driver)
func Open(ctx context.Context) (Store, error) {
	driver := os.Getenv("TINYSTORE_BLOB_DRIVER")
	if driver == "" {
		driver = string(DriverFilesystem)
	}
	switch Driver(driver) {
	case DriverFilesystem:
		return NewFilesystem(os.Getenv("TINYSTORE_BLOB_FS_ROOT"))
	case DriverS3:
		return s3.OpenFromEnv(ctx)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown blob driver %s", driver)
	}
}

// NewFilesystem constructs a filesystem-backed archive store rooted at the
// provided path. Returns Store to keep call sites on the interface.
func NewFilesystem(root string) (Store, error) {
	return fs.New(root)
}

// NewMemory constructs an in-memory archive store, typically for tests.
func NewMemory() Store {
	return memory.New()
}
