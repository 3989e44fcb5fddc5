package blob

import (
	"context"
	"testing"
)

func TestOpenDefaultsToFilesystem(t *testing.T) {
	t.Setenv("TINYSTORE_BLOB_DRIVER", "")
	t.Setenv("TINYSTORE_BLOB_FS_ROOT", t.TempDir())
	s, err := Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Driver() != DriverFilesystem {
		t.Fatalf("Driver = %q, want fs", s.Driver())
	}
}

func TestOpenMemoryDriver(t *testing.T) {
	t.Setenv("TINYSTORE_BLOB_DRIVER", "memory")
	s, err := Open(context.Background())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Driver() != DriverMemory {
		t.Fatalf("Driver = %q, want memory", s.Driver())
	}
}

func TestOpenS3RequiresBucket(t *testing.T) {
	t.Setenv("TINYSTORE_BLOB_DRIVER", "s3")
	t.Setenv("TINYSTORE_BLOB_S3_BUCKET", "")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected error for s3 driver without bucket")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	t.Setenv("TINYSTORE_BLOB_DRIVER", "tape")
	if _, err := Open(context.Background()); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
