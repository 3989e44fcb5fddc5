// Package blob re-exports the archive store abstractions and provides the
// driver factory. Call sites depend on blob.Store instead of importing infra
// packages directly; an architecture test enforces the boundary.
package blob

import (
	"tinystore/internal/blob/core"
)

type (
	// Driver identifies an archive backend driver.
	Driver = core.Driver
	// PutOptions configures an archive write.
	PutOptions = core.PutOptions
	// Info describes stored archive metadata.
	Info = core.Info
	// Store is the interface for archive storage backends.
	Store = core.Store
)

const (
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
)

// ErrNotFound indicates the requested archive key does not exist.
var ErrNotFound = core.ErrNotFound
