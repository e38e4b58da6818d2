// Package kv re-exports the backing store abstractions and selects a driver
// from configuration.
package kv

import (
	"gymledger/internal/kv/core"
)

type (
	// Driver identifies a backing store driver.
	Driver = core.Driver
	// Entry is a single key/value write.
	Entry = core.Entry
	// Store is the interface for backing store drivers.
	Store = core.Store
	// Batcher is the optional atomic multi-key write capability.
	Batcher = core.Batcher
)

const (
	// DriverMemory is the in-memory test driver.
	DriverMemory = core.DriverMemory
	// DriverFilesystem is the local filesystem driver.
	DriverFilesystem = core.DriverFilesystem
	// DriverS3 is the S3-compatible driver.
	DriverS3 = core.DriverS3
	// DriverSQLite is the embedded sqlite driver.
	DriverSQLite = core.DriverSQLite
	// DriverPostgres is the PostgreSQL driver.
	DriverPostgres = core.DriverPostgres
)

var (
	// ErrQuotaExceeded indicates a write was rejected for capacity reasons.
	ErrQuotaExceeded = core.ErrQuotaExceeded
	// ErrInvalidKey indicates a key the driver cannot store.
	ErrInvalidKey = core.ErrInvalidKey
)
