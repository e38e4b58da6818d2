// Package core defines the key-value backing store contract implemented by
// every storage driver and consumed by the codec.
package core

import (
	"context"
	"errors"
)

// Driver identifies a concrete backing store implementation.
type Driver string

const (
	// DriverMemory is process memory only (tests, ephemeral runs).
	DriverMemory Driver = "memory"
	// DriverFilesystem stores one file per key under a root directory.
	DriverFilesystem Driver = "fs" // default, dev
	// DriverS3 stores one object per key in an S3 / MinIO bucket.
	DriverS3 Driver = "s3"
	// DriverSQLite stores keys as rows of an embedded sqlite database.
	DriverSQLite Driver = "sqlite"
	// DriverPostgres stores keys as rows of a PostgreSQL table.
	DriverPostgres Driver = "postgres"
)

// Entry is a single key/value write.
type Entry struct {
	Key   string
	Value string
}

// Store is a synchronous string-keyed persistent mapping. It has no
// transactions or locks; a single Set is the unit of atomicity.
type Store interface {
	// Get returns the value stored at key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Driver returns the configured backend driver.
	Driver() Driver
	// Close releases driver resources.
	Close() error
}

// Batcher is implemented by drivers able to apply several writes atomically:
// either every entry is stored or none is.
type Batcher interface {
	SetBatch(ctx context.Context, entries []Entry) error
}

var (
	// ErrQuotaExceeded is returned when a write would exceed the store capacity.
	ErrQuotaExceeded = errors.New("kv: quota exceeded")
	// ErrInvalidKey is returned for keys a driver cannot represent.
	ErrInvalidKey = errors.New("kv: invalid key")
)
