package kv

import (
	"context"
	"fmt"

	"gymledger/internal/infra/kv/fs"
	"gymledger/internal/infra/kv/memory"
	"gymledger/internal/infra/kv/s3"
	"gymledger/internal/infra/persistence/postgres"
	"gymledger/internal/infra/persistence/sqlite"
)

// S3Config configures the S3 driver.
type S3Config = s3.Config

// Options selects and configures a driver. Only the fields of the chosen
// driver are read.
type Options struct {
	Driver      Driver
	FSRoot      string
	SQLitePath  string
	PostgresDSN string
	S3          S3Config
}

// Open returns the Store for opts.Driver (default fs).
func Open(ctx context.Context, opts Options) (Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFilesystem
	}
	switch driver {
	case DriverFilesystem:
		return NewFilesystem(opts.FSRoot)
	case DriverMemory:
		return NewMemory(), nil
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverSQLite:
		return NewSQLite(opts.SQLitePath)
	case DriverPostgres:
		return NewPostgres(ctx, opts.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}

// NewMemory returns an in-memory store.
func NewMemory() *memory.Store { return memory.New() }

// NewFilesystem returns a store keeping one file per key under root.
func NewFilesystem(root string) (*fs.Store, error) { return fs.New(root) }

// NewS3 returns a store keeping one object per key in the configured bucket.
func NewS3(ctx context.Context, cfg S3Config) (*s3.Store, error) { return s3.New(ctx, cfg) }

// NewSQLite opens the sqlite database at path.
func NewSQLite(path string) (*sqlite.Store, error) { return sqlite.NewStore(path) }

// NewPostgres connects to dsn.
func NewPostgres(ctx context.Context, dsn string) (*postgres.Store, error) {
	return postgres.NewStore(ctx, dsn)
}
