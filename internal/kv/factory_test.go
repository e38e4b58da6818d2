package kv

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"gymledger/internal/infra/persistence/postgres"
	"gymledger/internal/infra/persistence/postgres/testutil"
)

func TestOpenSelectsDriver(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fsStore, err := Open(ctx, Options{FSRoot: filepath.Join(dir, "fs")})
	if err != nil {
		t.Fatalf("open default: %v", err)
	}
	if fsStore.Driver() != DriverFilesystem {
		t.Fatalf("expected fs default, got %s", fsStore.Driver())
	}

	mem, err := Open(ctx, Options{Driver: DriverMemory})
	if err != nil || mem.Driver() != DriverMemory {
		t.Fatalf("open memory: %v", err)
	}
	if _, ok := mem.(Batcher); !ok {
		t.Fatalf("memory driver should support batches")
	}
	if _, ok := fsStore.(Batcher); ok {
		t.Fatalf("fs driver should not advertise batches")
	}

	lite, err := Open(ctx, Options{Driver: DriverSQLite, SQLitePath: filepath.Join(dir, "db", "state.db")})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = lite.Close() }()
	if lite.Driver() != DriverSQLite {
		t.Fatalf("expected sqlite driver")
	}
}

func TestOpenPostgresAndS3(t *testing.T) {
	ctx := context.Background()
	db, _ := testutil.NewStubDB()
	restore := postgres.OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	pg, err := Open(ctx, Options{Driver: DriverPostgres, PostgresDSN: "postgres://stub"})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	defer func() { _ = pg.Close() }()
	if pg.Driver() != DriverPostgres {
		t.Fatalf("expected postgres driver")
	}

	if _, err := Open(ctx, Options{Driver: DriverS3}); err == nil {
		t.Fatalf("expected s3 without bucket to fail")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open(context.Background(), Options{Driver: "tape"}); err == nil {
		t.Fatalf("expected unknown driver error")
	}
}
