package core

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gymledger/internal/infra/kv/fs"
	"gymledger/internal/infra/persistence/sqlite"
	"gymledger/internal/kv"
	"gymledger/pkg/domain"
)

func assertRestartRoundTrip(t *testing.T, open func() kv.Store) {
	t.Helper()
	ctx := context.Background()
	created := time.Date(2024, 2, 29, 23, 59, 58, 0, time.UTC)

	first := New(open(), WithClock(func() time.Time { return created.Add(time.Hour) }))
	if _, err := first.EnsureSeeded(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	saved, err := first.Members.Save(ctx, domain.Member{ID: "m1", Name: "Ana", Age: 30, Height: 170, Weight: 65, Courses: []string{"1"}, CreatedAt: created})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := first.RecordSale(ctx, "1", 2, "Ana"); err != nil {
		t.Fatalf("sale: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := New(open())
	defer func() { _ = second.Close() }()
	if seeded, err := second.EnsureSeeded(ctx); err != nil || seeded {
		t.Fatalf("reopened store must not reseed: %v %v", seeded, err)
	}
	members, err := second.Members.List(ctx)
	if err != nil || len(members) != 1 {
		t.Fatalf("reload: %+v %v", members, err)
	}
	got := members[0]
	if !got.CreatedAt.Equal(created) || !got.UpdatedAt.Equal(saved.UpdatedAt) {
		t.Fatalf("dates not preserved across restart: %+v vs %+v", got, saved)
	}
	if got.Courses[0] != "1" || got.Height != 170 {
		t.Fatalf("fields not preserved: %+v", got)
	}
	sales, _ := second.Sales.List(ctx)
	if len(sales) != 1 || sales[0].Quantity != 2 {
		t.Fatalf("sales not preserved: %+v", sales)
	}
}

func TestRestartRoundTripFilesystem(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	assertRestartRoundTrip(t, func() kv.Store {
		store, err := fs.New(root)
		if err != nil {
			t.Fatalf("open fs: %v", err)
		}
		return store
	})
}

func TestRestartRoundTripSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gym.db")
	probe, err := sqlite.NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	_ = probe.Close()
	assertRestartRoundTrip(t, func() kv.Store {
		store, err := sqlite.NewStore(path)
		if err != nil {
			t.Fatalf("open sqlite: %v", err)
		}
		return store
	})
}
