package s3

import (
	"context"
	"os"
	"testing"

	"gymledger/internal/kv/core"
)

func TestStore_MockedRoundTrip(t *testing.T) {
	store := NewMockForTests()
	ctx := context.Background()
	if _, ok, err := store.Get(ctx, "gym_products"); err != nil || ok {
		t.Fatalf("expected absent key, ok=%v err=%v", ok, err)
	}
	if err := store.Set(ctx, "gym_products", `[{"id":"p1"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Set(ctx, "gym_products", `[{"id":"p2"}]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := store.Get(ctx, "gym_products")
	if err != nil || !ok || v != `[{"id":"p2"}]` {
		t.Fatalf("get mismatch %q ok=%v err=%v", v, ok, err)
	}
	if err := store.Remove(ctx, "gym_products"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "gym_products"); ok {
		t.Fatalf("expected key removed")
	}
	if store.Driver() != core.DriverS3 || store.Close() != nil {
		t.Fatalf("unexpected driver metadata")
	}
}

func TestStore_PrefixAndWriteFailure(t *testing.T) {
	store, rt := newMock()
	store.prefix = "tenant-a/"
	ctx := context.Background()
	if err := store.Set(ctx, "gym_auth", `{"isAuthenticated":true}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok := rt.state["tenant-a/gym_auth"]; !ok {
		t.Fatalf("expected prefixed object key, got %v", rt.state)
	}
	rt.failPuts = true
	if err := store.Set(ctx, "gym_auth", `{}`); err == nil {
		t.Fatalf("expected put failure to propagate")
	}
	if v, _, _ := store.Get(ctx, "gym_auth"); v != `{"isAuthenticated":true}` {
		t.Fatalf("expected previous value retained, got %q", v)
	}
	if err := store.Set(ctx, " ", "x"); err == nil {
		t.Fatalf("expected invalid key error")
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestNew_WithEndpoint(t *testing.T) {
	_ = os.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	_ = os.Setenv("AWS_SECRET_ACCESS_KEY", "SECRET")
	defer func() {
		_ = os.Unsetenv("AWS_ACCESS_KEY_ID")
		_ = os.Unsetenv("AWS_SECRET_ACCESS_KEY")
	}()
	s, err := New(context.Background(), Config{Bucket: "bkt", Endpoint: "https://minio.local", PathStyle: true, Prefix: "gym/"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.bucket != "bkt" || s.prefix != "gym/" {
		t.Fatalf("unexpected store %+v", s)
	}
}
