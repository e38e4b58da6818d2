package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gymledger/internal/kv"
	"gymledger/pkg/domain"
)

func TestDefaultCatalogParses(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	if len(c.Courses) == 0 || len(c.DietPlans) == 0 || len(c.Products) == 0 {
		t.Fatalf("expected starter rows in every catalog section: %+v", c)
	}
}

func TestEnsureSeededIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)
	seeded, err := s.EnsureSeeded(ctx)
	if err != nil || !seeded {
		t.Fatalf("first seed: %v %v", seeded, err)
	}
	snapshot := map[string]string{}
	for _, key := range s.Keys().Collections() {
		v, ok, _ := backing.Get(ctx, key)
		if !ok {
			t.Fatalf("expected %s to be written", key)
		}
		snapshot[key] = v
	}
	if snapshot["gym_members"] != "[]" || snapshot["gym_sales"] != "[]" {
		t.Fatalf("members and sales should start empty: %v", snapshot)
	}
	seeded, err = s.EnsureSeeded(ctx)
	if err != nil || seeded {
		t.Fatalf("second seed should be a no-op: %v %v", seeded, err)
	}
	for key, before := range snapshot {
		if v, _, _ := backing.Get(ctx, key); v != before {
			t.Fatalf("%s changed on second seed", key)
		}
	}
	products, _ := s.Products.List(ctx)
	catalog, _ := DefaultCatalog()
	if len(products) != len(catalog.Products) || products[0].CreatedAt.IsZero() || products[0].UpdatedAt.IsZero() {
		t.Fatalf("unexpected seeded products %+v", products)
	}
}

func TestEnsureSeededOnlyFillsAbsentKeys(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)
	if _, err := s.Courses.Save(ctx, domain.Course{ID: "mine", Name: "Custom"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_ = backing.Set(ctx, "gym_products", "[]")
	seeded, err := s.EnsureSeeded(ctx)
	if err != nil || !seeded {
		t.Fatalf("seed: %v %v", seeded, err)
	}
	courses, _ := s.Courses.List(ctx)
	if len(courses) != 1 || courses[0].ID != "mine" {
		t.Fatalf("existing courses must be kept, got %+v", courses)
	}
	if products, _ := s.Products.List(ctx); len(products) != 0 {
		t.Fatalf("an existing empty collection must stay empty, got %+v", products)
	}
	if plans, _ := s.DietPlans.List(ctx); len(plans) == 0 {
		t.Fatalf("absent diet plans should be seeded")
	}
}

func TestEnsureSeededWithCustomCatalog(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := "courses:\n  - id: k1\n    name: Kettlebells\nproducts:\n  - id: t1\n    name: Towel\n    quantity: 5\n    price: 7.5\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	catalog, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	s, _ := newTestStore(t, WithCatalog(catalog))
	if _, err := s.EnsureSeeded(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	courses, _ := s.Courses.List(ctx)
	if len(courses) != 1 || courses[0].Name != "Kettlebells" {
		t.Fatalf("unexpected courses %+v", courses)
	}
	products, _ := s.Products.List(ctx)
	if len(products) != 1 || products[0].Price != 7.5 || products[0].Quantity != 5 {
		t.Fatalf("unexpected products %+v", products)
	}
	if plans, _ := s.DietPlans.List(ctx); len(plans) != 0 {
		t.Fatalf("expected no diet plans, got %+v", plans)
	}
}

func TestParseCatalogRejectsBadData(t *testing.T) {
	cases := map[string]string{
		"syntax":       "courses: [",
		"missing id":   "courses:\n  - name: Yoga\n",
		"duplicate id": "diet_plans:\n  - id: d\n    name: A\n  - id: d\n    name: B\n",
		"bad price":    "products:\n  - id: p\n    name: Bar\n    quantity: 1\n    price: 0\n",
	}
	for name, data := range cases {
		if _, err := ParseCatalog([]byte(data)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
	if _, err := ParseCatalog([]byte("courses:\n  - name: Yoga\n")); !errors.Is(err, domain.ErrMissingID) {
		t.Fatalf("missing id should wrap ErrMissingID, got %v", err)
	}
	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "none.yaml")); err == nil || !strings.Contains(err.Error(), "read catalog") {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestEnsureSeededFailureWritesNothing(t *testing.T) {
	ctx := context.Background()
	s, backing := newTestStore(t)
	backing.FailWrites(func(key string) error {
		if key == "gym_sales" {
			return kv.ErrQuotaExceeded
		}
		return nil
	})
	if _, err := s.EnsureSeeded(ctx); !domain.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if keys := backing.Keys("gym_"); len(keys) != 0 {
		t.Fatalf("failed seed must not leave keys, got %v", keys)
	}
}
