package core

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"gymledger/internal/codec"
	"gymledger/internal/kv"
	"gymledger/pkg/domain"
)

//go:embed seed.yaml
var embeddedCatalog []byte

// Catalog is the starter data written by EnsureSeeded.
type Catalog struct {
	Courses   []CatalogEntry   `yaml:"courses"`
	DietPlans []CatalogEntry   `yaml:"diet_plans"`
	Products  []CatalogProduct `yaml:"products"`
}

// CatalogEntry seeds a course or diet plan.
type CatalogEntry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// CatalogProduct seeds an inventory product.
type CatalogProduct struct {
	ID       string  `yaml:"id"`
	Name     string  `yaml:"name"`
	Quantity int     `yaml:"quantity"`
	Price    float64 `yaml:"price"`
}

// DefaultCatalog returns the embedded starter catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(embeddedCatalog)
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes YAML catalog data and checks that ids are present and unique.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	check := func(kind string, ids []string) error {
		seen := make(map[string]bool, len(ids))
		for _, id := range ids {
			if id == "" {
				return fmt.Errorf("catalog %s: %w", kind, domain.ErrMissingID)
			}
			if seen[id] {
				return fmt.Errorf("catalog %s: duplicate id %q", kind, id)
			}
			seen[id] = true
		}
		return nil
	}
	ids := func(entries []CatalogEntry) []string {
		out := make([]string, len(entries))
		for i, e := range entries {
			out[i] = e.ID
		}
		return out
	}
	productIDs := make([]string, len(c.Products))
	for i, p := range c.Products {
		productIDs[i] = p.ID
		if p.Quantity < 0 || p.Price <= 0 {
			return fmt.Errorf("catalog product %q: quantity must be >= 0 and price > 0", p.ID)
		}
	}
	if err := check("courses", ids(c.Courses)); err != nil {
		return err
	}
	if err := check("diet_plans", ids(c.DietPlans)); err != nil {
		return err
	}
	return check("products", productIDs)
}

// EnsureSeeded writes starter rows for every collection key that is absent.
// Existing keys are left alone, so repeated calls are no-ops. It reports
// whether anything was written.
func (s *Store) EnsureSeeded(ctx context.Context) (seeded bool, err error) {
	defer s.observe("store.seed", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	catalog := s.catalog
	if catalog == nil {
		if catalog, err = DefaultCatalog(); err != nil {
			return false, err
		}
	}
	now := s.now()
	starters := map[string]func() (string, error){
		s.keys.Members:   func() (string, error) { return codec.EncodeCollection([]domain.Member{}) },
		s.keys.Courses:   func() (string, error) { return codec.EncodeCollection(catalog.courses(now)) },
		s.keys.DietPlans: func() (string, error) { return codec.EncodeCollection(catalog.dietPlans(now)) },
		s.keys.Products:  func() (string, error) { return codec.EncodeCollection(catalog.products(now)) },
		s.keys.Sales:     func() (string, error) { return codec.EncodeCollection([]domain.Sale{}) },
	}

	var entries []kv.Entry
	for _, key := range s.keys.Collections() {
		present, err := s.codec.Has(ctx, key)
		if err != nil {
			return false, err
		}
		if present {
			continue
		}
		payload, err := starters[key]()
		if err != nil {
			return false, err
		}
		entries = append(entries, kv.Entry{Key: key, Value: payload})
	}
	if len(entries) == 0 {
		return false, nil
	}
	if err := s.codec.Commit(ctx, entries); err != nil {
		return false, err
	}
	written := make([]string, len(entries))
	for i, e := range entries {
		written[i] = e.Key
	}
	s.log.InfoContext(ctx, "seeded starter data", slog.Any("keys", written))
	return true, nil
}

func (c *Catalog) courses(now time.Time) []domain.Course {
	out := make([]domain.Course, len(c.Courses))
	for i, e := range c.Courses {
		out[i] = domain.Course{ID: e.ID, Name: e.Name, Description: e.Description, CreatedAt: now}
	}
	return out
}

func (c *Catalog) dietPlans(now time.Time) []domain.DietPlan {
	out := make([]domain.DietPlan, len(c.DietPlans))
	for i, e := range c.DietPlans {
		out[i] = domain.DietPlan{ID: e.ID, Name: e.Name, Description: e.Description, CreatedAt: now}
	}
	return out
}

func (c *Catalog) products(now time.Time) []domain.Product {
	out := make([]domain.Product, len(c.Products))
	for i, p := range c.Products {
		out[i] = domain.Product{ID: p.ID, Name: p.Name, Quantity: p.Quantity, Price: p.Price, CreatedAt: now, UpdatedAt: now}
	}
	return out
}
