// Package core implements the gym ledger store: entity repositories over a
// key-value backing store, reference cleanup on delete, the sale transaction,
// the login flag and first-run seeding.
package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gymledger/internal/codec"
	"gymledger/internal/idgen"
	"gymledger/internal/kv"
	"gymledger/internal/logger"
	"gymledger/pkg/domain"
)

// DefaultKeyPrefix prefixes every key the store owns.
const DefaultKeyPrefix = "gym_"

// Keys names the backing store key of each collection.
type Keys struct {
	Members   string
	Courses   string
	DietPlans string
	Products  string
	Sales     string
	Auth      string
}

// KeysWithPrefix returns the key layout for prefix.
func KeysWithPrefix(prefix string) Keys {
	return Keys{
		Members:   prefix + "members",
		Courses:   prefix + "courses",
		DietPlans: prefix + "diet_plans",
		Products:  prefix + "products",
		Sales:     prefix + "sales",
		Auth:      prefix + "auth",
	}
}

// Collections returns the five entity collection keys.
func (k Keys) Collections() []string {
	return []string{k.Members, k.Courses, k.DietPlans, k.Products, k.Sales}
}

// All returns every key owned by the store.
func (k Keys) All() []string {
	return append(k.Collections(), k.Auth)
}

// Observer receives operation outcomes. metrics.Collector implements it.
type Observer interface {
	ObserveOperation(op, status string, d time.Duration)
	RecordSale(quantity int, total float64)
	RecordCorruptCollection(key string)
}

type noopObserver struct{}

func (noopObserver) ObserveOperation(string, string, time.Duration) {}
func (noopObserver) RecordSale(int, float64)                        {}
func (noopObserver) RecordCorruptCollection(string)                 {}

// Store is the gym ledger. Operations are serialized by an internal mutex;
// each one is a full read-modify-write of the collections it touches.
type Store struct {
	mu      sync.Mutex
	backing kv.Store
	codec   *codec.Codec
	keys    Keys
	nowFn   func() time.Time
	ids     idgen.Generator
	log     *slog.Logger
	obs     Observer
	catalog *Catalog

	Members   *MemberRepository
	Courses   *CourseRepository
	DietPlans *DietPlanRepository
	Products  *ProductRepository
	Sales     *SaleRepository
	Session   *SessionStore
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.nowFn = now
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithObserver sets the metrics observer.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.obs = o
		}
	}
}

// WithKeyPrefix changes the key prefix (default "gym_").
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) { s.keys = KeysWithPrefix(prefix) }
}

// WithIDGenerator sets the generator used for sale ids.
func WithIDGenerator(g idgen.Generator) Option {
	return func(s *Store) {
		if g != nil {
			s.ids = g
		}
	}
}

// WithCatalog replaces the embedded starter catalog used by EnsureSeeded.
func WithCatalog(c *Catalog) Option {
	return func(s *Store) { s.catalog = c }
}

// New returns a Store over backing.
func New(backing kv.Store, opts ...Option) *Store {
	s := &Store{
		backing: backing,
		keys:    KeysWithPrefix(DefaultKeyPrefix),
		nowFn:   func() time.Time { return time.Now().UTC() },
		ids:     idgen.NewTime(nil),
		log:     logger.Discard(),
		obs:     noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codec = codec.New(backing,
		codec.WithLogger(s.log),
		codec.WithCorruptHook(s.obs.RecordCorruptCollection),
	)
	s.Members = &MemberRepository{newCollection[domain.Member](s, domain.EntityMember, s.keys.Members, stampMember)}
	s.Courses = &CourseRepository{newCollection[domain.Course](s, domain.EntityCourse, s.keys.Courses, stampCourse)}
	s.DietPlans = &DietPlanRepository{newCollection[domain.DietPlan](s, domain.EntityDietPlan, s.keys.DietPlans, stampDietPlan)}
	s.Products = &ProductRepository{newCollection[domain.Product](s, domain.EntityProduct, s.keys.Products, stampProduct)}
	s.Sales = &SaleRepository{s: s, key: s.keys.Sales}
	s.Session = &SessionStore{s: s, key: s.keys.Auth}
	return s
}

// Keys returns the key layout in use.
func (s *Store) Keys() Keys { return s.keys }

// Close closes the backing store.
func (s *Store) Close() error { return s.backing.Close() }

// Reset removes every key owned by the store. The next EnsureSeeded call
// writes the starter data again.
func (s *Store) Reset(ctx context.Context) (err error) {
	defer s.observe("store.reset", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range s.keys.All() {
		if err := s.codec.Remove(ctx, key); err != nil {
			return err
		}
	}
	s.log.InfoContext(ctx, "store reset", slog.Int("keys", len(s.keys.All())))
	return nil
}

// now truncates to milliseconds so stored timestamps round-trip exactly.
func (s *Store) now() time.Time {
	return s.nowFn().UTC().Truncate(time.Millisecond)
}

func (s *Store) observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	s.obs.ObserveOperation(op, status(err), time.Since(start))
	if err != nil && domain.IsPersistence(err) {
		s.log.Error("persistence failure", slog.String("operation", op), slog.Any("error", err))
	}
}

func status(err error) string {
	var nf domain.NotFoundError
	var dup domain.DuplicateIDError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &nf):
		return "not_found"
	case domain.IsInsufficientStock(err):
		return "insufficient_stock"
	case errors.As(err, &dup):
		return "duplicate"
	case domain.IsValidation(err), errors.Is(err, domain.ErrMissingID):
		return "invalid"
	default:
		return "error"
	}
}
