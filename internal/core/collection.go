package core

import (
	"context"
	"log/slog"
	"time"

	"gymledger/internal/codec"
	"gymledger/internal/kv"
	"gymledger/pkg/domain"
)

// record is implemented by every editable entity.
type record interface {
	EntityID() string
	MatchesTerm(term string) bool
}

// stampFunc fills timestamps on next. prev is nil on insert.
type stampFunc[T record] func(next *T, prev *T, now time.Time) error

// collection is the shared repository behaviour of the editable entities.
// Unexported methods expect the caller to hold s.mu.
type collection[T record] struct {
	s      *Store
	entity domain.EntityType
	key    string
	stamp  stampFunc[T]
}

func newCollection[T record](s *Store, entity domain.EntityType, key string, stamp stampFunc[T]) *collection[T] {
	return &collection[T]{s: s, entity: entity, key: key, stamp: stamp}
}

func (c *collection[T]) op(name string) string { return string(c.entity) + "." + name }

// List returns the collection in insertion order.
func (c *collection[T]) List(ctx context.Context) (items []T, err error) {
	defer c.s.observe(c.op("list"), time.Now(), &err)
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	return c.load(ctx)
}

// Get returns the row with id or a domain.NotFoundError.
func (c *collection[T]) Get(ctx context.Context, id string) (item T, err error) {
	defer c.s.observe(c.op("get"), time.Now(), &err)
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	items, err := c.load(ctx)
	if err != nil {
		return item, err
	}
	idx := indexOf(items, id)
	if idx < 0 {
		return item, domain.NotFoundError{Entity: c.entity, ID: id}
	}
	return items[idx], nil
}

// Save inserts item when its id is unknown and replaces the stored row
// otherwise. The stored createdAt always survives an update.
func (c *collection[T]) Save(ctx context.Context, item T) (saved T, err error) {
	defer c.s.observe(c.op("save"), time.Now(), &err)
	if item.EntityID() == "" {
		return saved, domain.ErrMissingID
	}
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	items, err := c.load(ctx)
	if err != nil {
		return saved, err
	}
	if idx := indexOf(items, item.EntityID()); idx >= 0 {
		return c.update(ctx, items, idx, item)
	}
	return c.insert(ctx, items, item)
}

func (c *collection[T]) insert(ctx context.Context, items []T, item T) (T, error) {
	var zero T
	if err := c.stamp(&item, nil, c.s.now()); err != nil {
		return zero, err
	}
	if err := codec.SaveCollection(ctx, c.s.codec, c.key, append(items, item)); err != nil {
		return zero, err
	}
	c.s.log.DebugContext(ctx, "record saved",
		slog.String("entity", string(c.entity)),
		slog.String("id", item.EntityID()),
		slog.String("action", string(domain.ActionCreate)),
	)
	return item, nil
}

func (c *collection[T]) update(ctx context.Context, items []T, idx int, item T) (T, error) {
	var zero T
	prev := items[idx]
	if err := c.stamp(&item, &prev, c.s.now()); err != nil {
		return zero, err
	}
	next := make([]T, len(items))
	copy(next, items)
	next[idx] = item
	if err := codec.SaveCollection(ctx, c.s.codec, c.key, next); err != nil {
		return zero, err
	}
	c.s.log.DebugContext(ctx, "record saved",
		slog.String("entity", string(c.entity)),
		slog.String("id", item.EntityID()),
		slog.String("action", string(domain.ActionUpdate)),
	)
	return item, nil
}

// Search returns the rows matching term, ignoring case. An empty term matches everything.
func (c *collection[T]) Search(ctx context.Context, term string) (matches []T, err error) {
	defer c.s.observe(c.op("search"), time.Now(), &err)
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	items, err := c.load(ctx)
	if err != nil || term == "" {
		return items, err
	}
	matches = []T{}
	for _, item := range items {
		if item.MatchesTerm(term) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// remove drops id and writes the collection back. It reports whether a row matched.
func (c *collection[T]) remove(ctx context.Context, id string) (bool, error) {
	items, err := c.load(ctx)
	if err != nil {
		return false, err
	}
	remaining, ok := without(items, id)
	if !ok {
		return false, nil
	}
	if err := codec.SaveCollection(ctx, c.s.codec, c.key, remaining); err != nil {
		return false, err
	}
	c.s.log.InfoContext(ctx, "record deleted",
		slog.String("entity", string(c.entity)),
		slog.String("id", id),
		slog.String("action", string(domain.ActionDelete)),
	)
	return true, nil
}

func (c *collection[T]) load(ctx context.Context) ([]T, error) {
	return codec.LoadCollection[T](ctx, c.s.codec, c.key)
}

func (c *collection[T]) entry(items []T) (kv.Entry, error) {
	payload, err := codec.EncodeCollection(items)
	if err != nil {
		return kv.Entry{}, err
	}
	return kv.Entry{Key: c.key, Value: payload}, nil
}

func indexOf[T interface{ EntityID() string }](items []T, id string) int {
	for i, item := range items {
		if item.EntityID() == id {
			return i
		}
	}
	return -1
}

// without returns a copy of items minus the row with id.
func without[T interface{ EntityID() string }](items []T, id string) ([]T, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, false
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...), true
}
