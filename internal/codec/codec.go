// Package codec stores whole entity collections as JSON strings in a kv.Store.
//
// A collection that is missing or fails to decode reads as empty. Writes that
// fail surface as *domain.PersistenceError.
package codec

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gymledger/internal/kv"
	"gymledger/internal/logger"
	"gymledger/pkg/domain"
)

// Codec reads and writes collections through a backing store.
type Codec struct {
	store     kv.Store
	log       *slog.Logger
	onCorrupt func(key string)
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for corrupt payload and rollback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.log = l
		}
	}
}

// WithCorruptHook registers fn to be called with the key of every payload
// that failed to decode.
func WithCorruptHook(fn func(key string)) Option {
	return func(c *Codec) { c.onCorrupt = fn }
}

// New wraps store.
func New(store kv.Store, opts ...Option) *Codec {
	c := &Codec{store: store, log: logger.Discard(), onCorrupt: func(string) {}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Store returns the backing store.
func (c *Codec) Store() kv.Store { return c.store }

// LoadCollection decodes the JSON array stored at key. Absent keys and
// undecodable payloads yield an empty, non-nil slice.
func LoadCollection[T any](ctx context.Context, c *Codec, key string) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "get", Key: key, Err: err}
	}
	items := []T{}
	if !ok || strings.TrimSpace(raw) == "" {
		return items, nil
	}
	var decoded []T
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		c.corrupt(ctx, key, err)
		return items, nil
	}
	if decoded == nil {
		return items, nil
	}
	return decoded, nil
}

// EncodeCollection renders items as a JSON array. A nil slice encodes as [].
func EncodeCollection[T any](items []T) (string, error) {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode collection: %w", err)
	}
	return string(b), nil
}

// SaveCollection replaces the collection stored at key.
func SaveCollection[T any](ctx context.Context, c *Codec, key string, items []T) error {
	payload, err := EncodeCollection(items)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, key, payload); err != nil {
		return &domain.PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// LoadRecord decodes the single JSON object stored at key. ok is false when
// the key is absent or the payload is corrupt.
func LoadRecord[T any](ctx context.Context, c *Codec, key string) (T, bool, error) {
	var zero T
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return zero, false, &domain.PersistenceError{Op: "get", Key: key, Err: err}
	}
	if !ok {
		return zero, false, nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		c.corrupt(ctx, key, err)
		return zero, false, nil
	}
	return v, true, nil
}

// SaveRecord stores v as a JSON object at key.
func SaveRecord[T any](ctx context.Context, c *Codec, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err := c.store.Set(ctx, key, string(b)); err != nil {
		return &domain.PersistenceError{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Has reports whether key holds a value.
func (c *Codec) Has(ctx context.Context, key string) (bool, error) {
	_, ok, err := c.store.Get(ctx, key)
	if err != nil {
		return false, &domain.PersistenceError{Op: "get", Key: key, Err: err}
	}
	return ok, nil
}

// Remove deletes key.
func (c *Codec) Remove(ctx context.Context, key string) error {
	if err := c.store.Remove(ctx, key); err != nil {
		return &domain.PersistenceError{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// Commit writes several keys as one unit. Batch-capable stores apply the
// entries atomically. Other stores are written in order; when a write fails
// the keys already written are put back to their previous values.
func (c *Codec) Commit(ctx context.Context, entries []kv.Entry) error {
	if len(entries) == 0 {
		return nil
	}
	if b, ok := c.store.(kv.Batcher); ok {
		if err := b.SetBatch(ctx, entries); err != nil {
			return &domain.PersistenceError{Op: "commit", Key: joinKeys(entries), Err: err}
		}
		return nil
	}

	type prior struct {
		value string
		ok    bool
	}
	previous := make([]prior, len(entries))
	for i, e := range entries {
		v, ok, err := c.store.Get(ctx, e.Key)
		if err != nil {
			return &domain.PersistenceError{Op: "get", Key: e.Key, Err: err}
		}
		previous[i] = prior{value: v, ok: ok}
	}
	for i, e := range entries {
		if err := c.store.Set(ctx, e.Key, e.Value); err != nil {
			for j := i - 1; j >= 0; j-- {
				c.restore(ctx, entries[j].Key, previous[j].value, previous[j].ok)
			}
			return &domain.PersistenceError{Op: "set", Key: e.Key, Err: err}
		}
	}
	return nil
}

func (c *Codec) restore(ctx context.Context, key, value string, existed bool) {
	var err error
	if existed {
		err = c.store.Set(ctx, key, value)
	} else {
		err = c.store.Remove(ctx, key)
	}
	if err != nil {
		c.log.ErrorContext(ctx, "rollback failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (c *Codec) corrupt(ctx context.Context, key string, err error) {
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	kind := "invalid"
	switch {
	case errors.As(err, &syntax):
		kind = "syntax"
	case errors.As(err, &typeErr):
		kind = "type"
	}
	c.log.WarnContext(ctx, "corrupt collection read as empty",
		slog.String("key", key),
		slog.String("kind", kind),
		slog.Any("error", err),
	)
	c.onCorrupt(key)
}

func joinKeys(entries []kv.Entry) string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	return strings.Join(keys, ",")
}
