// Package memory implements an in-memory key-value Store for tests and
// ephemeral runs, with an optional byte quota and write failure injection.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"gymledger/internal/kv/core"
)

// Store implements core.Store and core.Batcher backed by process memory.
type Store struct {
	mu       sync.RWMutex
	objs     map[string]string
	quota    int
	failSet  func(key string) error
	setCalls int
}

// Option configures a memory store.
type Option func(*Store)

// WithQuota limits the total stored bytes (keys plus values), mirroring the
// capacity limit of browser local storage. Zero disables the limit.
func WithQuota(bytes int) Option {
	return func(s *Store) { s.quota = bytes }
}

// New returns an empty in-memory store.
func New(opts ...Option) *Store {
	s := &Store{objs: make(map[string]string)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Driver returns the driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverMemory }

// Close is a no-op.
func (s *Store) Close() error { return nil }

// FailWrites installs fn as a write hook: a non-nil error returned for a key
// rejects that write. Passing nil clears the hook.
func (s *Store) FailWrites(fn func(key string) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSet = fn
}

// SetCalls reports how many single or batched writes were attempted.
func (s *Store) SetCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.setCalls
}

// Get returns the value at key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.objs[key]
	return v, ok, nil
}

// Set stores value at key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	if err := s.checkWrite(key); err != nil {
		return err
	}
	if s.quota > 0 && s.sizeWith(map[string]string{key: value}) > s.quota {
		return core.ErrQuotaExceeded
	}
	s.objs[key] = value
	return nil
}

// SetBatch stores every entry or none.
func (s *Store) SetBatch(_ context.Context, entries []core.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setCalls++
	pending := make(map[string]string, len(entries))
	for _, e := range entries {
		if err := s.checkWrite(e.Key); err != nil {
			return err
		}
		pending[e.Key] = e.Value
	}
	if s.quota > 0 && s.sizeWith(pending) > s.quota {
		return core.ErrQuotaExceeded
	}
	for k, v := range pending {
		s.objs[k] = v
	}
	return nil
}

// Remove deletes key.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objs, key)
	return nil
}

// Keys returns the stored keys with the given prefix in ascending order.
func (s *Store) Keys(prefix string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.objs))
	for k := range s.objs {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func (s *Store) checkWrite(key string) error {
	if key == "" {
		return core.ErrInvalidKey
	}
	if s.failSet != nil {
		return s.failSet(key)
	}
	return nil
}

// sizeWith returns the store size after applying pending writes. Callers hold mu.
func (s *Store) sizeWith(pending map[string]string) int {
	total := 0
	for k, v := range s.objs {
		if _, replaced := pending[k]; replaced {
			continue
		}
		total += len(k) + len(v)
	}
	for k, v := range pending {
		total += len(k) + len(v)
	}
	return total
}
