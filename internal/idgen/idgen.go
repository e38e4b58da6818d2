// Package idgen produces record identifiers.
package idgen

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator returns a fresh identifier on each call.
type Generator interface {
	NewID() string
}

// Strategy names a Generator implementation.
type Strategy string

// Supported strategies.
const (
	StrategyTime Strategy = "time"
	StrategyUUID Strategy = "uuid"
)

// New returns the generator for strategy (default time).
func New(strategy Strategy) (Generator, error) {
	switch strategy {
	case "", StrategyTime:
		return NewTime(nil), nil
	case StrategyUUID:
		return UUID{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}

// Time issues decimal millisecond timestamps. When two calls land in the same
// millisecond the later one is bumped past the previous id, so ids stay unique
// and increasing within a process.
type Time struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewTime returns a Time generator reading now (time.Now when nil).
func NewTime(now func() time.Time) *Time {
	if now == nil {
		now = time.Now
	}
	return &Time{now: now}
}

// NewID implements Generator.
func (g *Time) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// UUID issues random version 4 UUIDs.
type UUID struct{}

// NewID implements Generator.
func (UUID) NewID() string { return uuid.NewString() }

// Func adapts a function to Generator.
type Func func() string

// NewID implements Generator.
func (f Func) NewID() string { return f() }
