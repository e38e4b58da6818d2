package domain

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned when a record reaches the store without an id.
// Ids are assigned by the caller before Save.
var ErrMissingID = errors.New("record id is required")

// NotFoundError is returned when an operation references a missing id.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}

// InsufficientStockError is returned when a sale asks for a non-positive
// quantity or more units than the product holds.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	if e.Requested <= 0 {
		return fmt.Sprintf("product %q: sale quantity must be positive, got %d", e.ProductID, e.Requested)
	}
	return fmt.Sprintf("product %q: insufficient stock, requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// DuplicateIDError is returned when an append-only collection already holds
// a row with the same id.
type DuplicateIDError struct {
	Entity EntityType
	ID     string
}

func (e DuplicateIDError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Entity, e.ID)
}

// ValidationError is returned when a field holds a value the store refuses
// to persist.
type ValidationError struct {
	Entity EntityType
	ID     string
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %q: %s %s", e.Entity, e.ID, e.Field, e.Reason)
}

// PersistenceError wraps a backing store failure. The underlying driver error
// is preserved for errors.Is / errors.As.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsNotFound reports whether err carries a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// IsInsufficientStock reports whether err carries an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var is InsufficientStockError
	return errors.As(err, &is)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

// IsPersistence reports whether err carries a PersistenceError.
func IsPersistence(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
