package core

import (
	"context"
	"time"

	"gymledger/pkg/domain"
)

// ProductRepository stores inventory products. Stock only goes down through
// Store.RecordSale.
type ProductRepository struct {
	*collection[domain.Product]
}

// Remove deletes the product. Recorded sales keep their snapshot of it.
func (r *ProductRepository) Remove(ctx context.Context, id string) (removed bool, err error) {
	defer r.s.observe("product.remove", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.remove(ctx, id)
}

func stampProduct(next, prev *domain.Product, now time.Time) error {
	if next.Quantity < 0 {
		return domain.ValidationError{Entity: domain.EntityProduct, ID: next.ID, Field: "quantity", Reason: "must not be negative"}
	}
	if next.Price <= 0 {
		return domain.ValidationError{Entity: domain.EntityProduct, ID: next.ID, Field: "price", Reason: "must be positive"}
	}
	switch {
	case prev != nil:
		next.CreatedAt = prev.CreatedAt
	case next.CreatedAt.IsZero():
		next.CreatedAt = now
	}
	next.UpdatedAt = now
	return nil
}
