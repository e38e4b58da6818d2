package core

import (
	"context"
	"log/slog"
	"time"

	"gymledger/internal/codec"
	"gymledger/pkg/domain"
)

// SaleRepository reads and appends ledger rows. Rows are never edited; use
// Store.RecordSale to sell stock.
type SaleRepository struct {
	s   *Store
	key string
}

// List returns every sale in insertion order.
func (r *SaleRepository) List(ctx context.Context) (sales []domain.Sale, err error) {
	defer r.s.observe("sale.list", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.load(ctx)
}

// Get returns the sale with id or a domain.NotFoundError.
func (r *SaleRepository) Get(ctx context.Context, id string) (sale domain.Sale, err error) {
	defer r.s.observe("sale.get", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sales, err := r.load(ctx)
	if err != nil {
		return sale, err
	}
	idx := indexOf(sales, id)
	if idx < 0 {
		return sale, domain.NotFoundError{Entity: domain.EntitySale, ID: id}
	}
	return sales[idx], nil
}

// ListByProduct returns the sales of productID in insertion order.
func (r *SaleRepository) ListByProduct(ctx context.Context, productID string) (matches []domain.Sale, err error) {
	defer r.s.observe("sale.list_by_product", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sales, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	matches = []domain.Sale{}
	for _, sale := range sales {
		if sale.ProductID == productID {
			matches = append(matches, sale)
		}
	}
	return matches, nil
}

// Append adds a ledger row without touching stock. Rows imported from
// another store go through here. The row must hold a positive quantity and a
// total equal to quantity times unit price; the product may no longer exist.
func (r *SaleRepository) Append(ctx context.Context, sale domain.Sale) (stored domain.Sale, err error) {
	defer r.s.observe("sale.append", time.Now(), &err)
	if err := validateSale(sale); err != nil {
		return stored, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sales, err := r.load(ctx)
	if err != nil {
		return stored, err
	}
	if indexOf(sales, sale.ID) >= 0 {
		return stored, domain.DuplicateIDError{Entity: domain.EntitySale, ID: sale.ID}
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = r.s.now()
	}
	if err := codec.SaveCollection(ctx, r.s.codec, r.key, append(sales, sale)); err != nil {
		return stored, err
	}
	return sale, nil
}

// Remove deletes a ledger row whole. It reports whether a row matched.
func (r *SaleRepository) Remove(ctx context.Context, id string) (removed bool, err error) {
	defer r.s.observe("sale.remove", time.Now(), &err)
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sales, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	remaining, ok := without(sales, id)
	if !ok {
		return false, nil
	}
	if err := codec.SaveCollection(ctx, r.s.codec, r.key, remaining); err != nil {
		return false, err
	}
	r.s.log.InfoContext(ctx, "record deleted",
		slog.String("entity", string(domain.EntitySale)),
		slog.String("id", id),
		slog.String("action", string(domain.ActionDelete)),
	)
	return true, nil
}

func validateSale(sale domain.Sale) error {
	switch {
	case sale.ID == "":
		return domain.ErrMissingID
	case sale.Quantity <= 0:
		return domain.ValidationError{Entity: domain.EntitySale, ID: sale.ID, Field: "quantity", Reason: "must be positive"}
	case sale.TotalPrice != float64(sale.Quantity)*sale.UnitPrice:
		return domain.ValidationError{Entity: domain.EntitySale, ID: sale.ID, Field: "totalPrice", Reason: "must equal quantity times unitPrice"}
	}
	return nil
}

func (r *SaleRepository) load(ctx context.Context) ([]domain.Sale, error) {
	return codec.LoadCollection[domain.Sale](ctx, r.s.codec, r.key)
}
