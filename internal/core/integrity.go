package core

import (
	"context"
	"log/slog"
	"time"

	"gymledger/internal/codec"
	"gymledger/internal/kv"
	"gymledger/pkg/domain"
)

// removeWithCleanup deletes id from target and strips it from the member
// reference list picked by refs. Both collections are written in one commit;
// members are only rewritten when at least one of them changed.
// Callers hold s.mu.
func removeWithCleanup[T record](ctx context.Context, s *Store, target *collection[T], id string, refs func(*domain.Member) *[]string) (bool, error) {
	items, err := target.load(ctx)
	if err != nil {
		return false, err
	}
	remaining, ok := without(items, id)
	if !ok {
		return false, nil
	}
	members, err := s.Members.load(ctx)
	if err != nil {
		return false, err
	}
	now := s.now()
	touched := 0
	for i := range members {
		list := refs(&members[i])
		stripped, changed := stripID(*list, id)
		if !changed {
			continue
		}
		*list = stripped
		members[i].UpdatedAt = now
		touched++
	}

	entries := make([]kv.Entry, 0, 2)
	entry, err := target.entry(remaining)
	if err != nil {
		return false, err
	}
	entries = append(entries, entry)
	if touched > 0 {
		entry, err := s.Members.entry(members)
		if err != nil {
			return false, err
		}
		entries = append(entries, entry)
	}
	if err := s.codec.Commit(ctx, entries); err != nil {
		return false, err
	}
	s.log.InfoContext(ctx, "record deleted",
		slog.String("entity", string(target.entity)),
		slog.String("id", id),
		slog.String("action", string(domain.ActionDelete)),
		slog.Int("members_updated", touched),
	)
	return true, nil
}

func stripID(ids []string, id string) ([]string, bool) {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out, len(out) != len(ids)
}

// RecordSale sells quantity units of productID to buyerName. The stock
// decrement and the new ledger row are committed together; on any failure
// neither collection changes.
func (s *Store) RecordSale(ctx context.Context, productID string, quantity int, buyerName string) (sale domain.Sale, err error) {
	defer s.observe("sale.record", time.Now(), &err)
	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.Products.load(ctx)
	if err != nil {
		return sale, err
	}
	idx := indexOf(products, productID)
	if idx < 0 {
		return sale, domain.NotFoundError{Entity: domain.EntityProduct, ID: productID}
	}
	product := products[idx]
	if quantity <= 0 || quantity > product.Quantity {
		return sale, domain.InsufficientStockError{ProductID: productID, Requested: quantity, Available: product.Quantity}
	}
	sales, err := s.Sales.load(ctx)
	if err != nil {
		return sale, err
	}

	now := s.now()
	product.Quantity -= quantity
	product.UpdatedAt = now
	products[idx] = product

	sale = domain.Sale{
		ID:          s.ids.NewID(),
		BuyerName:   buyerName,
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    quantity,
		UnitPrice:   product.Price,
		TotalPrice:  float64(quantity) * product.Price,
		CreatedAt:   now,
	}
	if indexOf(sales, sale.ID) >= 0 {
		return domain.Sale{}, domain.DuplicateIDError{Entity: domain.EntitySale, ID: sale.ID}
	}

	productsEntry, err := s.Products.entry(products)
	if err != nil {
		return domain.Sale{}, err
	}
	salesPayload, err := codec.EncodeCollection(append(sales, sale))
	if err != nil {
		return domain.Sale{}, err
	}
	if err := s.codec.Commit(ctx, []kv.Entry{productsEntry, {Key: s.keys.Sales, Value: salesPayload}}); err != nil {
		return domain.Sale{}, err
	}

	s.obs.RecordSale(sale.Quantity, sale.TotalPrice)
	s.log.InfoContext(ctx, "sale recorded",
		slog.String("sale_id", sale.ID),
		slog.String("product_id", product.ID),
		slog.Int("quantity", quantity),
		slog.Int("remaining", product.Quantity),
		slog.Float64("total", sale.TotalPrice),
	)
	return sale, nil
}
