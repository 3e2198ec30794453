// Package cart owns the order being assembled: an ordered list of line
// items, deduplicated on (product id, price mode). Every mutation writes
// the whole order back to the cart partition so a restart resumes where
// the visitor left off.
package cart

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/NicolasArtemio/frontend-basv1/internal/handoff"
	"github.com/NicolasArtemio/frontend-basv1/internal/model"
	"github.com/NicolasArtemio/frontend-basv1/internal/storage"
)

type Store struct {
	store    storage.Store
	log      *zap.Logger
	shopName string

	mu    sync.Mutex
	items []model.LineItem
}

func New(store storage.Store, shopName string, log *zap.Logger) *Store {
	return &Store{store: store, shopName: shopName, log: log}
}

// Rehydrate restores the persisted order. A missing or corrupt blob
// leaves the cart empty; it never fails.
func (s *Store) Rehydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.store.Get(ctx, storage.CartPartition)
	if err != nil {
		s.log.Warn("failed to read persisted cart, starting empty", zap.Error(err))
		return
	}
	if data == nil {
		return
	}

	var items []model.LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("corrupt persisted cart, starting empty", zap.Error(err))
		return
	}
	s.items = items
}

// AddItem puts one more unit of the product at the given price mode into
// the order: an existing matching line is bumped by 1, otherwise a new
// quantity-1 line is appended. Existing line order is preserved.
func (s *Store) AddItem(ctx context.Context, product model.Product, mode model.PriceMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.Product.ID == product.ID && item.PriceMode == mode {
			s.items[i].Quantity++
			s.persist(ctx)
			return
		}
	}

	s.items = append(s.items, model.LineItem{Product: product, Quantity: 1, PriceMode: mode})
	s.persist(ctx)
}

// RemoveItem deletes the matching line entirely, whatever its quantity.
// No-op when nothing matches.
func (s *Store) RemoveItem(ctx context.Context, productID int, mode model.PriceMode) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.Product.ID == productID && item.PriceMode == mode {
			continue
		}
		kept = append(kept, item)
	}
	s.items = kept
	s.persist(ctx)
}

// UpdateQuantity adjusts the matching line's quantity by delta, flooring
// at 1. Driving the quantity to the floor is silent; removal only ever
// happens through RemoveItem.
func (s *Store) UpdateQuantity(ctx context.Context, productID int, mode model.PriceMode, delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, item := range s.items {
		if item.Product.ID == productID && item.PriceMode == mode {
			quantity := item.Quantity + delta
			if quantity < 1 {
				quantity = 1
			}
			s.items[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// Clear empties the order unconditionally.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Items returns a snapshot of the order in insertion order.
func (s *Store) Items() []model.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Total sums every line's subtotal. Lines whose selected price is absent
// contribute 0; an empty order totals 0.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, item := range s.items {
		total += item.Subtotal()
	}
	return total
}

// RenderHandoffMessage renders the order summary sent to the shop
// operator; "" when the order is empty.
func (s *Store) RenderHandoffMessage() string {
	return handoff.RenderMessage(s.shopName, s.Items())
}

// DeepLink builds the WhatsApp link carrying the rendered order; "" when
// the order is empty.
func (s *Store) DeepLink(phoneNumber string) string {
	return handoff.BuildDeepLink(s.shopName, s.Items(), phoneNumber)
}

// persist writes the full order synchronously. Callers hold the lock.
// In-memory state stays authoritative when the write fails; the persisted
// copy only seeds the next run.
func (s *Store) persist(ctx context.Context) {
	data, err := json.Marshal(s.snapshot())
	if err != nil {
		s.log.Warn("failed to encode cart", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, storage.CartPartition, data); err != nil {
		s.log.Warn("failed to persist cart", zap.Error(err))
	}
}

func (s *Store) snapshot() []model.LineItem {
	items := make([]model.LineItem, len(s.items))
	copy(items, s.items)
	return items
}
