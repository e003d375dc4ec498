// Package cart persists per-user cart lines in the portal's key-value store.
// The cart owns its line items; checkout only reads them.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/greenleaf-pharma/portal-api/internal/kvstore"
	"github.com/greenleaf-pharma/portal-api/internal/models"
)

// cartTTL keeps abandoned carts around for a month before they expire.
const cartTTL = 30 * 24 * time.Hour

var (
	// ErrInvalidQuantity rejects non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrInvalidProductID rejects empty product ids.
	ErrInvalidProductID = errors.New("product id is required")
)

// Store reads and writes a user's cart lines.
type Store struct {
	kv kvstore.Store
}

// NewStore creates a cart store over the given key-value backend.
func NewStore(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Get returns the user's cart lines. A missing cart is an empty cart.
func (s *Store) Get(ctx context.Context, userID string) ([]models.CartLineItem, error) {
	raw, err := s.kv.Get(ctx, cartKey(userID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var items []models.CartLineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return items, nil
}

// Add merges a line into the user's cart, summing quantities for a product
// already present.
func (s *Store) Add(ctx context.Context, userID string, line models.CartLineItem) error {
	if line.ProductID == "" {
		return ErrInvalidProductID
	}
	if line.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	items, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	merged := false
	for i := range items {
		if items[i].ProductID == line.ProductID {
			items[i].Quantity += line.Quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, line)
	}

	return s.save(ctx, userID, items)
}

// SetQuantity replaces the quantity of a product already in the cart.
func (s *Store) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	items, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			return s.save(ctx, userID, items)
		}
	}
	return ErrInvalidProductID
}

// Remove drops a product from the cart. Removing an absent product is a no-op.
func (s *Store) Remove(ctx context.Context, userID, productID string) error {
	items, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}

	kept := items[:0]
	for _, item := range items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	return s.save(ctx, userID, kept)
}

// Clear empties the user's cart, typically after a successful checkout.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.kv.Delete(ctx, cartKey(userID)); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Store) save(ctx context.Context, userID string, items []models.CartLineItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.kv.Set(ctx, cartKey(userID), string(raw), cartTTL); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func cartKey(userID string) string {
	return "cart:" + userID
}
