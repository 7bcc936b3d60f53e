package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/pricing"
	"github.com/pehenava/storefront/internal/repository"
	"github.com/pehenava/storefront/pkg/errors"
)

type cartService struct {
	repos      *repository.Repositories
	calculator *pricing.Calculator
	logger     *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(repos *repository.Repositories, calculator *pricing.Calculator, logger *zap.Logger) *cartService {
	return &cartService{
		repos:      repos,
		calculator: calculator,
		logger:     logger,
	}
}

// Get returns the user's cart and its pricing breakdown.
func (s *cartService) Get(ctx context.Context, userID string) (*domain.Cart, domain.CartTotals, error) {
	cart, err := s.repos.Cart.Get(ctx, userID)
	if err != nil {
		return nil, domain.CartTotals{}, err
	}
	return cart, s.calculator.Totals(cart.Items), nil
}

// AddItem adds an item to the cart. When a line with the same identity
// key (product, size, color) exists, the quantities merge; otherwise the
// item is appended. Always succeeds on a reachable store.
func (s *cartService) AddItem(ctx context.Context, userID string, item domain.CartItem) (*domain.Cart, error) {
	if item.ProductID == "" {
		return nil, &errors.ErrValidation{Field: "productId", Message: "required"}
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}

	cart, err := s.repos.Cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	key := item.Key()
	merged := false
	for i := range cart.Items {
		if cart.Items[i].Key() == key {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if err := s.repos.Cart.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// UpdateQuantity adjusts a line's quantity by delta, clamping the result
// to at least 1. A delta that leaves the quantity unchanged is a no-op
// and skips the snapshot write.
func (s *cartService) UpdateQuantity(ctx context.Context, userID string, key domain.CartItemKey, delta int) (*domain.Cart, error) {
	cart, err := s.repos.Cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Items {
		if cart.Items[i].Key() != key {
			continue
		}

		next := cart.Items[i].Quantity + delta
		if next < 1 {
			next = 1
		}
		if next == cart.Items[i].Quantity {
			return cart, nil
		}

		cart.Items[i].Quantity = next
		if err := s.repos.Cart.Save(ctx, cart); err != nil {
			return nil, err
		}
		return cart, nil
	}

	return nil, &errors.ErrNotFound{Resource: "cart item", ID: key.ProductID}
}

// RemoveItem removes a line from the cart; removing an absent line is a
// no-op.
func (s *cartService) RemoveItem(ctx context.Context, userID string, key domain.CartItemKey) (*domain.Cart, error) {
	cart, err := s.repos.Cart.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	filtered := cart.Items[:0]
	removed := false
	for _, item := range cart.Items {
		if item.Key() == key {
			removed = true
			continue
		}
		filtered = append(filtered, item)
	}

	if !removed {
		return cart, nil
	}

	cart.Items = filtered
	if err := s.repos.Cart.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// Replace overwrites the whole cart snapshot.
func (s *cartService) Replace(ctx context.Context, userID string, items []domain.CartItem) (*domain.Cart, error) {
	if items == nil {
		items = []domain.CartItem{}
	}

	for _, item := range items {
		if item.ProductID == "" {
			return nil, &errors.ErrValidation{Field: "productId", Message: "required"}
		}
		if item.Quantity < 1 {
			return nil, &errors.ErrValidation{Field: "quantity", Message: "must be at least 1"}
		}
	}

	cart := &domain.Cart{UserID: userID, Items: items}
	if err := s.repos.Cart.Save(ctx, cart); err != nil {
		return nil, err
	}

	return cart, nil
}

// Clear empties the cart.
func (s *cartService) Clear(ctx context.Context, userID string) error {
	return s.repos.Cart.Clear(ctx, userID)
}
