// Package pricing computes cart totals from a cart snapshot.
// It is pure: no state, no side effects, zero values on an empty cart.
package pricing

import (
	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
)

// Calculator applies the storefront's pricing rules to cart snapshots.
type Calculator struct {
	freeShippingThreshold float64
	flatShippingFee       float64
}

// NewCalculator creates a calculator from pricing configuration.
func NewCalculator(cfg config.PricingConfig) *Calculator {
	return &Calculator{
		freeShippingThreshold: cfg.FreeShippingThreshold,
		flatShippingFee:       cfg.FlatShippingFee,
	}
}

// Totals computes subtotal, discount, shipping and total for the given
// cart items.
//
// subtotal = Σ unitPrice × quantity
// discount = Σ (originalPrice − unitPrice) × quantity, where originalPrice
// is set and above the unit price
// shipping = 0 when subtotal meets the free-shipping threshold, otherwise
// the flat fee; always 0 for an empty cart
// total = subtotal − discount + shipping
func (c *Calculator) Totals(items []domain.CartItem) domain.CartTotals {
	if len(items) == 0 {
		return domain.CartTotals{}
	}

	var subtotal, discount float64
	for _, item := range items {
		qty := float64(item.Quantity)
		subtotal += item.UnitPrice * qty
		if item.OriginalPrice != nil && *item.OriginalPrice > item.UnitPrice {
			discount += (*item.OriginalPrice - item.UnitPrice) * qty
		}
	}

	shipping := c.flatShippingFee
	if subtotal >= c.freeShippingThreshold {
		shipping = 0
	}

	return domain.CartTotals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal - discount + shipping,
	}
}
