package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
)

func testCalculator() *Calculator {
	return NewCalculator(config.PricingConfig{
		FreeShippingThreshold: 2000,
		FlatShippingFee:       150,
	})
}

func fptr(v float64) *float64 { return &v }

func TestTotals_EmptyCart(t *testing.T) {
	totals := testCalculator().Totals(nil)

	assert.Equal(t, domain.CartTotals{}, totals)
}

func TestTotals_DiscountAndFreeShipping(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "p1", UnitPrice: 25000, Quantity: 1, OriginalPrice: fptr(30000)},
		{ProductID: "p2", UnitPrice: 30000, Quantity: 1, OriginalPrice: fptr(35000)},
	}

	totals := testCalculator().Totals(items)

	assert.Equal(t, 55000.0, totals.Subtotal)
	assert.Equal(t, 10000.0, totals.Discount)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 45000.0, totals.Total)
}

func TestTotals_FlatShippingBelowThreshold(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "p1", UnitPrice: 899, Quantity: 2},
	}

	totals := testCalculator().Totals(items)

	assert.Equal(t, 1798.0, totals.Subtotal)
	assert.Equal(t, 150.0, totals.Shipping)
	assert.Equal(t, 1948.0, totals.Total)
}

func TestTotals_ThresholdBoundary(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "p1", UnitPrice: 1000, Quantity: 2},
	}

	totals := testCalculator().Totals(items)

	assert.Equal(t, 0.0, totals.Shipping, "subtotal exactly at threshold ships free")
}

func TestTotals_QuantityMultiplies(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "p1", UnitPrice: 500, Quantity: 3, OriginalPrice: fptr(700)},
	}

	totals := testCalculator().Totals(items)

	assert.Equal(t, 1500.0, totals.Subtotal)
	assert.Equal(t, 600.0, totals.Discount)
}

func TestTotals_OriginalPriceBelowUnitPriceIgnored(t *testing.T) {
	items := []domain.CartItem{
		{ProductID: "p1", UnitPrice: 1000, Quantity: 1, OriginalPrice: fptr(800)},
	}

	totals := testCalculator().Totals(items)

	assert.Equal(t, 0.0, totals.Discount)
}
