package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/pricing"
	"github.com/pehenava/storefront/internal/repository"
)

func newTestCartService(store repository.CartStore) *cartService {
	repos := &repository.Repositories{Cart: store}
	calc := pricing.NewCalculator(config.PricingConfig{
		FreeShippingThreshold: 2000,
		FlatShippingFee:       150,
	})
	return NewCartService(repos, calc, zap.NewNop())
}

func kurta(qty int) domain.CartItem {
	return domain.CartItem{
		ProductID: "p-kurta",
		Name:      "Chikankari Kurta",
		UnitPrice: 1499,
		Quantity:  qty,
		Size:      "M",
		Color:     "white",
		InStock:   true,
	}
}

func TestAddItem_MergesIdenticalIdentityKeys(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	for _, qty := range []int{1, 2, 3} {
		_, err := svc.AddItem(ctx, "u1", kurta(qty))
		require.NoError(t, err)
	}

	cart, _, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 6, cart.Items[0].Quantity)
}

func TestAddItem_DifferentSizeIsNewLine(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", kurta(1))
	require.NoError(t, err)

	large := kurta(1)
	large.Size = "L"
	cart, err := svc.AddItem(ctx, "u1", large)
	require.NoError(t, err)

	assert.Len(t, cart.Items, 2)
}

func TestAddItem_DefaultsQuantityToOne(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)

	cart, err := svc.AddItem(context.Background(), "u1", kurta(0))
	require.NoError(t, err)

	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestUpdateQuantity_ClampsAtOne(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", kurta(2))
	require.NoError(t, err)

	cart, err := svc.UpdateQuantity(ctx, "u1", kurta(0).Key(), -5)
	require.NoError(t, err)

	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestUpdateQuantity_NoopSkipsPersist(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", kurta(1))
	require.NoError(t, err)
	savesBefore := store.saveCalls

	// Quantity is already 1; decrementing clamps back to 1.
	cart, err := svc.UpdateQuantity(ctx, "u1", kurta(0).Key(), -1)
	require.NoError(t, err)

	assert.Equal(t, 1, cart.Items[0].Quantity)
	assert.Equal(t, savesBefore, store.saveCalls, "unchanged quantity must not rewrite the snapshot")
}

func TestUpdateQuantity_UnknownLineIsNotFound(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)

	_, err := svc.UpdateQuantity(context.Background(), "u1", domain.CartItemKey{ProductID: "ghost"}, 1)
	assert.Error(t, err)
}

func TestRemoveItem_AbsentLineIsNoop(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", kurta(1))
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, "u1", domain.CartItemKey{ProductID: "ghost"})
	require.NoError(t, err)

	assert.Len(t, cart.Items, 1)
}

func TestRemoveItem_RemovesMatchingLine(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", kurta(1))
	require.NoError(t, err)

	cart, err := svc.RemoveItem(ctx, "u1", kurta(0).Key())
	require.NoError(t, err)

	assert.Empty(t, cart.Items)
}

func TestClear_ThenReloadYieldsEmptyCart(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "u1", kurta(3))
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))

	cart, totals, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, domain.CartTotals{}, totals)
}

func TestAddItem_SnapshotSurvivesReload(t *testing.T) {
	store := newFakeCartStore()
	ctx := context.Background()

	_, err := newTestCartService(store).AddItem(ctx, "u1", kurta(2))
	require.NoError(t, err)

	// A fresh service over the same store sees the persisted snapshot.
	cart, _, err := newTestCartService(store).Get(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)
}

func TestReplace_RejectsInvalidQuantity(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)

	_, err := svc.Replace(context.Background(), "u1", []domain.CartItem{kurta(0)})
	assert.Error(t, err)
}

func TestGet_TotalsMatchPricingRules(t *testing.T) {
	store := newFakeCartStore()
	svc := newTestCartService(store)
	ctx := context.Background()

	orig := 30000.0
	item := domain.CartItem{ProductID: "p1", Name: "Lehenga", UnitPrice: 25000, OriginalPrice: &orig, Quantity: 1}
	_, err := svc.AddItem(ctx, "u1", item)
	require.NoError(t, err)

	_, totals, err := svc.Get(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 25000.0, totals.Subtotal)
	assert.Equal(t, 5000.0, totals.Discount)
	assert.Equal(t, 0.0, totals.Shipping)
	assert.Equal(t, 20000.0, totals.Total)
}
