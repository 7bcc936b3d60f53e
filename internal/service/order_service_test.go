package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/repository"
)

type orderFixture struct {
	orders        *fakeOrderRepo
	products      *fakeProductRepo
	cart          *fakeCartStore
	notifications *fakeNotificationRepo
	publisher     *fakePublisher
	svc           *orderService
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		orders:        newFakeOrderRepo(),
		products:      &fakeProductRepo{},
		cart:          newFakeCartStore(),
		notifications: &fakeNotificationRepo{},
		publisher:     &fakePublisher{},
	}
	repos := &repository.Repositories{
		Order:        f.orders,
		Product:      f.products,
		Cart:         f.cart,
		Notification: f.notifications,
	}
	logger := zap.NewNop()
	ns := NewNotificationService(repos, f.publisher, "notifications", logger)
	f.svc = NewOrderService(repos, ns, logger)
	return f
}

func checkoutRequest() CheckoutRequest {
	return CheckoutRequest{
		UserID: "u1",
		OrderData: OrderData{
			Subtotal:       55000,
			DiscountAmount: 10000,
			TotalAmount:    45000,
			ShippingAddress: map[string]interface{}{
				"street": "12 MG Road", "city": "Jaipur", "country": "IN",
			},
		},
		CartItems: []domain.CartItem{
			{ProductID: "11111111-1111-1111-1111-111111111111", Name: "Lehenga", UnitPrice: 25000, Quantity: 1, Size: "M", Color: "red"},
			{ProductID: "22222222-2222-2222-2222-222222222222", Name: "Sherwani", UnitPrice: 30000, Quantity: 1, Size: "L", Color: "ivory"},
		},
	}
}

func seedCart(t *testing.T, store *fakeCartStore, userID string, items []domain.CartItem) {
	t.Helper()
	data, err := json.Marshal(&domain.Cart{UserID: userID, Items: items})
	require.NoError(t, err)
	store.snapshots[userID] = data
}

var orderNumberPattern = regexp.MustCompile(`^ORD-\d+-[A-Z0-9]{9}$`)

func TestCreateOrder_Succeeds(t *testing.T) {
	f := newOrderFixture()
	req := checkoutRequest()
	seedCart(t, f.cart, "u1", req.CartItems)

	order, err := f.svc.CreateOrder(context.Background(), "u1", req)
	require.NoError(t, err)

	assert.Regexp(t, orderNumberPattern, order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, 45000.0, order.TotalAmount)

	items, err := f.orders.GetItems(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 25000.0, items[0].TotalPrice)
}

func TestCreateOrder_DecrementsStockPerItem(t *testing.T) {
	f := newOrderFixture()
	req := checkoutRequest()
	req.CartItems[0].Quantity = 3

	_, err := f.svc.CreateOrder(context.Background(), "u1", req)
	require.NoError(t, err)

	require.Len(t, f.products.stockCalls, 2)
	assert.Equal(t, 3, f.products.stockCalls[0].quantity)
}

func TestCreateOrder_ClearsCartAndNotifies(t *testing.T) {
	f := newOrderFixture()
	req := checkoutRequest()
	seedCart(t, f.cart, "u1", req.CartItems)

	order, err := f.svc.CreateOrder(context.Background(), "u1", req)
	require.NoError(t, err)

	cart, err := f.cart.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	require.Len(t, f.notifications.created, 1)
	n := f.notifications.created[0]
	assert.Equal(t, domain.NotificationTypeOrder, n.Type)
	assert.Contains(t, n.Message, order.OrderNumber)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, "notifications", f.publisher.events[0].topic)
}

func TestCreateOrder_FailureLeavesCartUntouched(t *testing.T) {
	f := newOrderFixture()
	f.orders.createErr = errors.New("database unavailable")
	req := checkoutRequest()
	seedCart(t, f.cart, "u1", req.CartItems)

	_, err := f.svc.CreateOrder(context.Background(), "u1", req)
	require.Error(t, err)

	cart, getErr := f.cart.Get(context.Background(), "u1")
	require.NoError(t, getErr)
	assert.Len(t, cart.Items, 2, "failed checkout must not clear the cart")
	assert.Empty(t, f.notifications.created)
}

func TestCreateOrder_ItemInsertFailureLeavesCartUntouched(t *testing.T) {
	f := newOrderFixture()
	f.orders.itemsErr = errors.New("database unavailable")
	req := checkoutRequest()
	seedCart(t, f.cart, "u1", req.CartItems)

	_, err := f.svc.CreateOrder(context.Background(), "u1", req)
	require.Error(t, err)

	cart, getErr := f.cart.Get(context.Background(), "u1")
	require.NoError(t, getErr)
	assert.Len(t, cart.Items, 2)
}

func TestCreateOrder_EmptyCartRejected(t *testing.T) {
	f := newOrderFixture()
	req := checkoutRequest()
	req.CartItems = nil

	_, err := f.svc.CreateOrder(context.Background(), "u1", req)
	assert.Error(t, err)
}

func TestCreateOrder_StockFailureDoesNotFailCheckout(t *testing.T) {
	f := newOrderFixture()
	f.products.stockErr = errors.New("product missing")
	req := checkoutRequest()
	seedCart(t, f.cart, "u1", req.CartItems)

	_, err := f.svc.CreateOrder(context.Background(), "u1", req)
	require.NoError(t, err)

	cart, getErr := f.cart.Get(context.Background(), "u1")
	require.NoError(t, getErr)
	assert.Empty(t, cart.Items)
}

func TestCancelOrder_OwnPendingOrder(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.CreateOrder(context.Background(), "u1", checkoutRequest())
	require.NoError(t, err)

	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID, "u1")
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusCancelled, cancelled.Status)
}

func TestCancelOrder_ShippedOrderRefused(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.CreateOrder(context.Background(), "u1", checkoutRequest())
	require.NoError(t, err)
	require.NoError(t, f.orders.UpdateStatus(context.Background(), order.ID, domain.OrderStatusShipped))

	_, err = f.svc.CancelOrder(context.Background(), order.ID, "u1")
	assert.Error(t, err)
}

func TestCancelOrder_OtherUsersOrderRefused(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.CreateOrder(context.Background(), "u1", checkoutRequest())
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(context.Background(), order.ID, "u2")
	assert.Error(t, err)
}

func TestUpdateStatus_AcceptsAnyKnownLabel(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.CreateOrder(context.Background(), "u1", checkoutRequest())
	require.NoError(t, err)

	// The fulfillment system owns transitions; delivered straight from
	// pending is accepted.
	require.NoError(t, f.svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatusDelivered))

	got, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusDelivered, got.Status)
}

func TestUpdateStatus_RejectsUnknownLabel(t *testing.T) {
	f := newOrderFixture()
	order, err := f.svc.CreateOrder(context.Background(), "u1", checkoutRequest())
	require.NoError(t, err)

	err = f.svc.UpdateStatus(context.Background(), order.ID, domain.OrderStatus("returned"))
	assert.Error(t, err)
}
