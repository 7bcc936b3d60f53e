package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/repository"
	"github.com/pehenava/storefront/pkg/errors"
)

type orderService struct {
	repos         *repository.Repositories
	notifications *notificationService
	logger        *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, notifications *notificationService, logger *zap.Logger) *orderService {
	return &orderService{
		repos:         repos,
		notifications: notifications,
		logger:        logger,
	}
}

// CreateOrder records a checkout: order row, item snapshot, inventory
// decrement, cart clear, confirmation notification. The cart is cleared
// only after the order and its items are safely persisted, so a failed
// checkout leaves the cart untouched.
func (s *orderService) CreateOrder(ctx context.Context, userID string, req CheckoutRequest) (*domain.Order, error) {
	if len(req.CartItems) == 0 {
		return nil, &errors.ErrValidation{Field: "cartItems", Message: "must not be empty"}
	}

	order := &domain.Order{
		UserID:          userID,
		OrderNumber:     newOrderNumber(),
		Status:          domain.OrderStatusPending,
		Subtotal:        req.OrderData.Subtotal,
		TaxAmount:       req.OrderData.TaxAmount,
		ShippingAmount:  req.OrderData.ShippingAmount,
		DiscountAmount:  req.OrderData.DiscountAmount,
		TotalAmount:     req.OrderData.TotalAmount,
		ShippingAddress: req.OrderData.ShippingAddress,
		BillingAddress:  req.OrderData.BillingAddress,
		Notes:           req.OrderData.Notes,
	}

	if err := s.repos.Order.Create(ctx, order); err != nil {
		return nil, err
	}

	items := make([]*domain.OrderItem, 0, len(req.CartItems))
	for _, cartItem := range req.CartItems {
		items = append(items, &domain.OrderItem{
			OrderID:    order.ID,
			ProductID:  cartItem.ProductID,
			Name:       cartItem.Name,
			Size:       cartItem.Size,
			Color:      cartItem.Color,
			UnitPrice:  cartItem.UnitPrice,
			Quantity:   cartItem.Quantity,
			TotalPrice: cartItem.UnitPrice * float64(cartItem.Quantity),
		})
	}

	if err := s.repos.Order.CreateItems(ctx, items); err != nil {
		return nil, err
	}

	for _, cartItem := range req.CartItems {
		if err := s.repos.Product.DecrementStock(ctx, cartItem.ProductID, cartItem.Quantity); err != nil {
			// The order exists; a stale stock count is recoverable, a
			// failed checkout is not.
			s.logger.Warn("Failed to decrement stock",
				zap.String("product_id", cartItem.ProductID),
				zap.Error(err),
			)
		}
	}

	if err := s.repos.Cart.Clear(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}

	actionURL := fmt.Sprintf("/account/orders/%s", order.ID)
	_, err := s.notifications.Create(ctx, CreateNotificationInput{
		UserID:    userID,
		Title:     "Order Confirmed",
		Message:   fmt.Sprintf("Your order %s has been confirmed and is being processed.", order.OrderNumber),
		Type:      string(domain.NotificationTypeOrder),
		ActionURL: &actionURL,
	})
	if err != nil {
		s.logger.Warn("Failed to create order notification", zap.Error(err))
	}

	return order, nil
}

// GetOrder returns an order with its item snapshot.
func (s *orderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*domain.Order, []*domain.OrderItem, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.repos.Order.GetItems(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// CancelOrder cancels a customer's own order. Orders that have shipped
// can no longer be cancelled.
func (s *orderService) CancelOrder(ctx context.Context, orderID uuid.UUID, userID string) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.UserID != userID {
		return nil, &errors.ErrUnauthorized{Message: "order belongs to another user"}
	}
	if !order.Status.IsCancellable() {
		return nil, &errors.ErrValidation{
			Field:   "status",
			Message: fmt.Sprintf("order in status %q cannot be cancelled", order.Status),
		}
	}

	if err := s.repos.Order.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}

	order.Status = domain.OrderStatusCancelled
	return order, nil
}

// UpdateStatus applies a fulfillment status label. The transition graph
// is owned by the fulfillment system, so any known label is accepted.
func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	if !status.IsValid() {
		return &errors.ErrValidation{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}
	}
	return s.repos.Order.UpdateStatus(ctx, orderID, status)
}

const orderNumberAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// newOrderNumber generates an order number like ORD-1717430400000-X7K2P9QRT.
func newOrderNumber() string {
	var b strings.Builder
	for i := 0; i < 9; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(orderNumberAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken
			n = big.NewInt(time.Now().UnixNano() % int64(len(orderNumberAlphabet)))
		}
		b.WriteByte(orderNumberAlphabet[n.Int64()])
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), strings.ToUpper(b.String()))
}
