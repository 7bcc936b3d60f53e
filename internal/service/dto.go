package service

import "github.com/pehenava/storefront/internal/domain"

// CheckoutRequest is the order-processing payload: the finalized totals
// plus a snapshot of the cart lines being purchased.
type CheckoutRequest struct {
	UserID    string            `json:"userId" binding:"required"`
	OrderData OrderData         `json:"orderData" binding:"required"`
	CartItems []domain.CartItem `json:"cartItems" binding:"required,min=1"`
}

type OrderData struct {
	Subtotal        float64                `json:"subtotal" binding:"required,min=0"`
	TaxAmount       float64                `json:"taxAmount" binding:"min=0"`
	ShippingAmount  float64                `json:"shippingAmount" binding:"min=0"`
	DiscountAmount  float64                `json:"discountAmount" binding:"min=0"`
	TotalAmount     float64                `json:"totalAmount" binding:"required,min=0"`
	ShippingAddress map[string]interface{} `json:"shippingAddress" binding:"required"`
	BillingAddress  map[string]interface{} `json:"billingAddress,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
}

// CreateNotificationInput is the notification-creation payload.
type CreateNotificationInput struct {
	UserID    string                 `json:"userId" binding:"required"`
	Title     string                 `json:"title" binding:"required"`
	Message   string                 `json:"message" binding:"required"`
	Type      string                 `json:"type"`
	ActionURL *string                `json:"actionUrl,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}
