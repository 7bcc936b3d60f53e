package domain

// OrderStatus represents the fulfillment status of an order.
// Transitions are owned by the fulfillment system; the storefront only
// validates that a label is one it knows how to render.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// IsValid checks if the order status is a known label
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// IsCancellable reports whether a customer may still cancel the order.
// Shipped and delivered orders can no longer be cancelled.
func (s OrderStatus) IsCancellable() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// NotificationType categorizes notifications for client rendering
type NotificationType string

const (
	NotificationTypeOrder     NotificationType = "order"
	NotificationTypePromotion NotificationType = "promotion"
	NotificationTypeSystem    NotificationType = "system"
)

// IsValid checks if the notification type is known
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationTypeOrder, NotificationTypePromotion, NotificationTypeSystem:
		return true
	default:
		return false
	}
}

// OTPPurpose distinguishes why a verification code was issued
type OTPPurpose string

const (
	OTPPurposeSignup OTPPurpose = "signup"
	OTPPurposeLogin  OTPPurpose = "login"
)

// IsValid checks if the OTP purpose is known
func (p OTPPurpose) IsValid() bool {
	return p == OTPPurposeSignup || p == OTPPurposeLogin
}
