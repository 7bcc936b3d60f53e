package domain

import (
	"time"

	"github.com/google/uuid"
)

// Product is a storefront catalog entry. Products are authored by the
// merchandising pipeline; the storefront only reads them, except for the
// stock decrement at checkout.
type Product struct {
	ID            uuid.UUID
	Slug          string
	Name          string
	Description   string
	Brand         string
	Category      string
	Subcategory   string
	Gender        string
	Price         float64
	OriginalPrice *float64
	Images        []string
	ShopID        *int64
	IsFeatured    bool
	InStock       bool
	StockQuantity int
	Rating        float64
	ReviewCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CartItem is one line of a user's cart.
// Identity key = (ProductID, Size, Color).
type CartItem struct {
	ProductID     string   `json:"productId"`
	Name          string   `json:"name"`
	UnitPrice     float64  `json:"unitPrice"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Quantity      int      `json:"quantity"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
	Image         string   `json:"image,omitempty"`
	InStock       bool     `json:"inStock"`
}

// Key returns the cart identity key for the item.
func (i CartItem) Key() CartItemKey {
	return CartItemKey{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}

// CartItemKey identifies a cart line uniquely within one cart.
type CartItemKey struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// Cart is one user's in-progress selection. Items keep insertion order.
type Cart struct {
	UserID    string     `json:"userId"`
	Items     []CartItem `json:"items"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartTotals is the pricing breakdown for a cart snapshot.
type CartTotals struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Order is an immutable checkout record. Status transitions are driven by
// the fulfillment system; the storefront records and displays them.
type Order struct {
	ID              uuid.UUID
	UserID          string
	OrderNumber     string
	Status          OrderStatus
	Subtotal        float64
	TaxAmount       float64
	ShippingAmount  float64
	DiscountAmount  float64
	TotalAmount     float64
	ShippingAddress map[string]interface{} // JSONB
	BillingAddress  map[string]interface{} // JSONB
	Notes           *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is a snapshot of one cart line at checkout time.
type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ProductID  string
	Name       string
	Size       string
	Color      string
	UnitPrice  float64
	Quantity   int
	TotalPrice float64
	CreatedAt  time.Time
}

// User is a storefront account. Accounts start unverified and are
// activated through the OTP email flow.
type User struct {
	ID         uuid.UUID
	Email      string
	Name       string
	IsVerified bool
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EmailVerification stores one issued OTP. The code itself is not kept;
// only its HMAC is stored for comparison at verification time.
type EmailVerification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Email     string
	CodeHash  string
	Purpose   OTPPurpose
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}

// Notification is a persisted user notification, also broadcast to the
// realtime topic on creation.
type Notification struct {
	ID        uuid.UUID
	UserID    string
	Title     string
	Message   string
	Type      NotificationType
	ActionURL *string
	Metadata  map[string]interface{} // JSONB
	IsRead    bool
	CreatedAt time.Time
}

// WishlistItem is one saved product on a user's wishlist.
type WishlistItem struct {
	ProductID string    `json:"productId"`
	AddedAt   time.Time `json:"addedAt"`
}
