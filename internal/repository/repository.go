package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/pehenava/storefront/internal/domain"
)

// ProductFilter narrows a catalog listing.
type ProductFilter struct {
	Category string
	Search   string
	Gender   string
	ShopID   *int64
	Featured bool
	Limit    int
}

// SearchQuery is a paginated catalog search.
type SearchQuery struct {
	Query     string
	Gender    string
	Category  string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ProductRepository reads the catalog. Products are authored elsewhere;
// the only write is the stock decrement at checkout.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	Search(ctx context.Context, q SearchQuery) ([]*domain.Product, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
}

// OrderRepository persists checkout records.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	CreateItems(ctx context.Context, items []*domain.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

// UserRepository persists storefront accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkVerified(ctx context.Context, id uuid.UUID) error
}

// VerificationRepository persists issued OTP records.
type VerificationRepository interface {
	Create(ctx context.Context, v *domain.EmailVerification) error
	GetLatest(ctx context.Context, email string) (*domain.EmailVerification, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository persists user notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Notification, int, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID string) error
}

// CartStore holds one cart snapshot per user. Every mutation writes the
// full snapshot so a reload restores state exactly.
type CartStore interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, userID string) error
}

// WishlistStore holds one wishlist snapshot per user.
type WishlistStore interface {
	Get(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	Save(ctx context.Context, userID string, items []domain.WishlistItem) error
	Clear(ctx context.Context, userID string) error
}

// CompareStore holds the user's product comparison list.
type CompareStore interface {
	Get(ctx context.Context, userID string) ([]string, error)
	Save(ctx context.Context, userID string, productIDs []string) error
	Clear(ctx context.Context, userID string) error
}

// Repositories aggregates all storage dependencies for handlers and services.
type Repositories struct {
	Product      ProductRepository
	Order        OrderRepository
	User         UserRepository
	Verification VerificationRepository
	Notification NotificationRepository
	Cart         CartStore
	Wishlist     WishlistStore
	Compare      CompareStore
}
