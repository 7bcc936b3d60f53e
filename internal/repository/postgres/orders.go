package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `
	id, user_id, order_number, status, subtotal, tax_amount, shipping_amount,
	discount_amount, total_amount, shipping_address, billing_address, notes,
	created_at, updated_at
`

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, user_id, order_number, status, subtotal,
			tax_amount, shipping_amount, discount_amount, total_amount,
			shipping_address, billing_address, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	shippingJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}
	billingJSON, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.OrderNumber,
		order.Status,
		order.Subtotal,
		order.TaxAmount,
		order.ShippingAmount,
		order.DiscountAmount,
		order.TotalAmount,
		shippingJSON,
		billingJSON,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create order", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) CreateItems(ctx context.Context, items []*domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, size, color,
			unit_price, quantity, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		if item.CreatedAt.IsZero() {
			item.CreatedAt = now
		}

		_, err := tx.ExecContext(ctx, query,
			item.ID,
			item.OrderID,
			item.ProductID,
			item.Name,
			item.Size,
			item.Color,
			item.UnitPrice,
			item.Quantity,
			item.TotalPrice,
			item.CreatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create order item", zap.Error(err))
			return err
		}
	}

	return tx.Commit()
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE id = $1"

	order, err := r.scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, name, size, color, unit_price,
			quantity, total_price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.Name,
			&item.Size,
			&item.Color,
			&item.UnitPrice,
			&item.Quantity,
			&item.TotalPrice,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE user_id = $1 ORDER BY created_at DESC"
	return r.list(ctx, query, userID)
}

func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus) ([]*domain.Order, error) {
	if status != nil {
		query := "SELECT " + orderColumns + " FROM orders WHERE status = $1 ORDER BY created_at DESC"
		return r.list(ctx, query, *status)
	}
	query := "SELECT " + orderColumns + " FROM orders ORDER BY created_at DESC"
	return r.list(ctx, query)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *orderRepository) scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order        domain.Order
		shippingJSON []byte
		billingJSON  []byte
		notes        sql.NullString
	)

	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Status,
		&order.Subtotal,
		&order.TaxAmount,
		&order.ShippingAmount,
		&order.DiscountAmount,
		&order.TotalAmount,
		&shippingJSON,
		&billingJSON,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(shippingJSON) > 0 {
		if err := json.Unmarshal(shippingJSON, &order.ShippingAddress); err != nil {
			return nil, err
		}
	}
	if len(billingJSON) > 0 {
		if err := json.Unmarshal(billingJSON, &order.BillingAddress); err != nil {
			return nil, err
		}
	}
	if notes.Valid {
		order.Notes = &notes.String
	}

	return &order, nil
}
