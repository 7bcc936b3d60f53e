package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/repository"
	"github.com/pehenava/storefront/pkg/errors"
)

const productColumns = `
	id, slug, name, description, brand, category, subcategory, gender,
	price, original_price, images, shop_id, is_featured, in_stock,
	stock_quantity, rating, review_count, created_at, updated_at
`

// genderCategories broadens a gender filter to the category and
// subcategory labels the catalog actually uses for it.
var genderCategories = map[string][]string{
	"women": {
		"Women's Wear", "Sarees", "Lehengas", "Anarkali", "Anarkali Suits",
		"Indo Western", "Salwar Kameez", "Kurtis", "Tops", "Tunics",
	},
	"men": {
		"Men's Wear", "Sherwanis", "Kurta", "Kurta Pajama", "Suits",
		"Blazers", "Trousers", "Shirts",
	},
	"kids": {
		"Kids Wear", "Girls Lehengas", "Boys Sherwanis", "Girls Gowns",
		"Boys Suits", "Kids T-Shirts", "Kids Trousers",
	},
}

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.ShopID != nil {
		conditions = append(conditions, "shop_id = "+arg(*filter.ShopID))
	}
	if filter.Featured {
		conditions = append(conditions, "is_featured = true")
	}

	// A gender filter matches both the gender column and the category
	// labels commonly used for that gender.
	categoryTerms := []string{}
	if filter.Category != "" {
		categoryTerms = append(categoryTerms, filter.Category)
	}
	if filter.Gender != "" {
		gender := strings.ToLower(filter.Gender)
		if terms, ok := genderCategories[gender]; ok {
			categoryTerms = append(categoryTerms, terms...)
		}
		conditions = append(conditions, fmt.Sprintf(
			"(lower(gender) = %s OR category ILIKE ANY(%s) OR subcategory ILIKE ANY(%s))",
			arg(gender), arg(pq.Array(categoryTerms)), arg(pq.Array(categoryTerms)),
		))
	} else if len(categoryTerms) > 0 {
		conditions = append(conditions, fmt.Sprintf(
			"(category ILIKE ANY(%s) OR subcategory ILIKE ANY(%s))",
			arg(pq.Array(categoryTerms)), arg(pq.Array(categoryTerms)),
		))
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE %s OR description ILIKE %s OR brand ILIKE %s)",
			arg(pattern), arg(pattern), arg(pattern),
		))
	}

	query := "SELECT " + productColumns + " FROM products"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT " + arg(filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanProducts(rows)
}

var searchSortColumns = map[string]string{
	"created_at": "created_at",
	"price":      "price",
	"base_price": "price",
	"rating":     "rating",
	"name":       "name",
}

func (r *productRepository) Search(ctx context.Context, q repository.SearchQuery) ([]*domain.Product, int, error) {
	var (
		conditions []string
		args       []interface{}
	)

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Query != "" {
		pattern := "%" + q.Query + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(name ILIKE %s OR description ILIKE %s OR brand ILIKE %s)",
			arg(pattern), arg(pattern), arg(pattern),
		))
	}
	if q.Gender != "" {
		conditions = append(conditions, "lower(gender) = "+arg(strings.ToLower(q.Gender)))
	}
	if q.Category != "" {
		pattern := "%" + q.Category + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(category ILIKE %s OR subcategory ILIKE %s)", arg(pattern), arg(pattern),
		))
	}
	if q.MinPrice != nil {
		conditions = append(conditions, "price >= "+arg(*q.MinPrice))
	}
	if q.MaxPrice != nil {
		conditions = append(conditions, "price <= "+arg(*q.MaxPrice))
	}

	sortCol, ok := searchSortColumns[q.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		direction = "ASC"
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	limit := q.Limit
	if limit < 1 {
		limit = 20
	}

	query := "SELECT " + productColumns + ", count(*) OVER() AS total FROM products"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY %s %s", sortCol, direction)
	query += " LIMIT " + arg(limit) + " OFFSET " + arg((page-1)*limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to search products", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var (
		products []*domain.Product
		total    int
	)
	for rows.Next() {
		product, dests := productScanDests()
		dests = append(dests, &total)
		if err := rows.Scan(dests...); err != nil {
			r.logger.Error("Failed to scan product row", zap.Error(err))
			return nil, 0, err
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE slug = $1"
	return r.getOne(ctx, query, slug, slug)
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE id = $1"
	return r.getOne(ctx, query, id, id.String())
}

func (r *productRepository) getOne(ctx context.Context, query string, param interface{}, paramStr string) (*domain.Product, error) {
	product, dests := productScanDests()

	err := r.db.QueryRowContext(ctx, query, param).Scan(dests...)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: paramStr}
	}
	if err != nil {
		r.logger.Error("Failed to get product", zap.Error(err))
		return nil, err
	}

	return product, nil
}

// DecrementStock reduces available stock, flooring at zero, and flips
// in_stock when the product runs out.
func (r *productRepository) DecrementStock(ctx context.Context, productID string, quantity int) error {
	id, err := uuid.Parse(productID)
	if err != nil {
		return &errors.ErrValidation{Field: "productId", Message: "not a valid product ID"}
	}

	query := `
		UPDATE products
		SET stock_quantity = GREATEST(stock_quantity - $2, 0),
		    in_stock = (stock_quantity - $2) > 0,
		    updated_at = now()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, quantity)
	if err != nil {
		r.logger.Error("Failed to decrement stock", zap.Error(err), zap.String("product_id", productID))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: productID}
	}

	return nil
}

// productScanDests returns a product and scan destinations matching
// productColumns.
func productScanDests() (*domain.Product, []interface{}) {
	product := &domain.Product{}
	return product, []interface{}{
		&product.ID,
		&product.Slug,
		&product.Name,
		&product.Description,
		&product.Brand,
		&product.Category,
		&product.Subcategory,
		&product.Gender,
		&product.Price,
		&nullFloat{&product.OriginalPrice},
		pq.Array(&product.Images),
		&nullInt{&product.ShopID},
		&product.IsFeatured,
		&product.InStock,
		&product.StockQuantity,
		&product.Rating,
		&product.ReviewCount,
		&product.CreatedAt,
		&product.UpdatedAt,
	}
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	var products []*domain.Product
	for rows.Next() {
		product, dests := productScanDests()
		if err := rows.Scan(dests...); err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// nullFloat scans a nullable float column into a *float64 field.
type nullFloat struct {
	dest **float64
}

func (n *nullFloat) Scan(value interface{}) error {
	var v sql.NullFloat64
	if err := v.Scan(value); err != nil {
		return err
	}
	if v.Valid {
		*n.dest = &v.Float64
	} else {
		*n.dest = nil
	}
	return nil
}

// nullInt scans a nullable bigint column into a *int64 field.
type nullInt struct {
	dest **int64
}

func (n *nullInt) Scan(value interface{}) error {
	var v sql.NullInt64
	if err := v.Scan(value); err != nil {
		return err
	}
	if v.Valid {
		*n.dest = &v.Int64
	} else {
		*n.dest = nil
	}
	return nil
}
