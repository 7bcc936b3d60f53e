package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/repository"
)

// ProductResponse is the catalog entry shape returned to the client.
type ProductResponse struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Gender        string   `json:"gender,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Images        []string `json:"images"`
	ShopID        *int64   `json:"shopId,omitempty"`
	IsFeatured    bool     `json:"isFeatured"`
	InStock       bool     `json:"inStock"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	images := p.Images
	if images == nil {
		images = []string{}
	}
	return ProductResponse{
		ID:            p.ID.String(),
		Slug:          p.Slug,
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		Category:      p.Category,
		Subcategory:   p.Subcategory,
		Gender:        p.Gender,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Images:        images,
		ShopID:        p.ShopID,
		IsFeatured:    p.IsFeatured,
		InStock:       p.InStock,
		Rating:        p.Rating,
		Reviews:       p.ReviewCount,
	}
}

func toProductResponses(products []*domain.Product) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, toProductResponse(p))
	}
	return responses
}

// HandleListProducts handles GET /v1/products
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := repository.ProductFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Gender:   c.Query("gender"),
			Featured: c.Query("featured") == "true",
		}

		if shopID := c.Query("shopId"); shopID != "" {
			id, err := strconv.ParseInt(shopID, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid shopId"})
				return
			}
			filter.ShopID = &id
		}
		if limit := c.Query("limit"); limit != "" {
			n, err := strconv.Atoi(limit)
			if err != nil || n < 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
				return
			}
			filter.Limit = n
		}

		products, err := repos.Product.List(c.Request.Context(), filter)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toProductResponses(products))
	}
}

// HandleSearchProducts handles GET /v1/products/search
func HandleSearchProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := repository.SearchQuery{
			Query:     c.Query("q"),
			Gender:    c.Query("gender"),
			Category:  c.Query("category"),
			SortBy:    c.DefaultQuery("sort_by", "created_at"),
			SortOrder: c.DefaultQuery("sort_order", "desc"),
			Page:      1,
			Limit:     20,
		}

		if v := c.Query("min_price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
				return
			}
			q.MinPrice = &price
		}
		if v := c.Query("max_price"); v != "" {
			price, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
				return
			}
			q.MaxPrice = &price
		}
		if v := c.Query("page"); v != "" {
			if page, err := strconv.Atoi(v); err == nil && page > 0 {
				q.Page = page
			}
		}
		if v := c.Query("limit"); v != "" {
			if limit, err := strconv.Atoi(v); err == nil && limit > 0 {
				q.Limit = limit
			}
		}

		products, total, err := repos.Product.Search(c.Request.Context(), q)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		totalPages := (total + q.Limit - 1) / q.Limit
		c.JSON(http.StatusOK, gin.H{
			"products": toProductResponses(products),
			"pagination": gin.H{
				"page":       q.Page,
				"limit":      q.Limit,
				"total":      total,
				"totalPages": totalPages,
				"hasNext":    q.Page < totalPages,
				"hasPrev":    q.Page > 1,
			},
		})
	}
}

// HandleGetProductBySlug handles GET /v1/products/:slug
func HandleGetProductBySlug(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := repos.Product.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toProductResponse(product))
	}
}

// HandleGetProductByID handles GET /v1/products/id/:id
func HandleGetProductByID(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), id)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toProductResponse(product))
	}
}
