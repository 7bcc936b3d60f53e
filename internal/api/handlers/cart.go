package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/pricing"
	"github.com/pehenava/storefront/internal/repository"
	"github.com/pehenava/storefront/internal/service"
)

// AddCartItemRequest is the add-to-cart payload.
type AddCartItemRequest struct {
	ProductID     string   `json:"productId" binding:"required"`
	Name          string   `json:"name" binding:"required"`
	UnitPrice     float64  `json:"unitPrice" binding:"required,min=0"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Quantity      int      `json:"quantity"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
	Image         string   `json:"image,omitempty"`
	InStock       bool     `json:"inStock"`
}

// UpdateQuantityRequest adjusts one cart line by a delta.
type UpdateQuantityRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Delta     int    `json:"delta" binding:"required"`
}

// RemoveCartItemRequest identifies the cart line to remove.
type RemoveCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

// ReplaceCartRequest overwrites the full cart snapshot.
type ReplaceCartRequest struct {
	Items []domain.CartItem `json:"items" binding:"required"`
}

// CartResponse is a cart snapshot with its pricing breakdown.
type CartResponse struct {
	UserID string            `json:"userId"`
	Items  []domain.CartItem `json:"items"`
	Totals domain.CartTotals `json:"totals"`
}

func cartResponse(cart *domain.Cart, calc *pricing.Calculator) CartResponse {
	return CartResponse{
		UserID: cart.UserID,
		Items:  cart.Items,
		Totals: calc.Totals(cart.Items),
	}
}

// HandleGetCart handles GET /v1/cart/:userId
func HandleGetCart(repos *repository.Repositories, calc *pricing.Calculator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartService := service.NewCartService(repos, calc, logger)

		cart, totals, err := cartService.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, CartResponse{UserID: cart.UserID, Items: cart.Items, Totals: totals})
	}
}

// HandleReplaceCart handles POST /v1/cart/:userId
func HandleReplaceCart(repos *repository.Repositories, calc *pricing.Calculator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ReplaceCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		cartService := service.NewCartService(repos, calc, logger)
		cart, err := cartService.Replace(c.Request.Context(), c.Param("userId"), req.Items)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart, calc))
	}
}

// HandleAddCartItem handles POST /v1/cart/:userId/items
func HandleAddCartItem(repos *repository.Repositories, calc *pricing.Calculator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		item := domain.CartItem{
			ProductID:     req.ProductID,
			Name:          req.Name,
			UnitPrice:     req.UnitPrice,
			OriginalPrice: req.OriginalPrice,
			Quantity:      req.Quantity,
			Size:          req.Size,
			Color:         req.Color,
			Image:         req.Image,
			InStock:       req.InStock,
		}

		cartService := service.NewCartService(repos, calc, logger)
		cart, err := cartService.AddItem(c.Request.Context(), c.Param("userId"), item)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart, calc))
	}
}

// HandleUpdateCartQuantity handles PATCH /v1/cart/:userId/items
func HandleUpdateCartQuantity(repos *repository.Repositories, calc *pricing.Calculator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		key := domain.CartItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}

		cartService := service.NewCartService(repos, calc, logger)
		cart, err := cartService.UpdateQuantity(c.Request.Context(), c.Param("userId"), key, req.Delta)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart, calc))
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/:userId/items
func HandleRemoveCartItem(repos *repository.Repositories, calc *pricing.Calculator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RemoveCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		key := domain.CartItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color}

		cartService := service.NewCartService(repos, calc, logger)
		cart, err := cartService.RemoveItem(c.Request.Context(), c.Param("userId"), key)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, cartResponse(cart, calc))
	}
}

// HandleClearCart handles DELETE /v1/cart/:userId
func HandleClearCart(repos *repository.Repositories, calc *pricing.Calculator, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		cartService := service.NewCartService(repos, calc, logger)
		if err := cartService.Clear(c.Request.Context(), userID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, CartResponse{
			UserID: userID,
			Items:  []domain.CartItem{},
			Totals: domain.CartTotals{},
		})
	}
}
