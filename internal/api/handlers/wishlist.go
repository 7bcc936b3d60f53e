package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/repository"
)

// compareLimit caps how many products can be compared side by side.
const compareLimit = 4

// WishlistAddRequest adds one product to a user's wishlist.
type WishlistAddRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

// HandleAddWishlistItem handles POST /v1/wishlist
func HandleAddWishlistItem(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WishlistAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
			return
		}

		items, err := repos.Wishlist.Get(c.Request.Context(), req.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		for _, item := range items {
			if item.ProductID == req.ProductID {
				c.JSON(http.StatusBadRequest, gin.H{"error": "product already in wishlist"})
				return
			}
		}

		items = append(items, domain.WishlistItem{ProductID: req.ProductID, AddedAt: time.Now()})
		if err := repos.Wishlist.Save(c.Request.Context(), req.UserID, items); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "added to wishlist"})
	}
}

// HandleGetWishlist handles GET /v1/wishlist/user/:userId
func HandleGetWishlist(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := repos.Wishlist.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// HandleRemoveWishlistItem handles DELETE /v1/wishlist
func HandleRemoveWishlistItem(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req WishlistAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
			return
		}

		items, err := repos.Wishlist.Get(c.Request.Context(), req.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		filtered := items[:0]
		for _, item := range items {
			if item.ProductID != req.ProductID {
				filtered = append(filtered, item)
			}
		}

		if err := repos.Wishlist.Save(c.Request.Context(), req.UserID, filtered); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleClearWishlist handles DELETE /v1/wishlist/user/:userId
func HandleClearWishlist(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repos.Wishlist.Clear(c.Request.Context(), c.Param("userId")); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// CompareAddRequest adds one product to a user's compare list.
type CompareAddRequest struct {
	UserID    string `json:"userId" binding:"required"`
	ProductID string `json:"productId" binding:"required"`
}

// HandleAddCompareItem handles POST /v1/compare
func HandleAddCompareItem(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompareAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
			return
		}

		ids, err := repos.Compare.Get(c.Request.Context(), req.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		// Adding a product already on the list is a no-op.
		for _, id := range ids {
			if id == req.ProductID {
				c.JSON(http.StatusOK, gin.H{"success": true, "items": ids})
				return
			}
		}

		if len(ids) >= compareLimit {
			c.JSON(http.StatusBadRequest, gin.H{"error": "compare list is full"})
			return
		}

		ids = append(ids, req.ProductID)
		if err := repos.Compare.Save(c.Request.Context(), req.UserID, ids); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "items": ids})
	}
}

// HandleGetCompareList handles GET /v1/compare/user/:userId
func HandleGetCompareList(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := repos.Compare.Get(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"items": ids})
	}
}

// HandleRemoveCompareItem handles DELETE /v1/compare
func HandleRemoveCompareItem(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CompareAddRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields"})
			return
		}

		ids, err := repos.Compare.Get(c.Request.Context(), req.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		filtered := ids[:0]
		for _, id := range ids {
			if id != req.ProductID {
				filtered = append(filtered, id)
			}
		}

		if err := repos.Compare.Save(c.Request.Context(), req.UserID, filtered); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "items": filtered})
	}
}

// HandleClearCompareList handles DELETE /v1/compare/user/:userId
func HandleClearCompareList(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repos.Compare.Clear(c.Request.Context(), c.Param("userId")); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
