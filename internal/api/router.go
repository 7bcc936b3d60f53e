package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/api/handlers"
	"github.com/pehenava/storefront/internal/api/middleware"
	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/email"
	"github.com/pehenava/storefront/internal/messaging"
	"github.com/pehenava/storefront/internal/pricing"
	"github.com/pehenava/storefront/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, publisher messaging.Publisher, sender email.Sender, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	calc := pricing.NewCalculator(cfg.Pricing)

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", handlers.HandleListProducts(repos, logger))
			products.GET("/search", handlers.HandleSearchProducts(repos, logger))
			products.GET("/id/:id", handlers.HandleGetProductByID(repos, logger))
			products.GET("/:slug", handlers.HandleGetProductBySlug(repos, logger))
		}

		cart := v1.Group("/cart")
		{
			cart.GET("/:userId", handlers.HandleGetCart(repos, calc, logger))
			cart.POST("/:userId", handlers.HandleReplaceCart(repos, calc, logger))
			cart.DELETE("/:userId", handlers.HandleClearCart(repos, calc, logger))
			cart.POST("/:userId/items", handlers.HandleAddCartItem(repos, calc, logger))
			cart.PATCH("/:userId/items", handlers.HandleUpdateCartQuantity(repos, calc, logger))
			cart.DELETE("/:userId/items", handlers.HandleRemoveCartItem(repos, calc, logger))
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", handlers.HandleCreateOrder(cfg, repos, publisher, logger))
			orders.GET("/:id", handlers.HandleGetOrder(cfg, repos, publisher, logger))
			orders.GET("/user/:userId", handlers.HandleListUserOrders(repos, logger))
			orders.POST("/:id/cancel", handlers.HandleCancelOrder(cfg, repos, publisher, logger))
		}

		auth := v1.Group("/auth")
		{
			auth.POST("/request-otp", handlers.HandleRequestOTP(cfg, repos, sender, logger))
			auth.POST("/verify-otp", handlers.HandleVerifyOTP(cfg, repos, sender, logger))
		}

		notifications := v1.Group("/notifications")
		{
			notifications.POST("", handlers.HandleCreateNotification(cfg, repos, publisher, logger))
			notifications.GET("/user/:userId", handlers.HandleListNotifications(repos, logger))
			notifications.PATCH("/:id/read", handlers.HandleMarkNotificationRead(repos, logger))
			notifications.PATCH("/user/:userId/read-all", handlers.HandleMarkAllNotificationsRead(repos, logger))
		}

		wishlist := v1.Group("/wishlist")
		{
			wishlist.POST("", handlers.HandleAddWishlistItem(repos, logger))
			wishlist.DELETE("", handlers.HandleRemoveWishlistItem(repos, logger))
			wishlist.GET("/user/:userId", handlers.HandleGetWishlist(repos, logger))
			wishlist.DELETE("/user/:userId", handlers.HandleClearWishlist(repos, logger))
		}

		compare := v1.Group("/compare")
		{
			compare.POST("", handlers.HandleAddCompareItem(repos, logger))
			compare.DELETE("", handlers.HandleRemoveCompareItem(repos, logger))
			compare.GET("/user/:userId", handlers.HandleGetCompareList(repos, logger))
			compare.DELETE("/user/:userId", handlers.HandleClearCompareList(repos, logger))
		}

		// Admin routes
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AdminAuthMiddleware(cfg, logger))
		{
			adminRoutes.GET("/orders", handlers.HandleListOrders(repos, logger))
			adminRoutes.PATCH("/orders/:id/status", handlers.HandleUpdateOrderStatus(cfg, repos, publisher, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
