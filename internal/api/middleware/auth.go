package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/pehenava/storefront/internal/config"
)

// AdminAuthMiddleware guards the admin route group. The caller presents
// the admin API key as a bearer token; it is checked against the bcrypt
// hash from configuration.
func AdminAuthMiddleware(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Admin.APIKeyHash == "" {
			logger.Warn("Admin API key hash not configured, rejecting request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		header := c.GetHeader("Authorization")
		key := strings.TrimPrefix(header, "Bearer ")
		if key == "" || key == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing API key"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(cfg.Admin.APIKeyHash), []byte(key)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Next()
	}
}
