package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/pkg/errors"
)

// respondError maps a service or repository error to an HTTP response.
// Unrecognized errors are logged and reduced to a generic 500 message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": e.Error()})
	case *errors.ErrConflict:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrOTPInvalid:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	default:
		logger.Error("Internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
