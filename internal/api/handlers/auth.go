package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/email"
	"github.com/pehenava/storefront/internal/repository"
	"github.com/pehenava/storefront/internal/service"
	"github.com/pehenava/storefront/pkg/errors"
)

// RequestOTPRequest asks for a verification code.
type RequestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Type  string `json:"type"`
}

// VerifyOTPRequest submits a received code.
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

// HandleRequestOTP handles POST /v1/auth/request-otp
func HandleRequestOTP(cfg *config.Config, repos *repository.Repositories, sender email.Sender, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RequestOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
			return
		}

		purpose := domain.OTPPurpose(req.Type)
		if req.Type == "" {
			purpose = domain.OTPPurposeSignup
		}

		otpService := service.NewOTPService(repos, sender, cfg.OTP, cfg.Email.AppURL, logger)

		expiresIn, err := otpService.RequestOTP(c.Request.Context(), req.Email, purpose)
		if err != nil {
			if _, ok := err.(*errors.ErrConflict); ok {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "User already exists and is verified",
					"code":  "USER_ALREADY_EXISTS",
				})
				return
			}
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "OTP sent successfully",
			"expires_in": expiresIn,
		})
	}
}

// HandleVerifyOTP handles POST /v1/auth/verify-otp
func HandleVerifyOTP(cfg *config.Config, repos *repository.Repositories, sender email.Sender, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req VerifyOTPRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and code are required"})
			return
		}

		otpService := service.NewOTPService(repos, sender, cfg.OTP, cfg.Email.AppURL, logger)

		if err := otpService.VerifyOTP(c.Request.Context(), req.Email, req.Code); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Email verified successfully",
		})
	}
}
