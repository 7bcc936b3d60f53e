package service

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/email"
	"github.com/pehenava/storefront/internal/repository"
	pkgerrors "github.com/pehenava/storefront/pkg/errors"
)

type otpService struct {
	repos  *repository.Repositories
	sender email.Sender
	cfg    config.OTPConfig
	appURL string
	logger *zap.Logger
}

// NewOTPService creates a new OTP service
func NewOTPService(repos *repository.Repositories, sender email.Sender, cfg config.OTPConfig, appURL string, logger *zap.Logger) *otpService {
	return &otpService{
		repos:  repos,
		sender: sender,
		cfg:    cfg,
		appURL: appURL,
		logger: logger,
	}
}

// RequestOTP issues a verification code for the email address, creating
// an unverified account when none exists. Returns the code lifetime in
// seconds. An email delivery failure is logged, not surfaced: the code is
// stored and a resend can follow.
func (s *otpService) RequestOTP(ctx context.Context, address string, purpose domain.OTPPurpose) (int, error) {
	if address == "" {
		return 0, &pkgerrors.ErrValidation{Field: "email", Message: "required"}
	}
	if !purpose.IsValid() {
		purpose = domain.OTPPurposeSignup
	}

	user, err := s.repos.User.GetByEmail(ctx, address)
	switch err.(type) {
	case nil:
		if user.IsVerified && purpose == domain.OTPPurposeSignup {
			return 0, &pkgerrors.ErrConflict{Message: "user already exists and is verified"}
		}
	case *pkgerrors.ErrNotFound:
		user = &domain.User{Email: address, IsVerified: false, IsActive: true}
		if err := s.repos.User.Create(ctx, user); err != nil {
			return 0, err
		}
	default:
		return 0, err
	}

	code, err := generateCode(s.cfg.Length)
	if err != nil {
		return 0, err
	}

	expiry := time.Duration(s.cfg.ExpirySeconds) * time.Second
	verification := &domain.EmailVerification{
		UserID:    user.ID,
		Email:     address,
		CodeHash:  hashCode(s.cfg.Secret, address, code),
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(expiry),
	}
	if err := s.repos.Verification.Create(ctx, verification); err != nil {
		return 0, err
	}

	subject := "Pehenava - Email Verification Code"
	if purpose == domain.OTPPurposeSignup {
		subject = "Welcome to Pehenava - Verify Your Email"
	}

	msg := email.Message{
		To:      address,
		Subject: subject,
		HTML:    verificationEmailHTML(code, int(expiry.Minutes()), s.appURL),
	}
	if err := s.sender.Send(ctx, msg); err != nil {
		s.logger.Error("Failed to send verification email",
			zap.String("email", address),
			zap.Error(err),
		)
	}

	return s.cfg.ExpirySeconds, nil
}

// VerifyOTP checks a submitted code against the latest issued one. On
// success the code is consumed and the account marked verified.
func (s *otpService) VerifyOTP(ctx context.Context, address, code string) error {
	if address == "" || code == "" {
		return &pkgerrors.ErrValidation{Message: "email and code are required"}
	}

	verification, err := s.repos.Verification.GetLatest(ctx, address)
	if err != nil {
		if _, ok := err.(*pkgerrors.ErrNotFound); ok {
			return &pkgerrors.ErrOTPInvalid{Reason: "no code was requested for this email"}
		}
		return err
	}

	if verification.IsUsed {
		return &pkgerrors.ErrOTPInvalid{Reason: "code already used"}
	}
	if time.Now().After(verification.ExpiresAt) {
		return &pkgerrors.ErrOTPInvalid{Reason: "code expired"}
	}

	expected := hashCode(s.cfg.Secret, address, code)
	if subtle.ConstantTimeCompare([]byte(expected), []byte(verification.CodeHash)) != 1 {
		return &pkgerrors.ErrOTPInvalid{Reason: "code does not match"}
	}

	if err := s.repos.Verification.MarkUsed(ctx, verification.ID); err != nil {
		return err
	}
	if err := s.repos.User.MarkVerified(ctx, verification.UserID); err != nil {
		return err
	}

	return nil
}

// generateCode produces a numeric code of the given length.
func generateCode(length int) (string, error) {
	if length < 4 {
		length = 6
	}

	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate code: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// hashCode computes the at-rest HMAC of a code, keyed by the OTP secret.
func hashCode(secret, address, code string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strings.ToLower(address) + ":" + code))
	return hex.EncodeToString(mac.Sum(nil))
}

func verificationEmailHTML(code string, expiryMinutes int, appURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Welcome to Pehenava!</h1>
    <p>To complete your registration, please verify your email address.</p>
    <p><strong>Your verification code is:</strong></p>
    <div style="background: #1f2937; color: #f59e0b; font-size: 32px; font-weight: bold; text-align: center; padding: 20px; letter-spacing: 5px;">%s</div>
    <p>This code will expire in %d minutes.</p>
    <p>If you didn't create an account with Pehenava, please ignore this email.</p>
    <p><a href="%s/verify-email">Verify Email Address</a></p>
  </div>
</body>
</html>`, code, expiryMinutes, appURL)
}
