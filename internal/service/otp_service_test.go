package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/repository"
	pkgerrors "github.com/pehenava/storefront/pkg/errors"
)

type otpFixture struct {
	users         *fakeUserRepo
	verifications *fakeVerificationRepo
	sender        *fakeSender
	svc           *otpService
}

func newOTPFixture() *otpFixture {
	f := &otpFixture{
		users:         newFakeUserRepo(),
		verifications: newFakeVerificationRepo(),
		sender:        &fakeSender{},
	}
	repos := &repository.Repositories{
		User:         f.users,
		Verification: f.verifications,
	}
	cfg := config.OTPConfig{
		Secret:        "test-secret",
		Length:        6,
		ExpirySeconds: 600,
	}
	f.svc = NewOTPService(repos, f.sender, cfg, "http://localhost:5173", zap.NewNop())
	return f
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

// sentCode extracts the emailed code from the captured message body.
func (f *otpFixture) sentCode(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sender.messages)
	match := codePattern.FindStringSubmatch(f.sender.messages[len(f.sender.messages)-1].HTML)
	require.NotNil(t, match, "email body should contain a 6-digit code")
	return match[1]
}

func TestRequestOTP_CreatesUnverifiedUser(t *testing.T) {
	f := newOTPFixture()

	expiresIn, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)
	require.NoError(t, err)

	assert.Equal(t, 600, expiresIn)

	user, err := f.users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
	assert.True(t, user.IsActive)
}

func TestRequestOTP_StoresHashNotCode(t *testing.T) {
	f := newOTPFixture()

	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)
	require.NoError(t, err)

	code := f.sentCode(t)
	v, err := f.verifications.GetLatest(context.Background(), "asha@example.com")
	require.NoError(t, err)

	assert.NotContains(t, v.CodeHash, code)
	assert.Equal(t, hashCode("test-secret", "asha@example.com", code), v.CodeHash)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), v.ExpiresAt, time.Minute)
}

func TestRequestOTP_VerifiedUserSignupConflicts(t *testing.T) {
	f := newOTPFixture()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		Email: "asha@example.com", IsVerified: true, IsActive: true,
	}))

	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)

	var conflict *pkgerrors.ErrConflict
	assert.ErrorAs(t, err, &conflict)
}

func TestRequestOTP_VerifiedUserLoginAllowed(t *testing.T) {
	f := newOTPFixture()
	require.NoError(t, f.users.Create(context.Background(), &domain.User{
		Email: "asha@example.com", IsVerified: true, IsActive: true,
	}))

	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeLogin)
	assert.NoError(t, err)
}

func TestRequestOTP_EmailFailureStillSucceeds(t *testing.T) {
	f := newOTPFixture()
	f.sender.sendErr = errors.New("resend unavailable")

	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)
	require.NoError(t, err)

	// The code is stored, so a resend can still verify.
	_, err = f.verifications.GetLatest(context.Background(), "asha@example.com")
	assert.NoError(t, err)
}

func TestVerifyOTP_Succeeds(t *testing.T) {
	f := newOTPFixture()
	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)
	require.NoError(t, err)
	code := f.sentCode(t)

	require.NoError(t, f.svc.VerifyOTP(context.Background(), "asha@example.com", code))

	user, err := f.users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	v, err := f.verifications.GetLatest(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.True(t, v.IsUsed)
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	f := newOTPFixture()
	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)
	require.NoError(t, err)

	err = f.svc.VerifyOTP(context.Background(), "asha@example.com", "000000")

	var invalid *pkgerrors.ErrOTPInvalid
	require.ErrorAs(t, err, &invalid)

	user, err := f.users.GetByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.False(t, user.IsVerified)
}

func TestVerifyOTP_ExpiredCode(t *testing.T) {
	f := newOTPFixture()
	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)
	require.NoError(t, err)
	code := f.sentCode(t)

	v, err := f.verifications.GetLatest(context.Background(), "asha@example.com")
	require.NoError(t, err)
	v.ExpiresAt = time.Now().Add(-time.Minute)

	err = f.svc.VerifyOTP(context.Background(), "asha@example.com", code)

	var invalid *pkgerrors.ErrOTPInvalid
	assert.ErrorAs(t, err, &invalid)
}

func TestVerifyOTP_CodeCannotBeReused(t *testing.T) {
	f := newOTPFixture()
	_, err := f.svc.RequestOTP(context.Background(), "asha@example.com", domain.OTPPurposeSignup)
	require.NoError(t, err)
	code := f.sentCode(t)

	require.NoError(t, f.svc.VerifyOTP(context.Background(), "asha@example.com", code))
	err = f.svc.VerifyOTP(context.Background(), "asha@example.com", code)

	var invalid *pkgerrors.ErrOTPInvalid
	assert.ErrorAs(t, err, &invalid)
}

func TestVerifyOTP_NoCodeRequested(t *testing.T) {
	f := newOTPFixture()

	err := f.svc.VerifyOTP(context.Background(), "nobody@example.com", "123456")

	var invalid *pkgerrors.ErrOTPInvalid
	assert.ErrorAs(t, err, &invalid)
}

func TestGenerateCode_Length(t *testing.T) {
	code, err := generateCode(6)
	require.NoError(t, err)
	assert.Regexp(t, `^\d{6}$`, code)
}
