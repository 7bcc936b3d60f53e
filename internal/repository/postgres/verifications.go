package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/pkg/errors"
)

type verificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVerificationRepository creates a new email verification repository
func NewVerificationRepository(db *sql.DB, logger *zap.Logger) *verificationRepository {
	return &verificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *verificationRepository) Create(ctx context.Context, v *domain.EmailVerification) error {
	query := `
		INSERT INTO email_verifications (id, user_id, email, code_hash, purpose,
			expires_at, is_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.UserID,
		strings.ToLower(v.Email),
		v.CodeHash,
		v.Purpose,
		v.ExpiresAt,
		v.IsUsed,
		v.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create email verification", zap.Error(err))
		return err
	}

	return nil
}

// GetLatest returns the most recently issued verification for an email,
// used or not. The caller decides whether it is still acceptable.
func (r *verificationRepository) GetLatest(ctx context.Context, email string) (*domain.EmailVerification, error) {
	query := `
		SELECT id, user_id, email, code_hash, purpose, expires_at, is_used, created_at
		FROM email_verifications
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	var v domain.EmailVerification
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&v.ID,
		&v.UserID,
		&v.Email,
		&v.CodeHash,
		&v.Purpose,
		&v.ExpiresAt,
		&v.IsUsed,
		&v.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "email verification", ID: email}
	}
	if err != nil {
		r.logger.Error("Failed to get email verification", zap.Error(err))
		return nil, err
	}

	return &v, nil
}

func (r *verificationRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE email_verifications
		SET is_used = true
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark verification used", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "email verification", ID: id.String()}
	}

	return nil
}
