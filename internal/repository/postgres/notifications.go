package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/pkg/errors"
)

type notificationRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB, logger *zap.Logger) *notificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, title, message, type, action_url,
			metadata, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}
	if n.Metadata == nil {
		n.Metadata = map[string]interface{}{}
	}

	metadataJSON, err := json.Marshal(n.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Message,
		n.Type,
		n.ActionURL,
		metadataJSON,
		n.IsRead,
		n.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create notification", zap.Error(err))
		return err
	}

	return nil
}

// ListByUser returns a user's notifications newest-first along with the
// unread count.
func (r *notificationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, int, error) {
	query := `
		SELECT id, user_id, title, message, type, action_url, metadata, is_read,
			created_at, count(*) FILTER (WHERE NOT is_read) OVER() AS unread
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list notifications", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var (
		notifications []*domain.Notification
		unread        int
	)
	for rows.Next() {
		var (
			n            domain.Notification
			actionURL    sql.NullString
			metadataJSON []byte
		)
		err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Message,
			&n.Type,
			&actionURL,
			&metadataJSON,
			&n.IsRead,
			&n.CreatedAt,
			&unread,
		)
		if err != nil {
			return nil, 0, err
		}
		if actionURL.Valid {
			n.ActionURL = &actionURL.String
		}
		if len(metadataJSON) > 0 {
			if err := json.Unmarshal(metadataJSON, &n.Metadata); err != nil {
				return nil, 0, err
			}
		}
		notifications = append(notifications, &n)
	}

	return notifications, unread, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Error("Failed to mark notification read", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return &errors.ErrNotFound{Resource: "notification", ID: id.String()}
	}

	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	query := `
		UPDATE notifications
		SET is_read = true
		WHERE user_id = $1 AND NOT is_read
	`

	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		r.logger.Error("Failed to mark all notifications read", zap.Error(err))
		return err
	}

	return nil
}
