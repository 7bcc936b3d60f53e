package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/messaging"
	"github.com/pehenava/storefront/internal/repository"
)

type notificationService struct {
	repos     *repository.Repositories
	publisher messaging.Publisher
	topic     string
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(repos *repository.Repositories, publisher messaging.Publisher, topic string, logger *zap.Logger) *notificationService {
	return &notificationService{
		repos:     repos,
		publisher: publisher,
		topic:     topic,
		logger:    logger,
	}
}

// notificationEvent is the broadcast payload for realtime consumers.
type notificationEvent struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"user_id"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Type      string                 `json:"type"`
	ActionURL *string                `json:"action_url,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt string                 `json:"created_at"`
}

// Create persists a notification and broadcasts it. A broadcast failure
// is logged but never fails the request; the persisted row is the source
// of truth.
func (s *notificationService) Create(ctx context.Context, input CreateNotificationInput) (*domain.Notification, error) {
	notificationType := domain.NotificationType(input.Type)
	if !notificationType.IsValid() {
		notificationType = domain.NotificationTypeSystem
	}

	n := &domain.Notification{
		UserID:    input.UserID,
		Title:     input.Title,
		Message:   input.Message,
		Type:      notificationType,
		ActionURL: input.ActionURL,
		Metadata:  input.Metadata,
	}

	if err := s.repos.Notification.Create(ctx, n); err != nil {
		return nil, err
	}

	event := notificationEvent{
		ID:        n.ID.String(),
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		ActionURL: n.ActionURL,
		Metadata:  n.Metadata,
		CreatedAt: n.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if err := s.publisher.PublishEvent(ctx, s.topic, n.UserID, event); err != nil {
		s.logger.Warn("Failed to broadcast notification",
			zap.String("notification_id", n.ID.String()),
			zap.Error(err),
		)
	}

	return n, nil
}

// ListByUser returns notifications newest-first with the unread count.
func (s *notificationService) ListByUser(ctx context.Context, userID string) ([]*domain.Notification, int, error) {
	return s.repos.Notification.ListByUser(ctx, userID)
}

// MarkRead marks one notification as read.
func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repos.Notification.MarkRead(ctx, id)
}

// MarkAllRead marks every notification for the user as read.
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repos.Notification.MarkAllRead(ctx, userID)
}
