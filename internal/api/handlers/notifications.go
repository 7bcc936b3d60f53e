package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pehenava/storefront/internal/config"
	"github.com/pehenava/storefront/internal/domain"
	"github.com/pehenava/storefront/internal/messaging"
	"github.com/pehenava/storefront/internal/repository"
	"github.com/pehenava/storefront/internal/service"
)

// NotificationResponse is the notification shape returned to the client.
type NotificationResponse struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      domain.NotificationType `json:"type"`
	ActionURL *string                 `json:"actionUrl,omitempty"`
	Metadata  map[string]interface{}  `json:"metadata,omitempty"`
	IsRead    bool                    `json:"isRead"`
	CreatedAt string                  `json:"createdAt"`
}

func toNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		ActionURL: n.ActionURL,
		Metadata:  n.Metadata,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.Format(timeLayout),
	}
}

// HandleCreateNotification handles POST /v1/notifications
func HandleCreateNotification(cfg *config.Config, repos *repository.Repositories, publisher messaging.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input service.CreateNotificationInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		notifications := service.NewNotificationService(repos, publisher, cfg.Kafka.NotificationTopic, logger)

		n, err := notifications.Create(c.Request.Context(), input)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":      true,
			"notification": toNotificationResponse(n),
		})
	}
}

// HandleListNotifications handles GET /v1/notifications/user/:userId
func HandleListNotifications(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		notifications, unread, err := repos.Notification.ListByUser(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]NotificationResponse, 0, len(notifications))
		for _, n := range notifications {
			responses = append(responses, toNotificationResponse(n))
		}

		c.JSON(http.StatusOK, gin.H{
			"notifications": responses,
			"unreadCount":   unread,
		})
	}
}

// HandleMarkNotificationRead handles PATCH /v1/notifications/:id/read
func HandleMarkNotificationRead(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification ID"})
			return
		}

		if err := repos.Notification.MarkRead(c.Request.Context(), id); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// HandleMarkAllNotificationsRead handles PATCH /v1/notifications/user/:userId/read-all
func HandleMarkAllNotificationsRead(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := repos.Notification.MarkAllRead(c.Request.Context(), c.Param("userId")); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
