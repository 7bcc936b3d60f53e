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

// OrderResponse is the order shape returned to the client.
type OrderResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"orderNumber"`
	UserID          string                 `json:"userId"`
	Status          domain.OrderStatus     `json:"status"`
	Subtotal        float64                `json:"subtotal"`
	TaxAmount       float64                `json:"taxAmount"`
	ShippingAmount  float64                `json:"shippingAmount"`
	DiscountAmount  float64                `json:"discountAmount"`
	TotalAmount     float64                `json:"totalAmount"`
	ShippingAddress map[string]interface{} `json:"shippingAddress"`
	BillingAddress  map[string]interface{} `json:"billingAddress,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	Items           []OrderItemResponse    `json:"items,omitempty"`
	CreatedAt       string                 `json:"createdAt"`
	UpdatedAt       string                 `json:"updatedAt"`
}

type OrderItemResponse struct {
	ProductID  string  `json:"productId"`
	Name       string  `json:"name"`
	Size       string  `json:"size,omitempty"`
	Color      string  `json:"color,omitempty"`
	UnitPrice  float64 `json:"unitPrice"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
}

const timeLayout = "2006-01-02T15:04:05Z07:00"

func toOrderResponse(order *domain.Order, items []*domain.OrderItem) OrderResponse {
	resp := OrderResponse{
		ID:              order.ID.String(),
		OrderNumber:     order.OrderNumber,
		UserID:          order.UserID,
		Status:          order.Status,
		Subtotal:        order.Subtotal,
		TaxAmount:       order.TaxAmount,
		ShippingAmount:  order.ShippingAmount,
		DiscountAmount:  order.DiscountAmount,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt.Format(timeLayout),
		UpdatedAt:       order.UpdatedAt.Format(timeLayout),
	}
	for _, item := range items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:  item.ProductID,
			Name:       item.Name,
			Size:       item.Size,
			Color:      item.Color,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.TotalPrice,
		})
	}
	return resp
}

// HandleCreateOrder handles POST /v1/orders
func HandleCreateOrder(cfg *config.Config, repos *repository.Repositories, publisher messaging.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		notifications := service.NewNotificationService(repos, publisher, cfg.Kafka.NotificationTopic, logger)
		orderService := service.NewOrderService(repos, notifications, logger)

		order, err := orderService.CreateOrder(c.Request.Context(), req.UserID, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"order":       toOrderResponse(order, nil),
			"orderNumber": order.OrderNumber,
		})
	}
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(cfg *config.Config, repos *repository.Repositories, publisher messaging.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		notifications := service.NewNotificationService(repos, publisher, cfg.Kafka.NotificationTopic, logger)
		orderService := service.NewOrderService(repos, notifications, logger)

		order, items, err := orderService.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(order, items))
	}
}

// HandleListUserOrders handles GET /v1/orders/user/:userId
func HandleListUserOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repos.Order.ListByUser(c.Request.Context(), c.Param("userId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			responses = append(responses, toOrderResponse(order, nil))
		}

		c.JSON(http.StatusOK, responses)
	}
}

// CancelOrderRequest identifies who is cancelling.
type CancelOrderRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// HandleCancelOrder handles POST /v1/orders/:id/cancel
func HandleCancelOrder(cfg *config.Config, repos *repository.Repositories, publisher messaging.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req CancelOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		notifications := service.NewNotificationService(repos, publisher, cfg.Kafka.NotificationTopic, logger)
		orderService := service.NewOrderService(repos, notifications, logger)

		order, err := orderService.CancelOrder(c.Request.Context(), orderID, req.UserID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toOrderResponse(order, nil))
	}
}

// UpdateOrderStatusRequest carries the new fulfillment status label.
type UpdateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}

// HandleUpdateOrderStatus handles PATCH /v1/admin/orders/:id/status
func HandleUpdateOrderStatus(cfg *config.Config, repos *repository.Repositories, publisher messaging.Publisher, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		notifications := service.NewNotificationService(repos, publisher, cfg.Kafka.NotificationTopic, logger)
		orderService := service.NewOrderService(repos, notifications, logger)

		if err := orderService.UpdateStatus(c.Request.Context(), orderID, req.Status); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "status": req.Status})
	}
}

// HandleListOrders handles GET /v1/admin/orders
func HandleListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var status *domain.OrderStatus
		if v := c.Query("status"); v != "" {
			s := domain.OrderStatus(v)
			if !s.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
				return
			}
			status = &s
		}

		orders, err := repos.Order.List(c.Request.Context(), status)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			responses = append(responses, toOrderResponse(order, nil))
		}

		c.JSON(http.StatusOK, responses)
	}
}
