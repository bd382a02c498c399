package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/application/service"
	"github.com/rosedale/studio-api/internal/metrics"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/request"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
	"github.com/rosedale/studio-api/pkg/monitoring"
)

// OrderWebhookHandler receives order snapshots from both platforms on a
// single endpoint, switched by the source query parameter
type OrderWebhookHandler struct {
	orders  *service.OrderService
	monitor *monitoring.Monitor
}

// NewOrderWebhookHandler creates a new order webhook handler
func NewOrderWebhookHandler(orders *service.OrderService, monitor *monitoring.Monitor) *OrderWebhookHandler {
	return &OrderWebhookHandler{orders: orders, monitor: monitor}
}

// New handles POST /webhooks/orders/new?source=latepoint|square
func (h *OrderWebhookHandler) New(c *gin.Context) {
	source := c.Query("source")
	switch source {
	case "latepoint":
		h.newLatepoint(c)
	case "square":
		h.newSquare(c)
	default:
		response.Error(c, apperror.NewValidationError("source must be latepoint or square"))
	}
}

func (h *OrderWebhookHandler) newLatepoint(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.reject(c, "latepoint", apperror.NewValidationError("Invalid form payload"))
		return
	}
	form := request.ParseLatepointOrderForm(c.Request.PostForm)
	if ok, reason := form.Validate(); !ok {
		h.reject(c, "latepoint", apperror.NewValidationError(reason))
		return
	}

	order, action, err := h.orders.IngestLatepoint(c.Request.Context(), form)
	if err != nil {
		h.reject(c, "latepoint", err)
		return
	}
	h.accept(c, "latepoint", order.ID, action)
}

func (h *OrderWebhookHandler) newSquare(c *gin.Context) {
	var envelope request.SquareOrderEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		h.reject(c, "square", apperror.NewValidationError("Invalid JSON payload"))
		return
	}
	payload := &envelope.Data.Object.Order
	if ok, reason := payload.Validate(); !ok {
		h.reject(c, "square", apperror.NewValidationError(reason))
		return
	}

	order, action, err := h.orders.IngestSquare(c.Request.Context(), payload)
	if err != nil {
		h.reject(c, "square", err)
		return
	}
	h.accept(c, "square", order.ID, action)
}

func (h *OrderWebhookHandler) accept(c *gin.Context, source string, orderID uint, action string) {
	metrics.WebhooksProcessedTotal.WithLabelValues(source, action).Inc()
	message := "Order updated successfully"
	if action == service.ActionCreated {
		message = "Order created successfully"
	}
	response.Success(c, http.StatusOK, message, gin.H{
		"order_id": orderID,
		"action":   action,
	})
}

func (h *OrderWebhookHandler) reject(c *gin.Context, source string, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		h.monitor.CaptureError(err, source+" order webhook")
	}
	metrics.WebhooksProcessedTotal.WithLabelValues(source, "rejected").Inc()
	response.Error(c, err)
}
