package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/application/service"
	"github.com/rosedale/studio-api/internal/metrics"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/request"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
	"github.com/rosedale/studio-api/pkg/monitoring"
)

// CustomerWebhookHandler receives customer signups from the booking and
// payment platforms
type CustomerWebhookHandler struct {
	customers     *service.CustomerService
	normalizer    *service.Normalizer
	notifications *service.NotificationService
	monitor       *monitoring.Monitor
	phonePrefix   string
}

// NewCustomerWebhookHandler creates a new customer webhook handler
func NewCustomerWebhookHandler(
	customers *service.CustomerService,
	normalizer *service.Normalizer,
	notifications *service.NotificationService,
	monitor *monitoring.Monitor,
	phonePrefix string,
) *CustomerWebhookHandler {
	return &CustomerWebhookHandler{
		customers:     customers,
		normalizer:    normalizer,
		notifications: notifications,
		monitor:       monitor,
		phonePrefix:   phonePrefix,
	}
}

// NewLatepoint handles POST /customers/new/latepoint
func (h *CustomerWebhookHandler) NewLatepoint(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.reject(c, "latepoint", apperror.NewValidationError("Invalid form payload"))
		return
	}
	form, err := request.ParseLatepointCustomerForm(c.Request.PostForm)
	if err != nil {
		h.reject(c, "latepoint", err)
		return
	}
	if ok, reason := form.Validate(h.phonePrefix); !ok {
		h.reject(c, "latepoint", apperror.NewValidationError(reason))
		return
	}

	record, err := h.normalizer.NormalizeLatepoint(c.Request.Context(), form)
	if err != nil {
		h.reject(c, "latepoint", err)
		return
	}
	h.reconcile(c, "latepoint", record)
}

// NewSquare handles POST /customers/new/square
func (h *CustomerWebhookHandler) NewSquare(c *gin.Context) {
	var envelope request.SquareCustomerEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		h.reject(c, "square", apperror.NewValidationError("Invalid JSON payload"))
		return
	}
	customer := &envelope.Data.Object.Customer
	if ok, reason := customer.Validate(); !ok {
		h.reject(c, "square", apperror.NewValidationError(reason))
		return
	}

	record, err := h.normalizer.NormalizeSquare(c.Request.Context(), customer)
	if err != nil {
		h.reject(c, "square", err)
		return
	}
	h.reconcile(c, "square", record)
}

func (h *CustomerWebhookHandler) reconcile(c *gin.Context, source string, record *service.CustomerRecord) {
	customer, action, err := h.customers.Reconcile(c.Request.Context(), record)
	if err != nil {
		h.reject(c, source, err)
		return
	}

	// Side effects never block or fail the delivery
	if action == service.ActionCreated {
		created := *customer
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			h.notifications.NotifyNewCustomer(ctx, &created)
			h.notifications.SubscribeToMailingList(ctx, &created)
		}()
	}

	metrics.WebhooksProcessedTotal.WithLabelValues(source, action).Inc()
	status := http.StatusOK
	message := "Customer updated successfully"
	if action == service.ActionCreated {
		status = http.StatusCreated
		message = "Customer created successfully"
	}
	response.Success(c, status, message, gin.H{
		"id":     customer.ID,
		"action": action,
	})
}

func (h *CustomerWebhookHandler) reject(c *gin.Context, source string, err error) {
	appErr := apperror.GetAppError(err)
	if appErr.Code >= http.StatusInternalServerError {
		h.monitor.CaptureError(err, source+" customer webhook")
	}
	metrics.WebhooksProcessedTotal.WithLabelValues(source, "rejected").Inc()
	response.Error(c, err)
}
