package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rosedale/studio-api/internal/application/service"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/response"
	"github.com/rosedale/studio-api/pkg/apperror"
)

// AppointmentHandler serves the internal appointments API
type AppointmentHandler struct {
	appointments *service.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointments *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type scheduleRequest struct {
	OrderLineItemID uint   `json:"order_line_item_id" binding:"required"`
	CustomerID      uint   `json:"customer_id" binding:"required"`
	AgentID         uint   `json:"agent_id" binding:"required"`
	LocationID      uint   `json:"location_id" binding:"required"`
	StartAt         string `json:"start_at" binding:"required"` // RFC 3339
	Duration        int    `json:"duration" binding:"required"`
}

// New handles POST /api/v1/appointments/new
func (h *AppointmentHandler) New(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.NewValidationError("Invalid JSON payload"))
		return
	}
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		response.Error(c, apperror.NewValidationError("start_at must be RFC 3339"))
		return
	}

	appointment, err := h.appointments.Schedule(c.Request.Context(), &service.ScheduleInput{
		OrderLineItemID: req.OrderLineItemID,
		CustomerID:      req.CustomerID,
		AgentID:         req.AgentID,
		LocationID:      req.LocationID,
		StartAt:         startAt,
		Duration:        req.Duration,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Appointment scheduled successfully", appointment)
}

// Upcoming handles GET /api/v1/appointments/upcoming?agent_id=|location_id=
func (h *AppointmentHandler) Upcoming(c *gin.Context) {
	if agentID, ok := parseIDQuery(c, "agent_id"); ok {
		appointments, err := h.appointments.UpcomingForAgent(c.Request.Context(), agentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Appointments retrieved successfully", appointments)
		return
	}
	if locationID, ok := parseIDQuery(c, "location_id"); ok {
		appointments, err := h.appointments.UpcomingForLocation(c.Request.Context(), locationID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, http.StatusOK, "Appointments retrieved successfully", appointments)
		return
	}
	response.Error(c, apperror.NewValidationError("agent_id or location_id is required"))
}

func parseIDQuery(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
