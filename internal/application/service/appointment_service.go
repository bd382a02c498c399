package service

import (
	"context"
	"time"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/internal/domain/repository"
	"github.com/rosedale/studio-api/pkg/apperror"
)

type AppointmentService struct {
	appointmentRepo repository.AppointmentRepository
}

func NewAppointmentService(appointmentRepo repository.AppointmentRepository) *AppointmentService {
	return &AppointmentService{appointmentRepo: appointmentRepo}
}

// ScheduleInput carries the data for booking an appointment slot
type ScheduleInput struct {
	OrderLineItemID uint
	CustomerID      uint
	AgentID         uint
	LocationID      uint
	StartAt         time.Time
	Duration        int // minutes
}

// Schedule books a slot against an order line item. Each line item holds
// at most one appointment.
func (s *AppointmentService) Schedule(ctx context.Context, input *ScheduleInput) (*entity.Appointment, error) {
	if input.Duration <= 0 {
		return nil, apperror.NewValidationError("duration must be positive")
	}
	if input.StartAt.IsZero() {
		return nil, apperror.NewValidationError("start_at is required")
	}

	existing, err := s.appointmentRepo.GetByLineItemID(ctx, input.OrderLineItemID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Line item already has an appointment")
	}

	appointment := &entity.Appointment{
		OrderLineItemID: input.OrderLineItemID,
		CustomerID:      input.CustomerID,
		AgentID:         input.AgentID,
		LocationID:      input.LocationID,
		StartAt:         input.StartAt,
		EndAt:           input.StartAt.Add(time.Duration(input.Duration) * time.Minute),
		Duration:        input.Duration,
		Status:          enum.AppointmentPendingApproval,
		PaymentStatus:   enum.PaymentNotPaid,
	}
	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// UpcomingForAgent lists an agent's future appointments, soonest first
func (s *AppointmentService) UpcomingForAgent(ctx context.Context, agentID uint) ([]entity.Appointment, error) {
	return s.appointmentRepo.UpcomingForAgent(ctx, agentID, time.Now())
}

// UpcomingForLocation lists a branch's future appointments, soonest first
func (s *AppointmentService) UpcomingForLocation(ctx context.Context, locationID uint) ([]entity.Appointment, error) {
	return s.appointmentRepo.UpcomingForLocation(ctx, locationID, time.Now())
}
