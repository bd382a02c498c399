package repository

import (
	"context"
	"time"

	"github.com/rosedale/studio-api/internal/domain/entity"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *entity.Appointment) error
	GetByLineItemID(ctx context.Context, lineItemID uint) (*entity.Appointment, error)
	// UpcomingForAgent returns approved and pending appointments starting
	// after the given time, soonest first.
	UpcomingForAgent(ctx context.Context, agentID uint, after time.Time) ([]entity.Appointment, error)
	UpcomingForLocation(ctx context.Context, locationID uint, after time.Time) ([]entity.Appointment, error)
}
