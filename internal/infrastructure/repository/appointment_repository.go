package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	domainRepo "github.com/rosedale/studio-api/internal/domain/repository"
	"gorm.io/gorm"
)

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) domainRepo.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *entity.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *appointmentRepository) GetByLineItemID(ctx context.Context, lineItemID uint) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "order_line_item_id = ?", lineItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) UpcomingForAgent(ctx context.Context, agentID uint, after time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("agent_id = ? AND start_at > ? AND status IN ?", agentID, after,
			[]enum.AppointmentStatus{enum.AppointmentApproved, enum.AppointmentPendingApproval}).
		Order("start_at ASC").
		Find(&appointments).Error
	return appointments, err
}

func (r *appointmentRepository) UpcomingForLocation(ctx context.Context, locationID uint, after time.Time) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND start_at > ? AND status IN ?", locationID, after,
			[]enum.AppointmentStatus{enum.AppointmentApproved, enum.AppointmentPendingApproval}).
		Order("start_at ASC").
		Find(&appointments).Error
	return appointments, err
}
