package repository

import (
	"context"

	"github.com/rosedale/studio-api/internal/domain/entity"
)

// CustomerRepository defines the interface for customer data operations.
// Lookups return (nil, nil) when no row matches; not-found is a value, not
// an error.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uint) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	GetByBookingSystemID(ctx context.Context, id int64) (*entity.Customer, error)
	GetByPaymentSystemID(ctx context.Context, id string) (*entity.Customer, error)
	Update(ctx context.Context, customer *entity.Customer) error
}
