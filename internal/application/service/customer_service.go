package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/internal/domain/repository"
	"github.com/rosedale/studio-api/pkg/apperror"
)

// Reconciliation outcomes reported back to webhook handlers
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
)

type CustomerService struct {
	customerRepo  repository.CustomerRepository
	companyDomain string
}

func NewCustomerService(customerRepo repository.CustomerRepository, companyDomain string) *CustomerService {
	return &CustomerService{
		customerRepo:  customerRepo,
		companyDomain: strings.ToLower(strings.TrimSpace(companyDomain)),
	}
}

// Reconcile folds a normalized platform record into the customer table.
// Email is the identity key. A new email inserts a row; a known email
// updates only the fields the record's source platform owns, so one
// platform never clobbers data mastered by the other.
func (s *CustomerService) Reconcile(ctx context.Context, record *CustomerRecord) (*entity.Customer, string, error) {
	if record.BookingSystemID == nil && record.PaymentSystemID == nil {
		return nil, "", apperror.NewValidationError("Missing platform customer ID")
	}
	if record.Email == "" {
		return nil, "", apperror.NewValidationError("Missing required field: email")
	}

	existing, err := s.customerRepo.GetByEmail(ctx, record.Email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return s.merge(ctx, existing, record)
	}

	customer := s.build(record)
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		// A concurrent webhook for the same email can win the insert
		// race. Re-fetch and merge instead of failing the delivery.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, ferr := s.customerRepo.GetByEmail(ctx, record.Email)
			if ferr != nil {
				return nil, "", ferr
			}
			if existing == nil {
				return nil, "", apperror.NewConflictError("Customer already exists")
			}
			return s.merge(ctx, existing, record)
		}
		return nil, "", err
	}
	return customer, ActionCreated, nil
}

// FindByEmail looks up a customer by normalized email
func (s *CustomerService) FindByEmail(ctx context.Context, email string) (*entity.Customer, error) {
	return s.customerRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// FindByBookingSystemID resolves the booking platform's customer id
func (s *CustomerService) FindByBookingSystemID(ctx context.Context, id int64) (*entity.Customer, error) {
	return s.customerRepo.GetByBookingSystemID(ctx, id)
}

// FindByPaymentSystemID resolves the payment platform's customer id
func (s *CustomerService) FindByPaymentSystemID(ctx context.Context, id string) (*entity.Customer, error) {
	return s.customerRepo.GetByPaymentSystemID(ctx, id)
}

func (s *CustomerService) build(record *CustomerRecord) *entity.Customer {
	customer := &entity.Customer{
		BookingSystemID: record.BookingSystemID,
		PaymentSystemID: record.PaymentSystemID,
		FirstName:       record.FirstName,
		LastName:        record.LastName,
		Email:           record.Email,
		Phone:           record.Phone,
		Gender:          record.Gender,
		Address:         record.Address,
		Preferences:     record.Preferences,
		Type:            s.classify(record.Email),
		Status:          enum.CustomerStatusActive,
		Source:          record.Source,
	}
	if record.Preferences != nil {
		customer.NewsletterSubscribed = record.Preferences.EmailSubscribed
	}
	return customer
}

// merge applies only the fields the record's platform is authoritative
// for. Booking-platform records own the name, gender and session
// preferences; payment-platform records own the phone and address.
func (s *CustomerService) merge(ctx context.Context, customer *entity.Customer, record *CustomerRecord) (*entity.Customer, string, error) {
	switch record.Source {
	case enum.SourceLatepoint:
		if record.BookingSystemID != nil {
			customer.BookingSystemID = record.BookingSystemID
		}
		if record.FirstName != "" {
			customer.FirstName = record.FirstName
		}
		if record.LastName != "" {
			customer.LastName = record.LastName
		}
		if record.Gender != "" {
			customer.Gender = record.Gender
		}
		if record.Preferences != nil {
			customer.Preferences = record.Preferences
			customer.NewsletterSubscribed = record.Preferences.EmailSubscribed
		}
	case enum.SourceSquare:
		if record.PaymentSystemID != nil {
			customer.PaymentSystemID = record.PaymentSystemID
		}
		if record.Phone != nil {
			customer.Phone = record.Phone
		}
		if record.Address != nil {
			customer.Address = record.Address
		}
	default:
		return nil, "", apperror.NewValidationError("Unknown customer source")
	}

	// Classification is derived state, recomputed on every write
	customer.Type = s.classify(customer.Email)

	if err := s.customerRepo.Update(ctx, customer); err != nil {
		return nil, "", err
	}
	return customer, ActionUpdated, nil
}

// classify marks company-domain addresses as employees. Anything that
// does not parse as local@domain is a client.
func (s *CustomerService) classify(email string) enum.CustomerType {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return enum.CustomerTypeClient
	}
	if s.companyDomain != "" && strings.EqualFold(email[at+1:], s.companyDomain) {
		return enum.CustomerTypeEmployee
	}
	return enum.CustomerTypeClient
}
