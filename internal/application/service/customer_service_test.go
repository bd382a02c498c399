package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/pkg/apperror"
)

// fakeCustomerRepo is an in-memory CustomerRepository. Create enforces the
// unique email index the way the database does, surfacing duplicates as
// gorm.ErrDuplicatedKey.
type fakeCustomerRepo struct {
	mu        sync.Mutex
	nextID    uint
	customers map[uint]*entity.Customer
	createErr error
	// missNextEmailLookup makes the next GetByEmail miss, simulating a
	// concurrent insert landing between the lookup and the create.
	missNextEmailLookup bool
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[uint]*entity.Customer)}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.customers {
		if existing.Email == customer.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.nextID++
	customer.ID = r.nextID
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id uint) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.customers[id]; ok {
		clone := *c
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missNextEmailLookup {
		r.missNextEmailLookup = false
		return nil, nil
	}
	for _, c := range r.customers {
		if c.Email == email {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByBookingSystemID(_ context.Context, id int64) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.BookingSystemID != nil && *c.BookingSystemID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) GetByPaymentSystemID(_ context.Context, id string) (*entity.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.customers {
		if c.PaymentSystemID != nil && *c.PaymentSystemID == id {
			clone := *c
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *customer
	r.customers[customer.ID] = &clone
	return nil
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }

func latepointRecord(email string) *CustomerRecord {
	return &CustomerRecord{
		BookingSystemID: int64Ptr(42),
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           email,
		Gender:          "female",
		Source:          enum.SourceLatepoint,
		Preferences: &entity.SessionPreferences{
			PressureLevel:   "firm",
			EmailSubscribed: true,
		},
	}
}

func squareRecord(email string) *CustomerRecord {
	return &CustomerRecord{
		PaymentSystemID: strPtr("SQ_CUST_1"),
		FirstName:       "Janet",
		LastName:        "Smith",
		Email:           email,
		Phone:           strPtr("+447911123456"),
		Source:          enum.SourceSquare,
		Address:         &entity.Address{Locality: "London", PostalCode: "N1 9GU"},
	}
}

func TestReconcileCreatesNewCustomer(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, "rosedalemassage.co.uk")

	customer, action, err := svc.Reconcile(context.Background(), latepointRecord("jane@example.com"))
	require.NoError(t, err)

	assert.Equal(t, ActionCreated, action)
	assert.NotZero(t, customer.ID)
	assert.Equal(t, enum.CustomerTypeClient, customer.Type)
	assert.Equal(t, enum.CustomerStatusActive, customer.Status)
	assert.True(t, customer.NewsletterSubscribed)
	require.NotNil(t, customer.BookingSystemID)
	assert.EqualValues(t, 42, *customer.BookingSystemID)
}

func TestReconcileRequiresExternalID(t *testing.T) {
	svc := NewCustomerService(newFakeCustomerRepo(), "rosedalemassage.co.uk")

	record := latepointRecord("jane@example.com")
	record.BookingSystemID = nil

	_, _, err := svc.Reconcile(context.Background(), record)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestReconcileMergesSquareIntoExisting(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, "rosedalemassage.co.uk")

	created, _, err := svc.Reconcile(context.Background(), latepointRecord("jane@example.com"))
	require.NoError(t, err)

	merged, action, err := svc.Reconcile(context.Background(), squareRecord("jane@example.com"))
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, action)
	assert.Equal(t, created.ID, merged.ID)

	// Payment-platform fields land on the existing row
	require.NotNil(t, merged.PaymentSystemID)
	assert.Equal(t, "SQ_CUST_1", *merged.PaymentSystemID)
	require.NotNil(t, merged.Phone)
	assert.Equal(t, "+447911123456", *merged.Phone)
	require.NotNil(t, merged.Address)
	assert.Equal(t, "London", merged.Address.Locality)

	// Booking-platform fields survive untouched
	assert.Equal(t, "Jane", merged.FirstName)
	assert.Equal(t, "Doe", merged.LastName)
	assert.Equal(t, "female", merged.Gender)
	require.NotNil(t, merged.BookingSystemID)
	assert.EqualValues(t, 42, *merged.BookingSystemID)
	require.NotNil(t, merged.Preferences)
	assert.Equal(t, "firm", merged.Preferences.PressureLevel)
}

func TestReconcileMergesLatepointIntoExisting(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, "rosedalemassage.co.uk")

	created, _, err := svc.Reconcile(context.Background(), squareRecord("jane@example.com"))
	require.NoError(t, err)

	merged, action, err := svc.Reconcile(context.Background(), latepointRecord("jane@example.com"))
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, action)
	assert.Equal(t, created.ID, merged.ID)

	// Booking-platform fields overwrite the name and add preferences
	assert.Equal(t, "Jane", merged.FirstName)
	assert.Equal(t, "Doe", merged.LastName)
	require.NotNil(t, merged.BookingSystemID)
	require.NotNil(t, merged.Preferences)

	// Payment-platform fields survive untouched
	require.NotNil(t, merged.PaymentSystemID)
	assert.Equal(t, "SQ_CUST_1", *merged.PaymentSystemID)
	require.NotNil(t, merged.Phone)
	require.NotNil(t, merged.Address)
}

func TestReconcileIsIdempotentOnRedelivery(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, "rosedalemassage.co.uk")

	first, _, err := svc.Reconcile(context.Background(), latepointRecord("jane@example.com"))
	require.NoError(t, err)

	second, action, err := svc.Reconcile(context.Background(), latepointRecord("jane@example.com"))
	require.NoError(t, err)

	assert.Equal(t, ActionUpdated, action)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.customers, 1)
}

func TestReconcileRecoversFromInsertRace(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, "rosedalemassage.co.uk")

	// Simulate the row appearing between the lookup miss and the insert
	winner := &entity.Customer{
		BookingSystemID: int64Ptr(42),
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@example.com",
		Source:          enum.SourceLatepoint,
	}
	require.NoError(t, repo.Create(context.Background(), winner))
	repo.missNextEmailLookup = true

	customer, action, err := svc.Reconcile(context.Background(), squareRecord("jane@example.com"))
	require.NoError(t, err)
	assert.Equal(t, ActionUpdated, action)
	assert.Equal(t, winner.ID, customer.ID)
	require.NotNil(t, customer.PaymentSystemID)
}

func TestClassifyEmployeeByDomain(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, "rosedalemassage.co.uk")

	customer, _, err := svc.Reconcile(context.Background(), latepointRecord("staff@rosedalemassage.co.uk"))
	require.NoError(t, err)
	assert.Equal(t, enum.CustomerTypeEmployee, customer.Type)

	customer, _, err = svc.Reconcile(context.Background(), latepointRecord("client@gmail.com"))
	require.NoError(t, err)
	assert.Equal(t, enum.CustomerTypeClient, customer.Type)
}

func TestClassifyMalformedEmailIsClient(t *testing.T) {
	assert.Equal(t, enum.CustomerTypeClient, (&CustomerService{companyDomain: "rosedalemassage.co.uk"}).classify("no-at-sign"))
	assert.Equal(t, enum.CustomerTypeClient, (&CustomerService{companyDomain: "rosedalemassage.co.uk"}).classify("trailing@"))
	assert.Equal(t, enum.CustomerTypeClient, (&CustomerService{}).classify("staff@rosedalemassage.co.uk"))
}

func TestClassificationRecomputedOnMerge(t *testing.T) {
	repo := newFakeCustomerRepo()
	svc := NewCustomerService(repo, "rosedalemassage.co.uk")

	created, _, err := svc.Reconcile(context.Background(), latepointRecord("staff@rosedalemassage.co.uk"))
	require.NoError(t, err)
	require.Equal(t, enum.CustomerTypeEmployee, created.Type)

	merged, _, err := svc.Reconcile(context.Background(), squareRecord("staff@rosedalemassage.co.uk"))
	require.NoError(t, err)
	assert.Equal(t, enum.CustomerTypeEmployee, merged.Type)
}
