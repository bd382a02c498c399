package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosedale/studio-api/internal/application/service"
	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/pkg/monitoring"
)

type memOrderRepo struct {
	orders map[string]*entity.Order
}

func (r *memOrderRepo) GetByConfirmationCode(_ context.Context, code string, source enum.SignupSource) (*entity.Order, error) {
	if order, ok := r.orders[code+"|"+string(source)]; ok {
		clone := *order
		return &clone, nil
	}
	return nil, nil
}

func (r *memOrderRepo) Upsert(_ context.Context, order *entity.Order, _ []entity.OrderLineItem, _ []entity.Transaction) error {
	if order.ID == 0 {
		order.ID = uint(len(r.orders) + 1)
	}
	clone := *order
	r.orders[order.ConfirmationCode+"|"+string(order.Source)] = &clone
	return nil
}

type memItemRepo struct {
	items map[string]*entity.Item
}

func (r *memItemRepo) GetByExternalID(_ context.Context, externalID string) (*entity.Item, error) {
	if item, ok := r.items[externalID]; ok {
		clone := *item
		return &clone, nil
	}
	return nil, nil
}

func (r *memItemRepo) GetOrCreate(_ context.Context, item *entity.Item) (*entity.Item, error) {
	if existing, ok := r.items[item.ExternalID]; ok {
		clone := *existing
		return &clone, nil
	}
	item.ID = uint(len(r.items) + 1)
	clone := *item
	r.items[item.ExternalID] = &clone
	return item, nil
}

type memCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (r *memCustomerRepo) Create(_ context.Context, customer *entity.Customer) error {
	if customer.ID == 0 {
		customer.ID = uint(len(r.customers) + 1)
	}
	clone := *customer
	r.customers[customer.Email] = &clone
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id uint) (*entity.Customer, error) {
	for _, customer := range r.customers {
		if customer.ID == id {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) GetByEmail(_ context.Context, email string) (*entity.Customer, error) {
	if customer, ok := r.customers[email]; ok {
		clone := *customer
		return &clone, nil
	}
	return nil, nil
}

func (r *memCustomerRepo) GetByBookingSystemID(_ context.Context, id int64) (*entity.Customer, error) {
	for _, customer := range r.customers {
		if customer.BookingSystemID != nil && *customer.BookingSystemID == id {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) GetByPaymentSystemID(_ context.Context, id string) (*entity.Customer, error) {
	for _, customer := range r.customers {
		if customer.PaymentSystemID != nil && *customer.PaymentSystemID == id {
			clone := *customer
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memCustomerRepo) Update(_ context.Context, customer *entity.Customer) error {
	clone := *customer
	r.customers[customer.Email] = &clone
	return nil
}

func orderWebhookRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	customers := service.NewCustomerService(&memCustomerRepo{customers: map[string]*entity.Customer{}}, "rosedalemassage.co.uk")
	orders := service.NewOrderService(&memOrderRepo{orders: map[string]*entity.Order{}}, &memItemRepo{items: map[string]*entity.Item{}}, customers)
	h := NewOrderWebhookHandler(orders, monitoring.NewMonitor(nil, false))

	router := gin.New()
	router.POST("/webhooks/orders/new", h.New)
	return router
}

func postOrderForm(router *gin.Engine, source string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/orders/new?source="+source, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderWebhookRespondsWithOrderID(t *testing.T) {
	router := orderWebhookRouter()

	form := url.Values{
		"id":                   {"501"},
		"confirmation_code":    {"LP-CONF-1"},
		"status":               {"completed"},
		"customer[id]":         {"42"},
		"customer[first_name]": {"Jane"},
		"customer[last_name]":  {"Doe"},
		"customer[email]":      {"jane@example.com"},
	}

	w := postOrderForm(router, "latepoint", form)
	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.EqualValues(t, 1, body.Data["order_id"])
	assert.Equal(t, "created", body.Data["action"])

	// Redelivery stays a 200 as well
	w = postOrderForm(router, "latepoint", form)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "updated", body.Data["action"])
}

func TestOrderWebhookRejectsUnknownSource(t *testing.T) {
	router := orderWebhookRouter()

	w := postOrderForm(router, "acuity", url.Values{"id": {"1"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
