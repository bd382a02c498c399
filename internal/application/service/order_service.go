package service

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/internal/domain/repository"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/request"
	"github.com/rosedale/studio-api/pkg/apperror"
)

type OrderService struct {
	orderRepo repository.OrderRepository
	itemRepo  repository.ItemRepository
	customers *CustomerService
}

func NewOrderService(orderRepo repository.OrderRepository, itemRepo repository.ItemRepository, customers *CustomerService) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		itemRepo:  itemRepo,
		customers: customers,
	}
}

// IngestLatepoint upserts an order from a booking-platform webhook.
// Deliveries are full snapshots and may arrive more than once, so the
// whole operation is keyed by the confirmation code.
func (s *OrderService) IngestLatepoint(ctx context.Context, form *request.LatepointOrderForm) (*entity.Order, string, error) {
	bookingOrderID, err := strconv.ParseInt(form.ExternalID, 10, 64)
	if err != nil {
		return nil, "", apperror.NewValidationError("id must be numeric")
	}

	customer, err := s.resolveLatepointCustomer(ctx, &form.Customer)
	if err != nil {
		return nil, "", err
	}

	order := &entity.Order{
		ConfirmationCode: strings.TrimSpace(form.ConfirmationCode),
		BookingOrderID:   &bookingOrderID,
		CustomerID:       customer.ID,
		Source:           enum.SourceLatepoint,
		Status:           latepointOrderStatus(form.Status),
		PaymentStatus:    latepointPaymentStatus(form.PaymentStatus),
		Subtotal:         ParsePence(form.Subtotal),
		Total:            ParsePence(form.Total),
	}
	if form.FulfillmentStatus == string(enum.Fulfilled) {
		order.FulfillmentStatus = enum.Fulfilled
	} else {
		order.FulfillmentStatus = enum.NotFulfilled
	}

	lineItems := make([]entity.OrderLineItem, 0, len(form.Items))
	for _, it := range form.Items {
		item, err := s.itemRepo.GetOrCreate(ctx, &entity.Item{
			ExternalID: it.ItemID,
			Name:       strings.TrimSpace(it.Name),
			Type:       enum.ItemTypeService,
			BasePrice:  ParsePence(it.Price),
			Duration:   parseDuration(it.Duration),
		})
		if err != nil {
			return nil, "", err
		}
		if item == nil {
			return nil, "", apperror.ErrInternalServer
		}
		quantity := 1
		if q, err := strconv.Atoi(it.Quantity); err == nil && q > 0 {
			quantity = q
		}
		line := entity.OrderLineItem{
			ItemID:   item.ID,
			Quantity: quantity,
			Price:    ParsePence(it.Price),
			Total:    ParsePence(it.Total),
		}
		if len(it.AddOns) > 0 {
			line.AddOns = make(entity.AddOns, len(it.AddOns))
			for k, v := range it.AddOns {
				line.AddOns[k] = v
			}
		}
		lineItems = append(lineItems, line)
	}

	action, err := s.upsert(ctx, order, lineItems, nil)
	if err != nil {
		return nil, "", err
	}
	return order, action, nil
}

// IngestSquare upserts an order from a payment-platform webhook. The
// receipt number doubles as the confirmation code so booking and payment
// views of the same purchase land on distinct rows only when the codes
// genuinely differ.
func (s *OrderService) IngestSquare(ctx context.Context, payload *request.SquareOrderPayload) (*entity.Order, string, error) {
	customer, err := s.customers.FindByPaymentSystemID(ctx, payload.CustomerID)
	if err != nil {
		return nil, "", err
	}
	if customer == nil {
		return nil, "", apperror.NewNotFoundError("Customer " + payload.CustomerID)
	}

	paymentOrderID := payload.ID
	order := &entity.Order{
		ConfirmationCode: strings.TrimSpace(payload.ReceiptNumber),
		PaymentOrderID:   &paymentOrderID,
		CustomerID:       customer.ID,
		Source:           enum.SourceSquare,
		Subtotal:         payload.AmountMoney.Amount,
		Total:            payload.AmountMoney.Amount,
	}
	switch payload.Status {
	case "COMPLETED":
		order.Status = enum.OrderStatusCompleted
		order.FulfillmentStatus = enum.Fulfilled
		order.PaymentStatus = enum.PaymentFullyPaid
	case "CANCELED":
		order.Status = enum.OrderStatusCancelled
		order.FulfillmentStatus = enum.NotFulfilled
		order.PaymentStatus = enum.PaymentNotPaid
	default:
		order.Status = enum.OrderStatusOpen
		order.FulfillmentStatus = enum.NotFulfilled
		order.PaymentStatus = enum.PaymentProcessing
	}

	lineItems := make([]entity.OrderLineItem, 0, len(payload.LineItems))
	for _, li := range payload.LineItems {
		externalID := li.CatalogObjectID
		if externalID == "" {
			externalID = li.UID
		}
		item, err := s.itemRepo.GetOrCreate(ctx, &entity.Item{
			ExternalID: externalID,
			Name:       strings.TrimSpace(li.Name),
			Type:       squareItemType(li.Name),
			BasePrice:  li.BasePriceMoney.Amount,
		})
		if err != nil {
			return nil, "", err
		}
		if item == nil {
			return nil, "", apperror.ErrInternalServer
		}
		quantity := 1
		if q, err := strconv.Atoi(li.Quantity); err == nil && q > 0 {
			quantity = q
		}
		lineItems = append(lineItems, entity.OrderLineItem{
			ItemID:   item.ID,
			Quantity: quantity,
			Price:    li.BasePriceMoney.Amount,
			Total:    li.TotalMoney.Amount,
		})
	}

	transactions := make([]entity.Transaction, 0, len(payload.Tenders))
	for _, t := range payload.Tenders {
		if t.AmountMoney.Amount <= 0 {
			continue
		}
		txn := entity.Transaction{
			ExternalID:    t.ID,
			Amount:        t.AmountMoney.Amount,
			PaymentMethod: strings.ToLower(t.Type),
			Status:        tenderStatus(t.CardDetails),
		}
		if t.CardDetails != nil && t.CardDetails.Card.Last4 != "" {
			brand := t.CardDetails.Card.CardBrand
			last4 := t.CardDetails.Card.Last4
			expMonth := t.CardDetails.Card.ExpMonth
			expYear := t.CardDetails.Card.ExpYear
			txn.CardBrand = &brand
			txn.Last4 = &last4
			txn.ExpMonth = &expMonth
			txn.ExpYear = &expYear
		}
		transactions = append(transactions, txn)
	}

	action, err := s.upsert(ctx, order, lineItems, transactions)
	if err != nil {
		return nil, "", err
	}
	return order, action, nil
}

func (s *OrderService) upsert(ctx context.Context, order *entity.Order, lineItems []entity.OrderLineItem, transactions []entity.Transaction) (string, error) {
	if order.ConfirmationCode == "" {
		return "", apperror.NewValidationError("confirmation code is required")
	}
	existing, err := s.orderRepo.GetByConfirmationCode(ctx, order.ConfirmationCode, order.Source)
	if err != nil {
		return "", err
	}
	action := ActionCreated
	if existing != nil {
		order.ID = existing.ID
		order.CreatedAt = existing.CreatedAt
		action = ActionUpdated
	}
	err = s.orderRepo.Upsert(ctx, order, lineItems, transactions)
	if errors.Is(err, gorm.ErrDuplicatedKey) && order.ID == 0 {
		// Lost a create race against a concurrent delivery of the same
		// order; the winner's row is the one to update.
		winner, fetchErr := s.orderRepo.GetByConfirmationCode(ctx, order.ConfirmationCode, order.Source)
		if fetchErr != nil {
			return "", fetchErr
		}
		if winner == nil {
			return "", err
		}
		order.ID = winner.ID
		order.CreatedAt = winner.CreatedAt
		if err := s.orderRepo.Upsert(ctx, order, lineItems, transactions); err != nil {
			return "", err
		}
		return ActionUpdated, nil
	}
	if err != nil {
		return "", err
	}
	return action, nil
}

// resolveLatepointCustomer looks up the order's customer, registering them
// on the fly when the order webhook outruns the customer webhook.
func (s *OrderService) resolveLatepointCustomer(ctx context.Context, c *request.LatepointOrderCustomer) (*entity.Customer, error) {
	bookingID, err := strconv.ParseInt(c.ID, 10, 64)
	if err != nil {
		return nil, apperror.NewValidationError("customer[id] must be numeric")
	}
	customer, err := s.customers.FindByBookingSystemID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	email := normalizeEmail(c.Email)
	if email == "" {
		return nil, apperror.NewNotFoundError("Customer " + c.ID)
	}
	record := &CustomerRecord{
		BookingSystemID: &bookingID,
		FirstName:       strings.TrimSpace(c.FirstName),
		LastName:        strings.TrimSpace(c.LastName),
		Email:           email,
		Source:          enum.SourceLatepoint,
	}
	if phone := strings.TrimSpace(c.Phone); phone != "" {
		record.Phone = &phone
	}
	customer, _, err = s.customers.Reconcile(ctx, record)
	return customer, err
}

var moneyDigits = regexp.MustCompile(`^(\d+)(?:\.(\d{1,2}))?$`)

// ParsePence converts a display amount like "£80" or "1,234.50" into
// integer minor units. Unparseable input maps to zero rather than failing
// the whole delivery.
func ParsePence(raw string) int64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "£")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	m := moneyDigits.FindStringSubmatch(cleaned)
	if m == nil {
		return 0
	}
	pounds, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0
	}
	pence := pounds * 100
	if m[2] != "" {
		frac := m[2]
		if len(frac) == 1 {
			frac += "0"
		}
		f, _ := strconv.ParseInt(frac, 10, 64)
		pence += f
	}
	return pence
}

func parseDuration(raw string) *int {
	d, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return nil
	}
	return &d
}

func latepointOrderStatus(raw string) enum.OrderStatus {
	status := enum.OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if status.Valid() {
		return status
	}
	return enum.OrderStatusOpen
}

func latepointPaymentStatus(raw string) enum.PaymentStatus {
	switch enum.PaymentStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case enum.PaymentFullyPaid:
		return enum.PaymentFullyPaid
	case enum.PaymentPartiallyPaid:
		return enum.PaymentPartiallyPaid
	case enum.PaymentProcessing:
		return enum.PaymentProcessing
	}
	return enum.PaymentNotPaid
}

func squareItemType(name string) enum.ItemType {
	if strings.Contains(strings.ToLower(name), "gift card") {
		return enum.ItemTypeGiftCard
	}
	return enum.ItemTypeService
}

func tenderStatus(details *request.SquareCardDetails) enum.TransactionStatus {
	if details == nil {
		return enum.TransactionCompleted
	}
	status := enum.TransactionStatus(strings.ToUpper(details.Status))
	if status.Valid() {
		return status
	}
	return enum.TransactionCompleted
}
