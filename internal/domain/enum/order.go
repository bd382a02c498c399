package enum

// OrderStatus represents the overall state of an order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "open"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusCancelled, OrderStatusCompleted:
		return true
	}
	return false
}

// FulfillmentStatus tracks whether the purchased services were delivered
type FulfillmentStatus string

const (
	Fulfilled          FulfillmentStatus = "fulfilled"
	NotFulfilled       FulfillmentStatus = "not_fulfilled"
	PartiallyFulfilled FulfillmentStatus = "partially_fulfilled"
)

// PaymentStatus tracks how much of an order has been paid
type PaymentStatus string

const (
	PaymentNotPaid       PaymentStatus = "not_paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentFullyPaid     PaymentStatus = "fully_paid"
	PaymentProcessing    PaymentStatus = "processing"
)
