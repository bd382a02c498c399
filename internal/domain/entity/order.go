package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/rosedale/studio-api/internal/domain/enum"
)

// Order represents a purchase or booking. Upserted by (confirmation_code,
// source); line items and transactions are full snapshots replaced on every
// webhook, never merged.
type Order struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	ConfirmationCode string  `gorm:"size:50;uniqueIndex:idx_orders_code_source;not null" json:"confirmation_code"`
	BookingOrderID   *int64  `gorm:"uniqueIndex" json:"booking_system_order_id,omitempty"`
	PaymentOrderID   *string `gorm:"size:50;uniqueIndex" json:"payment_system_order_id,omitempty"`

	CustomerID uint              `gorm:"not null;index" json:"customer_id"`
	Source     enum.SignupSource `gorm:"size:20;not null;uniqueIndex:idx_orders_code_source" json:"source"`

	Status            enum.OrderStatus       `gorm:"size:20;not null;default:open" json:"status"`
	FulfillmentStatus enum.FulfillmentStatus `gorm:"size:20;not null;default:not_fulfilled" json:"fulfillment_status"`
	PaymentStatus     enum.PaymentStatus     `gorm:"size:20;not null;default:not_paid" json:"payment_status"`

	// Monetary amounts in minor currency units (pence)
	Subtotal int64 `gorm:"not null;default:0" json:"subtotal"`
	Total    int64 `gorm:"not null;default:0" json:"total"`

	Notes           *string `gorm:"type:text" json:"notes,omitempty"`
	CustomerComment *string `gorm:"type:text" json:"customer_comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer     Customer      `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	LineItems    []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"line_items,omitempty"`
	Transactions []Transaction   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"transactions,omitempty"`
}

// HasExternalID mirrors the customer invariant: at least one platform order
// id must be present.
func (o *Order) HasExternalID() bool {
	return o.BookingOrderID != nil || o.PaymentOrderID != nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// AddOns is an opaque blob of booking add-ons attached to a line item
type AddOns map[string]interface{}

func (a AddOns) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

func (a *AddOns) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("add_ons: unsupported scan type")
	}
	return json.Unmarshal(b, a)
}

// OrderLineItem is one purchased unit within an order
type OrderLineItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	ItemID  uint `gorm:"not null;index" json:"item_id"`

	Quantity int   `gorm:"not null;default:1" json:"quantity"`
	Price    int64 `gorm:"not null" json:"price"` // pence
	Total    int64 `gorm:"not null" json:"total"` // price * quantity, pence

	AddOns AddOns `gorm:"type:jsonb" json:"add_ons,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Item        Item         `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"-"`
	Appointment *Appointment `gorm:"foreignKey:OrderLineItemID" json:"appointment,omitempty"`
}

// TableName returns the table name for the OrderLineItem model
func (OrderLineItem) TableName() string {
	return "order_line_items"
}

// Transaction is a payment event reported by the payment platform
type Transaction struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ExternalID string  `gorm:"size:50;uniqueIndex;not null" json:"external_id"`
	OrderID    uint    `gorm:"not null;index" json:"order_id"`

	Amount        int64                  `gorm:"not null" json:"amount"` // pence, > 0
	PaymentMethod string                 `gorm:"size:50;not null" json:"payment_method"`
	Status        enum.TransactionStatus `gorm:"size:20;not null" json:"status"`

	CardBrand  *string `gorm:"size:50" json:"card_brand,omitempty"`
	Last4      *string `gorm:"size:4" json:"last_4,omitempty"`
	ExpMonth   *int    `json:"exp_month,omitempty"`
	ExpYear    *int    `json:"exp_year,omitempty"`
	ReceiptURL *string `gorm:"size:255" json:"receipt_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
