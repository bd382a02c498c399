package entity

import (
	"time"

	"github.com/rosedale/studio-api/internal/domain/enum"
)

// Appointment is a scheduled service slot tied 1:1 to an order line item
type Appointment struct {
	ID              uint `gorm:"primaryKey" json:"id"`
	OrderLineItemID uint `gorm:"not null;uniqueIndex" json:"order_line_item_id"`
	CustomerID      uint `gorm:"not null;index" json:"customer_id"`
	AgentID         uint `gorm:"not null;index" json:"agent_id"`
	LocationID      uint `gorm:"not null;index" json:"location_id"`

	StartAt  time.Time `gorm:"not null" json:"start_at"`
	EndAt    time.Time `gorm:"not null" json:"end_at"` // must be after StartAt
	Duration int       `gorm:"not null" json:"duration"` // minutes, > 0

	Status        enum.AppointmentStatus `gorm:"size:20;not null;default:pending_approval" json:"status"`
	PaymentStatus enum.PaymentStatus     `gorm:"size:20;not null;default:not_paid" json:"payment_status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Customer Customer `gorm:"foreignKey:CustomerID;constraint:OnDelete:RESTRICT" json:"-"`
	Agent    Agent    `gorm:"foreignKey:AgentID;constraint:OnDelete:RESTRICT" json:"-"`
	Location Location `gorm:"foreignKey:LocationID;constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName returns the table name for the Appointment model
func (Appointment) TableName() string {
	return "appointments"
}

// Agent is a service provider
type Agent struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	FirstName string  `gorm:"size:50;not null" json:"first_name"`
	LastName  string  `gorm:"size:50;not null" json:"last_name"`
	Email     *string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	Phone     *string `gorm:"size:20" json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Appointments []Appointment `gorm:"foreignKey:AgentID" json:"-"`
}

// TableName returns the table name for the Agent model
func (Agent) TableName() string {
	return "agents"
}

// Location is a physical branch
type Location struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	Name    string  `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Address *string `gorm:"type:text" json:"address,omitempty"`
	Phone   *string `gorm:"size:20" json:"phone,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Appointments []Appointment `gorm:"foreignKey:LocationID" json:"-"`
}

// TableName returns the table name for the Location model
func (Location) TableName() string {
	return "locations"
}
