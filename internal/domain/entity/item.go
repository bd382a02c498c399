package entity

import (
	"time"

	"github.com/rosedale/studio-api/internal/domain/enum"
)

// Item is a catalog entry: a bookable service, gift card, package or product
type Item struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ExternalID string `gorm:"size:50;uniqueIndex;not null" json:"external_id"`
	Name       string `gorm:"size:100;uniqueIndex;not null" json:"name"`

	Type      enum.ItemType   `gorm:"size:20;not null;default:service" json:"type"`
	BasePrice int64           `gorm:"not null;default:0" json:"base_price"` // pence
	Duration  *int            `json:"duration,omitempty"`                   // minutes, > 0 when set
	Status    enum.ItemStatus `gorm:"size:20;not null;default:active" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the table name for the Item model
func (Item) TableName() string {
	return "items"
}
