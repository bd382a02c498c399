package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/rosedale/studio-api/internal/domain/enum"
)

// SessionPreferences holds the medical flags and free-text preferences
// collected through the booking platform's custom fields. Stored as JSONB.
type SessionPreferences struct {
	MedicalConditions      bool   `json:"medical_conditions"`
	PressureLevel          string `json:"pressure_level"`
	SessionPreference      string `json:"session_preference"`
	MusicPreference        string `json:"music_preference"`
	AromatherapyPreference string `json:"aromatherapy_preference"`
	ReferralSource         string `json:"referral_source"`
	EmailSubscribed        bool   `json:"email_subscribed"`
	AcceptedTerms          bool   `json:"accepted_terms"`
}

func (p SessionPreferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *SessionPreferences) Scan(value interface{}) error {
	if value == nil {
		*p = SessionPreferences{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("session preferences: unsupported scan type")
	}
	return json.Unmarshal(b, p)
}

// Address is the structured postal address reported by the payment platform
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	Locality     string `json:"locality,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`
	Country      string `json:"country,omitempty"`
}

func (a Address) Value() (driver.Value, error) {
	return json.Marshal(a)
}

func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return errors.New("address: unsupported scan type")
	}
	return json.Unmarshal(b, a)
}

// Customer is the canonical person record both platforms reconcile into.
// One row per email; either external id may be filled in later by whichever
// platform reports the customer second.
type Customer struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	BookingSystemID *int64  `gorm:"uniqueIndex" json:"booking_system_id,omitempty"`
	PaymentSystemID *string `gorm:"size:50;uniqueIndex" json:"payment_system_id,omitempty"`

	FirstName   string     `gorm:"size:50;not null" json:"first_name"`
	LastName    string     `gorm:"size:50;not null" json:"last_name"`
	Email       string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone       *string    `gorm:"size:20" json:"phone,omitempty"`
	Gender      string     `gorm:"size:10;default:unknown" json:"gender"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth,omitempty"`
	Address     *Address   `gorm:"type:jsonb" json:"address,omitempty"`

	Type   enum.CustomerType   `gorm:"size:20;not null;default:client" json:"type"`
	Status enum.CustomerStatus `gorm:"size:20;not null;default:active" json:"status"`
	Source enum.SignupSource   `gorm:"size:20;not null;default:admin" json:"signup_source"`

	Preferences          *SessionPreferences `gorm:"type:jsonb" json:"preferences,omitempty"`
	NewsletterSubscribed bool                `gorm:"default:false" json:"newsletter_subscribed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Orders []Order `gorm:"foreignKey:CustomerID" json:"-"`
}

// HasExternalID reports whether at least one platform id is present. Every
// persisted customer must satisfy this.
func (c *Customer) HasExternalID() bool {
	return c.BookingSystemID != nil || c.PaymentSystemID != nil
}

// FullName returns the display name
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
