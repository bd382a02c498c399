package request

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/rosedale/studio-api/pkg/validate"
)

// LatepointCustomerForm is the booking platform's customer webhook shape.
// LatePoint posts x-www-form-urlencoded bodies; custom_fields arrives as a
// JSON string of a flat key→value map.
type LatepointCustomerForm struct {
	ExternalID   string
	FirstName    string
	LastName     string
	Email        string
	Phone        string
	CustomFields map[string]string
}

// ParseLatepointCustomerForm extracts the customer fields from a form body
func ParseLatepointCustomerForm(values url.Values) (*LatepointCustomerForm, error) {
	form := &LatepointCustomerForm{
		ExternalID: values.Get("id"),
		FirstName:  values.Get("first_name"),
		LastName:   values.Get("last_name"),
		Email:      values.Get("email"),
		Phone:      values.Get("phone"),
	}

	if raw := values.Get("custom_fields"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &form.CustomFields); err != nil {
			return nil, fmt.Errorf("custom_fields must be a flat JSON object: %w", err)
		}
	}
	return form, nil
}

// Validate checks required fields and formats. The returned reason is safe
// to surface as the HTTP 400 body.
func (f *LatepointCustomerForm) Validate(phonePrefix string) (bool, string) {
	var missing []string
	if f.ExternalID == "" {
		missing = append(missing, "id")
	}
	if f.FirstName == "" {
		missing = append(missing, "first_name")
	}
	if f.LastName == "" {
		missing = append(missing, "last_name")
	}
	if f.Email == "" {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return false, "Missing required fields: " + strings.Join(missing, ", ")
	}

	if !validate.Email(f.Email) {
		return false, "Invalid email address"
	}
	if ok, reason := validate.Name(f.FirstName, "first_name"); !ok {
		return false, reason
	}
	if ok, reason := validate.Name(f.LastName, "last_name"); !ok {
		return false, reason
	}
	if f.Phone != "" {
		if ok, reason := validate.Phone(f.Phone, phonePrefix); !ok {
			return false, reason
		}
	}
	return true, ""
}

// SquareCustomerEnvelope is the payment platform's webhook event wrapper.
// The customer sits under a fixed data.object.customer path.
type SquareCustomerEnvelope struct {
	EventID string `json:"event_id"`
	Type    string `json:"type"`
	Data    struct {
		Object struct {
			Customer SquareCustomer `json:"customer"`
		} `json:"object"`
	} `json:"data"`
}

// SquareCustomer is the payment platform's customer shape
type SquareCustomer struct {
	ID           string         `json:"id"`
	GivenName    string         `json:"given_name"`
	FamilyName   string         `json:"family_name"`
	EmailAddress string         `json:"email_address"`
	PhoneNumber  string         `json:"phone_number"`
	Address      *SquareAddress `json:"address,omitempty"`
}

// SquareAddress is the nested postal address shape
type SquareAddress struct {
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
	Locality     string `json:"locality"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
}

// Validate checks the required payment-platform fields
func (c *SquareCustomer) Validate() (bool, string) {
	var missing []string
	if c.ID == "" {
		missing = append(missing, "id")
	}
	if c.GivenName == "" {
		missing = append(missing, "given_name")
	}
	if c.FamilyName == "" {
		missing = append(missing, "family_name")
	}
	if c.EmailAddress == "" {
		missing = append(missing, "email_address")
	}
	if len(missing) > 0 {
		return false, "Missing required fields: " + strings.Join(missing, ", ")
	}

	if !validate.Email(c.EmailAddress) {
		return false, "Invalid email format"
	}
	return true, ""
}
