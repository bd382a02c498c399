package service

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/rosedale/studio-api/internal/domain/entity"
	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/request"
	"github.com/rosedale/studio-api/pkg/apperror"
	"github.com/rosedale/studio-api/pkg/genderapi"
)

// CustomerRecord is the canonical, source-agnostic shape every inbound
// customer payload is mapped into before reconciliation.
type CustomerRecord struct {
	BookingSystemID *int64
	PaymentSystemID *string
	FirstName       string
	LastName        string
	Email           string
	Phone           *string
	Address         *entity.Address
	Gender          string
	Source          enum.SignupSource
	Preferences     *entity.SessionPreferences
}

// GenderResolver infers gender from a first name
type GenderResolver interface {
	Lookup(ctx context.Context, firstName string) (string, error)
}

// Normalizer maps source-specific payloads into CustomerRecord
type Normalizer struct {
	gender GenderResolver
}

// NewNormalizer creates a normalizer with the given gender enrichment client
func NewNormalizer(gender GenderResolver) *Normalizer {
	return &Normalizer{gender: gender}
}

// LatePoint custom-field keys. Each maps to exactly one canonical
// preference attribute; unknown keys are ignored, missing keys take the
// zero defaults so preference comparisons stay well-defined.
const (
	cfMedicalConditions = "cf_fV6mSkLi"
	cfPressureLevel     = "cf_BUQVMrtE"
	cfSessionPreference = "cf_MYTGXxFc"
	cfMusicPreference   = "cf_aMKSBozK"
	cfAromatherapy      = "cf_71gt8Um4"
	cfReferralSource    = "cf_OXZkZKUw"
	cfNewsletterSignup  = "cf_13R2jN9C"
	cfAcceptedTerms     = "cf_xGQSo978"
)

// NormalizeLatepoint converts a validated booking-platform form payload
// into the canonical record, including preference parsing and gender
// enrichment.
func (n *Normalizer) NormalizeLatepoint(ctx context.Context, form *request.LatepointCustomerForm) (*CustomerRecord, error) {
	bookingID, err := strconv.ParseInt(form.ExternalID, 10, 64)
	if err != nil {
		return nil, apperror.NewValidationError("id must be numeric")
	}

	email := normalizeEmail(form.Email)
	if email == "" {
		return nil, apperror.NewValidationError("email is required")
	}

	prefs := buildPreferences(form.CustomFields)

	record := &CustomerRecord{
		BookingSystemID: &bookingID,
		FirstName:       strings.TrimSpace(form.FirstName),
		LastName:        strings.TrimSpace(form.LastName),
		Email:           email,
		Source:          enum.SourceLatepoint,
		Gender:          n.resolveGender(ctx, form.FirstName),
		Preferences:     &prefs,
	}
	if phone := strings.TrimSpace(form.Phone); phone != "" {
		record.Phone = &phone
	}
	return record, nil
}

// NormalizeSquare converts a validated payment-platform customer payload
// into the canonical record.
func (n *Normalizer) NormalizeSquare(ctx context.Context, customer *request.SquareCustomer) (*CustomerRecord, error) {
	email := normalizeEmail(customer.EmailAddress)
	if email == "" {
		return nil, apperror.NewValidationError("email_address is required")
	}

	paymentID := strings.TrimSpace(customer.ID)
	record := &CustomerRecord{
		PaymentSystemID: &paymentID,
		FirstName:       strings.TrimSpace(customer.GivenName),
		LastName:        strings.TrimSpace(customer.FamilyName),
		Email:           email,
		Source:          enum.SourceSquare,
		Gender:          n.resolveGender(ctx, customer.GivenName),
	}
	if phone := strings.TrimSpace(customer.PhoneNumber); phone != "" {
		record.Phone = &phone
	}
	if customer.Address != nil {
		record.Address = &entity.Address{
			AddressLine1: customer.Address.AddressLine1,
			AddressLine2: customer.Address.AddressLine2,
			Locality:     customer.Address.Locality,
			PostalCode:   customer.Address.PostalCode,
			Country:      customer.Address.Country,
		}
	}
	return record, nil
}

// resolveGender is best-effort: failures are logged and mapped to
// "unknown", never propagated. Customer creation must not depend on the
// availability of the inference service.
func (n *Normalizer) resolveGender(ctx context.Context, firstName string) string {
	gender, err := n.gender.Lookup(ctx, strings.TrimSpace(firstName))
	if err != nil {
		log.Printf("Gender lookup failed for %q: %v", firstName, err)
		return genderapi.Unknown
	}
	return gender
}

// buildPreferences maps the flat custom-field dictionary into typed
// preference attributes
func buildPreferences(customFields map[string]string) entity.SessionPreferences {
	get := func(key string) string {
		return strings.TrimSpace(customFields[key])
	}
	return entity.SessionPreferences{
		MedicalConditions:      strings.EqualFold(get(cfMedicalConditions), "yes"),
		PressureLevel:          get(cfPressureLevel),
		SessionPreference:      get(cfSessionPreference),
		MusicPreference:        get(cfMusicPreference),
		AromatherapyPreference: get(cfAromatherapy),
		ReferralSource:         get(cfReferralSource),
		EmailSubscribed:        isChecked(get(cfNewsletterSignup)),
		AcceptedTerms:          isChecked(get(cfAcceptedTerms)),
	}
}

// isChecked interprets the booking form's checkbox encoding
func isChecked(v string) bool {
	return v == "on" || strings.EqualFold(v, "yes")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
