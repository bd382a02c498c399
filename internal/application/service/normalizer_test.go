package service

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rosedale/studio-api/internal/domain/enum"
	"github.com/rosedale/studio-api/internal/presentation/http/dto/request"
	"github.com/rosedale/studio-api/pkg/genderapi"
)

type stubGenderResolver struct {
	gender string
	err    error
	calls  int
}

func (s *stubGenderResolver) Lookup(_ context.Context, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return genderapi.Unknown, s.err
	}
	return s.gender, nil
}

func latepointCustomerForm(t *testing.T, customFields string) *request.LatepointCustomerForm {
	t.Helper()
	values := url.Values{
		"id":         {"42"},
		"first_name": {"Jane"},
		"last_name":  {"Doe"},
		"email":      {"  Jane@Example.COM "},
		"phone":      {"+447911123456"},
	}
	if customFields != "" {
		values.Set("custom_fields", customFields)
	}
	form, err := request.ParseLatepointCustomerForm(values)
	require.NoError(t, err)
	return form
}

func TestNormalizeLatepoint(t *testing.T) {
	resolver := &stubGenderResolver{gender: "female"}
	n := NewNormalizer(resolver)

	form := latepointCustomerForm(t, `{
		"cf_fV6mSkLi": "yes",
		"cf_BUQVMrtE": "firm",
		"cf_MYTGXxFc": "deep tissue",
		"cf_aMKSBozK": "ambient",
		"cf_71gt8Um4": "lavender",
		"cf_OXZkZKUw": "instagram",
		"cf_13R2jN9C": "on",
		"cf_xGQSo978": "on"
	}`)

	record, err := n.NormalizeLatepoint(context.Background(), form)
	require.NoError(t, err)

	require.NotNil(t, record.BookingSystemID)
	assert.EqualValues(t, 42, *record.BookingSystemID)
	assert.Nil(t, record.PaymentSystemID)
	assert.Equal(t, "jane@example.com", record.Email)
	assert.Equal(t, enum.SourceLatepoint, record.Source)
	assert.Equal(t, "female", record.Gender)
	require.NotNil(t, record.Phone)
	assert.Equal(t, "+447911123456", *record.Phone)

	prefs := record.Preferences
	require.NotNil(t, prefs)
	assert.True(t, prefs.MedicalConditions)
	assert.Equal(t, "firm", prefs.PressureLevel)
	assert.Equal(t, "deep tissue", prefs.SessionPreference)
	assert.Equal(t, "ambient", prefs.MusicPreference)
	assert.Equal(t, "lavender", prefs.AromatherapyPreference)
	assert.Equal(t, "instagram", prefs.ReferralSource)
	assert.True(t, prefs.EmailSubscribed)
	assert.True(t, prefs.AcceptedTerms)
}

func TestNormalizeLatepointDefaultsMissingCustomFields(t *testing.T) {
	n := NewNormalizer(&stubGenderResolver{gender: "female"})

	record, err := n.NormalizeLatepoint(context.Background(), latepointCustomerForm(t, ""))
	require.NoError(t, err)

	prefs := record.Preferences
	require.NotNil(t, prefs)
	assert.False(t, prefs.MedicalConditions)
	assert.Empty(t, prefs.PressureLevel)
	assert.False(t, prefs.EmailSubscribed)
	assert.False(t, prefs.AcceptedTerms)
}

func TestNormalizeLatepointRejectsNonNumericID(t *testing.T) {
	n := NewNormalizer(&stubGenderResolver{gender: "female"})

	form := latepointCustomerForm(t, "")
	form.ExternalID = "abc"

	_, err := n.NormalizeLatepoint(context.Background(), form)
	assert.Error(t, err)
}

func TestNormalizeGenderFailureMapsToUnknown(t *testing.T) {
	resolver := &stubGenderResolver{err: errors.New("service unavailable")}
	n := NewNormalizer(resolver)

	record, err := n.NormalizeLatepoint(context.Background(), latepointCustomerForm(t, ""))
	require.NoError(t, err, "gender enrichment must never fail the webhook")
	assert.Equal(t, genderapi.Unknown, record.Gender)
	assert.Equal(t, 1, resolver.calls)
}

func TestNormalizeSquare(t *testing.T) {
	n := NewNormalizer(&stubGenderResolver{gender: "male"})

	record, err := n.NormalizeSquare(context.Background(), &request.SquareCustomer{
		ID:           "SQ_CUST_1",
		GivenName:    "John",
		FamilyName:   "Smith",
		EmailAddress: "John@Example.com",
		PhoneNumber:  "+447911123456",
		Address: &request.SquareAddress{
			AddressLine1: "1 High Street",
			Locality:     "London",
			PostalCode:   "N1 9GU",
			Country:      "GB",
		},
	})
	require.NoError(t, err)

	require.NotNil(t, record.PaymentSystemID)
	assert.Equal(t, "SQ_CUST_1", *record.PaymentSystemID)
	assert.Nil(t, record.BookingSystemID)
	assert.Equal(t, "john@example.com", record.Email)
	assert.Equal(t, enum.SourceSquare, record.Source)
	assert.Equal(t, "male", record.Gender)
	assert.Nil(t, record.Preferences)
	require.NotNil(t, record.Address)
	assert.Equal(t, "London", record.Address.Locality)
}
