package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	valid := []string{
		"jane@example.com",
		"jane.doe+tag@sub.example.co.uk",
		"  padded@example.com  ",
	}
	for _, email := range valid {
		assert.True(t, Email(email), "expected %q to validate", email)
	}

	invalid := []string{
		"",
		"plainaddress",
		"no-at-sign.example.com",
		"two@@example.com",
		"spaces in@example.com",
		"missing@tld",
	}
	for _, email := range invalid {
		assert.False(t, Email(email), "expected %q to be rejected", email)
	}
}

func TestPhone(t *testing.T) {
	ok, reason := Phone("+447911123456", "+44")
	assert.True(t, ok)
	assert.Empty(t, reason)

	// Formatting characters are ignored
	ok, _ = Phone("+44 7911 123 456", "+44")
	assert.True(t, ok)

	ok, reason = Phone("", "+44")
	assert.False(t, ok)
	assert.Equal(t, "phone number is required", reason)

	ok, reason = Phone("07911123456", "+44")
	assert.False(t, ok)
	assert.Contains(t, reason, "must start with +44")

	ok, reason = Phone("+4479111234", "+44")
	assert.False(t, ok)
	assert.Contains(t, reason, "10 digits")

	ok, _ = Phone("+4479111234567", "+44")
	assert.False(t, ok)
}

func TestName(t *testing.T) {
	ok, _ := Name("Jane", "first_name")
	assert.True(t, ok)

	ok, _ = Name("Mary Jane", "first_name")
	assert.True(t, ok)

	ok, reason := Name("J", "first_name")
	assert.False(t, ok)
	assert.Equal(t, "first_name must be at least 2 characters", reason)

	ok, reason = Name("Jane42", "last_name")
	assert.False(t, ok)
	assert.Equal(t, "last_name may only contain letters and spaces", reason)

	ok, _ = Name("  ", "first_name")
	assert.False(t, ok)
}
