// Package validate contains the pure field validators shared by every
// inbound webhook shape. Each validator returns a boolean plus a
// human-readable reason callers can surface as an HTTP 400 body.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LocalDigits is the number of digits a UK national number carries after
// the country code.
const LocalDigits = 10

// Email checks the format of an email address, not its deliverability
func Email(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Phone checks that a phone number starts with the given country-code
// prefix and carries the expected number of digits once formatting
// characters are stripped.
func Phone(s, prefix string) (bool, string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return false, "phone number is required"
	}
	if !strings.HasPrefix(s, prefix) {
		return false, fmt.Sprintf("phone number must start with %s", prefix)
	}

	stripped := strip(s)
	if len(stripped) != len(strip(prefix))+LocalDigits {
		return false, fmt.Sprintf("phone number must be %s followed by %d digits", prefix, LocalDigits)
	}
	return true, ""
}

// Name checks that a name field is at least two characters of letters and
// spaces only.
func Name(s, label string) (bool, string) {
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 2 {
		return false, fmt.Sprintf("%s must be at least 2 characters", label)
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && r != ' ' {
			return false, fmt.Sprintf("%s may only contain letters and spaces", label)
		}
	}
	return true, ""
}

// strip removes everything except digits
func strip(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
