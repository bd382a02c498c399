// Package promocode generates discount, gift-card and package codes. Codes
// are promotional identifiers, not secrets, so math/rand is sufficient.
package promocode

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// Kind selects the code family being generated
type Kind string

const (
	KindUnlimited Kind = "unlimited"
	KindSchool    Kind = "school"
	KindReferral  Kind = "referral"
	KindGuest     Kind = "guest"
	KindGift      Kind = "gift"
	KindBulk      Kind = "bulk"
	KindPersonal  Kind = "personal"
)

// ParseKind maps a URL segment or chat command to a Kind
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(s)) {
	case KindUnlimited, KindSchool, KindReferral, KindGuest, KindGift, KindBulk, KindPersonal:
		return Kind(strings.ToLower(s)), true
	}
	return "", false
}

// Params are the raw string parameters supplied by the caller (query
// params or chat command key=value pairs).
type Params struct {
	Duration   string
	Discount   string
	FirstName  string
	LastName   string
	Amount     string
	Type       string
	Quantity   string
	Expiration string
}

// Result carries the generated code(s) and the echo of accepted params
type Result struct {
	Code        string   `json:"code,omitempty"`
	Codes       []string `json:"codes,omitempty"`
	Description string   `json:"description"`
	Duration    string   `json:"duration,omitempty"`
	Discount    string   `json:"discount,omitempty"`
	Amount      string   `json:"amount,omitempty"`
	FirstName   string   `json:"first_name,omitempty"`
	LastName    string   `json:"last_name,omitempty"`
	Expiration  string   `json:"expiration,omitempty"`
}

// ValidationError marks a rejected parameter set
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

const (
	suffixChars    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	standardSuffix = 6
	giftSuffix     = 8
	maxBulk        = 50
)

// Generate validates the parameters for the given kind and produces the
// code(s). It returns a *ValidationError for bad input, never a code.
func Generate(kind Kind, p Params) (*Result, error) {
	switch kind {
	case KindUnlimited:
		return generateUnlimited(p)
	case KindSchool:
		return generateSchool(p)
	case KindReferral:
		return generateReferral(p)
	case KindGuest:
		return generateGuest(p)
	case KindGift:
		return generateGift(p)
	case KindBulk:
		return generateBulk(p)
	case KindPersonal:
		return generatePersonal(p)
	}
	return nil, invalid("unknown code kind: %s", kind)
}

func generateUnlimited(p Params) (*Result, error) {
	if !validDuration(p.Duration) {
		return nil, invalid("Invalid duration. Must be 60, 90, or 110")
	}
	if p.FirstName == "" {
		return nil, invalid("Missing first_name parameter")
	}
	if p.LastName == "" {
		return nil, invalid("Missing last_name parameter")
	}

	expiration := ""
	if p.Expiration != "" {
		parsed, err := time.Parse("2006-01-02", p.Expiration)
		if err != nil {
			return nil, invalid("Invalid expiration date format. Use YYYY-MM-DD")
		}
		expiration = parsed.Format("02 Jan 2006")
	}

	desc := fmt.Sprintf("Unlimited-%s-%s %s", p.Duration, p.FirstName, p.LastName)
	if expiration != "" {
		desc += "-" + expiration
	}

	return &Result{
		Code:        withSuffix(fmt.Sprintf("UL-%s-%s", p.Duration, upper(p.FirstName)), standardSuffix),
		Description: desc,
		Duration:    p.Duration,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Expiration:  expiration,
	}, nil
}

func generateSchool(p Params) (*Result, error) {
	if !validDiscount(p.Discount) {
		return nil, invalid("Invalid discount. Must be between 1 and 100")
	}
	return &Result{
		Code:        withSuffix("SCHL-"+p.Discount, standardSuffix),
		Description: fmt.Sprintf("School Group Discount - %s%% off", p.Discount),
		Discount:    p.Discount,
	}, nil
}

func generateReferral(p Params) (*Result, error) {
	if p.FirstName == "" {
		return nil, invalid("Missing first_name parameter")
	}
	if !validDiscount(p.Discount) {
		return nil, invalid("Invalid discount. Must be between 1 and 100")
	}
	return &Result{
		Code:        withSuffix(fmt.Sprintf("REF-%s-%s", p.Discount, upper(p.FirstName)), standardSuffix),
		Description: fmt.Sprintf("Friend & Family Referral - %s gets %s%% off", p.FirstName, p.Discount),
		Discount:    p.Discount,
		FirstName:   p.FirstName,
	}, nil
}

func generateGuest(p Params) (*Result, error) {
	if p.FirstName == "" {
		return nil, invalid("Missing first_name parameter")
	}
	if !validDuration(p.Duration) {
		return nil, invalid("Invalid duration. Must be 60, 90, or 110")
	}
	return &Result{
		Code:        withSuffix(fmt.Sprintf("FREE-%s-%s", p.Duration, upper(p.FirstName)), standardSuffix),
		Description: fmt.Sprintf("Free Session Guest Pass - %s minutes for %s", p.Duration, p.FirstName),
		Duration:    p.Duration,
		FirstName:   p.FirstName,
	}, nil
}

func generateGift(p Params) (*Result, error) {
	if p.Amount == "" {
		return nil, invalid("Missing amount parameter")
	}
	cardType := strings.ToUpper(p.Type)
	if cardType != "DIGITAL" && cardType != "PREMIUM" {
		return nil, invalid("Invalid card type. Must be DIGITAL or PREMIUM")
	}

	typeCode := "PREM"
	if cardType == "DIGITAL" {
		typeCode = "DGTL"
	}

	prefix := fmt.Sprintf("GIFT-%s-%s", typeCode, p.Amount)
	if p.FirstName != "" {
		prefix += "-" + upper(p.FirstName)
	}

	desc := fmt.Sprintf("Premium Gift Card - $%s", p.Amount)
	if cardType == "DIGITAL" {
		desc = fmt.Sprintf("Digital Gift Card - %s gets $%s", p.FirstName, p.Amount)
	}

	return &Result{
		Code:        withSuffix(prefix, giftSuffix),
		Description: desc,
		Amount:      p.Amount,
		FirstName:   p.FirstName,
	}, nil
}

func generateBulk(p Params) (*Result, error) {
	if p.Amount == "" {
		return nil, invalid("Missing amount parameter")
	}
	quantity, err := strconv.Atoi(p.Quantity)
	if err != nil || quantity < 1 || quantity > maxBulk {
		return nil, invalid("Invalid quantity. Must be between 1 and %d", maxBulk)
	}

	codes := make([]string, quantity)
	for i := range codes {
		codes[i] = withSuffix("GIFT-PREM-"+p.Amount, giftSuffix)
	}
	return &Result{
		Codes:       codes,
		Description: fmt.Sprintf("Premium Gift Card - $%s", p.Amount),
		Amount:      p.Amount,
	}, nil
}

func generatePersonal(p Params) (*Result, error) {
	if p.FirstName == "" {
		return nil, invalid("Missing first_name parameter")
	}

	hasDuration := p.Duration != ""
	hasDiscount := p.Discount != ""
	if hasDuration == hasDiscount {
		return nil, invalid("Provide exactly one of duration or discount")
	}

	if hasDuration {
		if !validDuration(p.Duration) {
			return nil, invalid("Invalid duration. Must be 60, 90, or 110")
		}
		return &Result{
			Code:        withSuffix(fmt.Sprintf("PERS-%s-%s", p.Duration, upper(p.FirstName)), standardSuffix),
			Description: fmt.Sprintf("Personal Duration Package - %s minutes for %s", p.Duration, p.FirstName),
			Duration:    p.Duration,
			FirstName:   p.FirstName,
		}, nil
	}

	if !validDiscount(p.Discount) {
		return nil, invalid("Invalid discount. Must be between 1 and 100")
	}
	return &Result{
		Code:        withSuffix(fmt.Sprintf("PERS-%s-%s", p.Discount, upper(p.FirstName)), standardSuffix),
		Description: fmt.Sprintf("Personal Discount Code - %s gets %s%% off", p.FirstName, p.Discount),
		Discount:    p.Discount,
		FirstName:   p.FirstName,
	}, nil
}

func validDuration(d string) bool {
	return d == "60" || d == "90" || d == "110"
}

func validDiscount(d string) bool {
	n, err := strconv.Atoi(d)
	return err == nil && n >= 1 && n <= 100
}

func withSuffix(prefix string, length int) string {
	// Top-level rand is safe for concurrent handler goroutines
	b := make([]byte, length)
	for i := range b {
		b[i] = suffixChars[rand.Intn(len(suffixChars))]
	}
	return prefix + "-" + string(b)
}

func upper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
