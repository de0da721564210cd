package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrInvalidLength indicates phone number is outside the E.164 range
	ErrInvalidLength = errors.New("phone number must have between 8 and 15 digits")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// PhoneValidator validates the phone numbers handed to the SMS gateway.
// Twilio requires E.164 (+<country code><number>), so numbers are
// normalized to that form.
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate checks a phone number and returns it in E.164 form.
// Accepts formats like +14155550100, (415) 555-0100 or 415 555 0100;
// numbers without a country code are assumed to be US/Canada.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if phone == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !digitsRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	// Bare 10-digit numbers get the NANP country code
	if len(sanitized) == 10 {
		sanitized = "1" + sanitized
	}

	if len(sanitized) < 8 || len(sanitized) > 15 {
		return "", ErrInvalidLength
	}

	return "+" + sanitized, nil
}

// Sanitize strips separators and the leading + from a phone number
func (v *PhoneValidator) Sanitize(phone string) string {
	for _, sep := range []string{" ", "-", "(", ")", "+", "."} {
		phone = strings.ReplaceAll(phone, sep, "")
	}
	return phone
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}

// MustValidate validates and panics if invalid (use for testing only)
func (v *PhoneValidator) MustValidate(phone string) string {
	normalized, err := v.Validate(phone)
	if err != nil {
		panic(fmt.Sprintf("invalid phone number %s: %v", phone, err))
	}
	return normalized
}
