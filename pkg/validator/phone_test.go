package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	validNumbers := []struct {
		input    string
		expected string
		name     string
	}{
		{"+14155550100", "+14155550100", "E.164"},
		{"14155550100", "+14155550100", "Missing plus"},
		{"4155550100", "+14155550100", "Bare NANP number"},
		{"(415) 555-0100", "+14155550100", "Display format"},
		{"415 555 0100", "+14155550100", "With spaces"},
		{"415.555.0100", "+14155550100", "With dots"},
		{"+442071838750", "+442071838750", "UK number"},
		{"+94771234567", "+94771234567", "Sri Lankan number"},
	}

	for _, tc := range validNumbers {
		t.Run(tc.name, func(t *testing.T) {
			normalized, err := validator.Validate(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, normalized)
		})
	}
}

func TestValidate_InvalidNumbers(t *testing.T) {
	validator := NewPhoneValidator()

	invalidNumbers := []struct {
		input string
		err   error
		name  string
	}{
		{"", ErrEmptyPhone, "Empty"},
		{"call-me-maybe", ErrInvalidFormat, "Letters"},
		{"415555x0100", ErrInvalidFormat, "Embedded letter"},
		{"1234567", ErrInvalidLength, "Too short"},
		{"1234567890123456", ErrInvalidLength, "Too long"},
	}

	for _, tc := range invalidNumbers {
		t.Run(tc.name, func(t *testing.T) {
			_, err := validator.Validate(tc.input)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestSanitize(t *testing.T) {
	validator := NewPhoneValidator()

	assert.Equal(t, "14155550100", validator.Sanitize("+1 (415) 555-0100"))
	assert.Equal(t, "4155550100", validator.Sanitize("415.555.0100"))
}

func TestIsValid(t *testing.T) {
	validator := NewPhoneValidator()

	assert.True(t, validator.IsValid("+14155550100"))
	assert.False(t, validator.IsValid("bogus"))
}

func TestMustValidate(t *testing.T) {
	validator := NewPhoneValidator()

	assert.Equal(t, "+14155550100", validator.MustValidate("4155550100"))
	assert.Panics(t, func() { validator.MustValidate("bogus") })
}
