package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates the phone number has too few or too many digits
	ErrInvalidLength = errors.New("phone number must have between 7 and 15 digits")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits and an optional leading +")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15

	// colombiaCode is the country calling code used for local formatting
	colombiaCode = "57"
)

// phoneRegex matches an optional leading + followed by digits
var phoneRegex = regexp.MustCompile(`^\+?\d+$`)

// PhoneValidator handles contact phone validation. It is lenient: any
// international number is accepted, Colombian mobiles get a display format.
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a phone number
// Accepts formats like: 3001234567, 300 123 4567, +57 300-123-4567, (601) 555 1234
// Returns the sanitized number and an error if invalid
func (v *PhoneValidator) Validate(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)

	if !phoneRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	digits := strings.TrimPrefix(sanitized, "+")
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return "", ErrInvalidLength
	}

	return sanitized, nil
}

// Sanitize removes spaces and common separators
func (v *PhoneValidator) Sanitize(phone string) string {
	replacer := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "", "\t", "")
	return replacer.Replace(strings.TrimSpace(phone))
}

// IsColombianMobile reports whether a sanitized number is a Colombian mobile,
// with or without the +57 country code
func (v *PhoneValidator) IsColombianMobile(sanitized string) bool {
	digits := strings.TrimPrefix(sanitized, "+")
	if len(digits) == 12 && strings.HasPrefix(digits, colombiaCode) {
		digits = digits[2:]
	}
	return len(digits) == 10 && digits[0] == '3'
}

// Format formats a phone number for display. Colombian mobiles become
// "+57 3XX XXX XXXX"; other numbers are returned sanitized.
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	if !v.IsColombianMobile(sanitized) {
		return sanitized, nil
	}

	digits := strings.TrimPrefix(sanitized, "+")
	digits = digits[len(digits)-10:]
	return fmt.Sprintf("+%s %s %s %s", colombiaCode, digits[0:3], digits[3:6], digits[6:10]), nil
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
