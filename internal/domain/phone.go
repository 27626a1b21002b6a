package domain

import (
	"errors"
	"strings"
)

// ErrInvalidPhone is returned when a phone number cannot be normalized.
var ErrInvalidPhone = errors.New("invalid phone number")

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// NormalizePhone reduces a user-supplied phone number to canonical
// "+<digits>" form. Spaces, dashes and parentheses are stripped; a
// missing leading "+" is tolerated. Anything else fails.
func NormalizePhone(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	trimmed = strings.TrimPrefix(trimmed, "+")
	if trimmed == "" {
		return "", ErrInvalidPhone
	}

	var digits strings.Builder
	for _, r := range trimmed {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// separator, drop it
		default:
			return "", ErrInvalidPhone
		}
	}

	n := digits.Len()
	if n < minPhoneDigits || n > maxPhoneDigits {
		return "", ErrInvalidPhone
	}
	return "+" + digits.String(), nil
}
