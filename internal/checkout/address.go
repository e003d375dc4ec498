package checkout

import (
	"errors"
	"strings"

	"github.com/greenleaf-pharma/portal-api/internal/models"
	"github.com/greenleaf-pharma/portal-api/internal/sanitize"
)

var (
	// ErrAddressFieldMissing signals an empty address field.
	ErrAddressFieldMissing = errors.New("alle Adressfelder müssen ausgefüllt sein")
	// ErrInvalidPostalCode signals a German address with a malformed postal code.
	ErrInvalidPostalCode = errors.New("deutsche Postleitzahlen bestehen aus 5 Ziffern")
)

// NewSanitizedAddress validates and sanitizes the five address fields into a
// canonical Address. Checks run most-specific-last: presence first, then the
// country-specific postal-code format, then sanitization, so the returned
// error names the narrowest problem found.
func NewSanitizedAddress(name, street, city, postalCode, country string) (models.Address, error) {
	if name == "" || street == "" || city == "" || postalCode == "" || country == "" {
		return models.Address{}, ErrAddressFieldMissing
	}

	if strings.Contains(strings.ToLower(country), "germany") && !isFiveDigits(postalCode) {
		return models.Address{}, ErrInvalidPostalCode
	}

	return models.Address{
		Name:       sanitize.Input(name),
		Street:     sanitize.Input(street),
		City:       sanitize.Input(city),
		PostalCode: sanitize.Input(postalCode),
		Country:    sanitize.Input(country),
	}, nil
}

func isFiveDigits(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
