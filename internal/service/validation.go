package service

import (
	"regexp"
	"strings"

	"github.com/fjod/go_food/internal/domain"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

func requireField(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.NewValidationError(field, "is required")
	}
	return nil
}

func validatePhone(field, phone string) error {
	if err := requireField(field, phone); err != nil {
		return err
	}
	if !phonePattern.MatchString(strings.TrimSpace(phone)) {
		return domain.NewValidationError(field, "must be 9 to 15 digits, optionally prefixed with +")
	}
	return nil
}

func validateShippingAddress(addr domain.ShippingAddress) error {
	if err := requireField("full_name", addr.FullName); err != nil {
		return err
	}
	if err := validatePhone("phone", addr.Phone); err != nil {
		return err
	}
	return requireField("address", addr.Address)
}

// firstError returns the first non-nil error, so forms report one field at a time.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
