// Package email normalizes and validates the email addresses carried by
// patient and user records.
package email

import (
	"net/mail"
	"strings"

	dErrors "clinica/pkg/domain-errors"
)

// Normalize trims whitespace and lower-cases the address.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// Validate checks that the address parses as a bare RFC 5322 address.
// Display names ("Ada <ada@example.com>") are rejected; records store the
// address alone.
func Validate(address string) error {
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return dErrors.New(dErrors.CodeInvalidInput, "email address is invalid")
	}
	if parsed.Address != address {
		return dErrors.New(dErrors.CodeInvalidInput, "email address must not carry a display name")
	}
	return nil
}
