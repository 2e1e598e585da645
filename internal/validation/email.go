package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// NormalizeEmail trims surrounding whitespace and lower-cases the address
// so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail validates email format and length
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	// RFC 5321: 254 characters total
	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	// net/mail accepts "Name <a@b.c>", only a bare address is allowed here
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return errors.New("invalid email address format")
	}

	return nil
}
