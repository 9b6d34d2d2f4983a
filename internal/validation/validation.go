// Package validation checks user-supplied input before it reaches services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores bytes past 72
	MaxPasswordLength = 72

	MinMaskInterval = 2
	MaxMaskInterval = 10
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// Book, chapter and verse or verse range: "John 3:16", "1 Corinthians 13:4-7".
	referenceRegex = regexp.MustCompile(`^(?:[1-3] )?[A-Za-z]+(?: [A-Za-z]+)* \d{1,3}:\d{1,3}(?:-\d{1,3})?$`)
)

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets length requirements
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ValidationError{Field: "password", Message: "password is required"}
	case len(password) < MinPasswordLength:
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	case len(password) > MaxPasswordLength:
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength)}
	}
	return nil
}

// ValidateName checks if a display name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if len(name) > 100 {
		return ValidationError{Field: "name", Message: "name must be at most 100 characters"}
	}
	return nil
}

// NormalizeReference collapses runs of whitespace in a scripture reference.
func NormalizeReference(reference string) string {
	return strings.Join(strings.Fields(reference), " ")
}

// ValidateReference checks that reference looks like "Book chapter:verse".
func ValidateReference(reference string) error {
	reference = NormalizeReference(reference)
	if reference == "" {
		return ValidationError{Field: "reference", Message: "reference is required"}
	}
	if !referenceRegex.MatchString(reference) {
		return ValidationError{Field: "reference", Message: "reference must look like \"John 3:16\""}
	}
	return nil
}

// ValidateMaskInterval checks an admin-supplied masking interval.
func ValidateMaskInterval(interval int) error {
	if interval < MinMaskInterval || interval > MaxMaskInterval {
		return ValidationError{
			Field:   "mask_interval",
			Message: fmt.Sprintf("mask interval must be between %d and %d", MinMaskInterval, MaxMaskInterval),
		}
	}
	return nil
}
