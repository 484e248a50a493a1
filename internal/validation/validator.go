package validation

import (
	"regexp"
	"strings"
	"time"

	"rhystmorgan/contactsterm/internal/models"
)

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

const (
	MessageNameRequired = "Name is required"
	MessageInvalidPhone = "Phone number may only contain digits 0-9"
)

// ValidateContact checks the form fields before anything reaches storage.
// Errors are ordered name first, then phone. Email is not validated.
func ValidateContact(input models.ContactInput) ValidationResult {
	result := ValidationResult{
		IsValid:     true,
		ValidatedAt: time.Now(),
	}

	if strings.TrimSpace(input.Name) == "" {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "name",
			Code:     ErrorNameRequired,
			Message:  MessageNameRequired,
			Severity: ValidationSeverityError,
		})
		result.IsValid = false
	}

	if !IsValidPhone(input.Phone) {
		result.Errors = append(result.Errors, ValidationError{
			Field:    "phone",
			Code:     ErrorInvalidPhone,
			Message:  MessageInvalidPhone,
			Severity: ValidationSeverityError,
		})
		result.IsValid = false
	}

	return result
}

// IsValidPhone accepts an empty phone or one made only of ASCII digits.
func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return true
	}
	return digitsOnly.MatchString(phone)
}
