package validation

import (
	"time"
)

// ValidationSeverity represents the severity level of a validation issue
type ValidationSeverity int

const (
	ValidationSeverityError ValidationSeverity = iota
	ValidationSeverityWarning
)

// ValidationErrorCode represents specific validation error types
type ValidationErrorCode int

const (
	ErrorNameRequired ValidationErrorCode = iota
	ErrorInvalidPhone
)

// ValidationError represents a specific validation error
type ValidationError struct {
	Field    string
	Code     ValidationErrorCode
	Message  string
	Severity ValidationSeverity
}

// ValidationResult represents the result of contact form validation
type ValidationResult struct {
	IsValid     bool
	ValidatedAt time.Time
	Errors      []ValidationError
}

// FirstError returns the message of the first error, or "" when valid.
func (r ValidationResult) FirstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}
