package validation

import (
	"testing"

	"rhystmorgan/contactsterm/internal/models"
)

func TestValidateContact(t *testing.T) {
	tests := []struct {
		name      string
		input     models.ContactInput
		wantValid bool
		wantCode  ValidationErrorCode
	}{
		{
			name:      "valid with phone",
			input:     models.ContactInput{Name: "Ann", Phone: "0901234567"},
			wantValid: true,
		},
		{
			name:      "valid without phone",
			input:     models.ContactInput{Name: "Ann"},
			wantValid: true,
		},
		{
			name:      "phone with surrounding spaces",
			input:     models.ContactInput{Name: "Ann", Phone: " 123 "},
			wantValid: true,
		},
		{
			name:      "blank name",
			input:     models.ContactInput{Name: "   ", Phone: "1"},
			wantValid: false,
			wantCode:  ErrorNameRequired,
		},
		{
			name:      "letters in phone",
			input:     models.ContactInput{Name: "Ann", Phone: "12a"},
			wantValid: false,
			wantCode:  ErrorInvalidPhone,
		},
		{
			name:      "plus sign in phone",
			input:     models.ContactInput{Name: "Ann", Phone: "+8490"},
			wantValid: false,
			wantCode:  ErrorInvalidPhone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateContact(tt.input)
			if result.IsValid != tt.wantValid {
				t.Fatalf("Expected valid=%v, got %v (%v)", tt.wantValid, result.IsValid, result.Errors)
			}
			if tt.wantValid {
				if result.FirstError() != "" {
					t.Errorf("Expected no error message, got '%s'", result.FirstError())
				}
				return
			}
			if result.Errors[0].Code != tt.wantCode {
				t.Errorf("Expected code %d, got %d", tt.wantCode, result.Errors[0].Code)
			}
		})
	}
}

func TestValidateContactReportsNameBeforePhone(t *testing.T) {
	result := ValidateContact(models.ContactInput{Name: "", Phone: "abc"})

	if len(result.Errors) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(result.Errors))
	}
	if result.FirstError() != MessageNameRequired {
		t.Errorf("Expected first error '%s', got '%s'", MessageNameRequired, result.FirstError())
	}
}
