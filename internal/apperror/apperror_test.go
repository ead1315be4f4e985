package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("user"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("email", "email is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "DuplicateAccount wraps ErrDuplicateAccount",
			err:       DuplicateAccount(),
			target:    ErrDuplicateAccount,
			wantMatch: true,
		},
		{
			name:      "IncorrectCredential wraps ErrIncorrectCredential",
			err:       IncorrectCredential(),
			target:    ErrIncorrectCredential,
			wantMatch: true,
		},
		{
			name:      "RoleMismatch wraps ErrRoleMismatch",
			err:       RoleMismatch(),
			target:    ErrRoleMismatch,
			wantMatch: true,
		},
		{
			name:      "InvalidIdentifier wraps ErrInvalidIdentifier",
			err:       InvalidIdentifier("job id"),
			target:    ErrInvalidIdentifier,
			wantMatch: true,
		},
		{
			name:      "UploadFailed wraps ErrUpload",
			err:       UploadFailed("profile photo"),
			target:    ErrUpload,
			wantMatch: true,
		},
		{
			name:      "FederationFailed wraps ErrFederation",
			err:       FederationFailed(),
			target:    ErrFederation,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("user"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "IncorrectCredential does NOT match ErrRoleMismatch",
			err:       IncorrectCredential(),
			target:    ErrRoleMismatch,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound names the resource",
			err:         NotFound("user"),
			wantMessage: "user not found",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("email", "email is required"),
			wantMessage: "email is required",
		},
		{
			name:        "IncorrectCredential is generic for both failure cases",
			err:         IncorrectCredential(),
			wantMessage: "incorrect email or password",
		},
		{
			name:        "FederationFailed never carries upstream detail",
			err:         FederationFailed(),
			wantMessage: "authentication with the identity provider failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestUnwrap(t *testing.T) {
	err := NotFound("user")
	if unwrapped := err.Unwrap(); unwrapped != ErrNotFound {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, ErrNotFound)
	}
}

func TestValidationFailedField(t *testing.T) {
	// The Field lets handlers tell the frontend which input was invalid.
	err := ValidationFailed("phoneNumber", "invalid phone number")
	if err.Field != "phoneNumber" {
		t.Errorf("Field = %q, want %q", err.Field, "phoneNumber")
	}
}
