// Package apperror defines the error taxonomy shared by the service and
// handler layers. Services wrap one of the sentinel errors below into an
// *AppError with a human-readable message; handlers map the sentinel to an
// HTTP status with errors.Is and never expose anything else to the client.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrDuplicateAccount    = errors.New("duplicate account")
	ErrIncorrectCredential = errors.New("incorrect credential")
	ErrRoleMismatch        = errors.New("role mismatch")
	ErrNotFound            = errors.New("not found")
	ErrInvalidIdentifier   = errors.New("invalid identifier")
	ErrUpload              = errors.New("upload failed")
	ErrFederation          = errors.New("federation failed")
	ErrInternal            = errors.New("internal error")
)

type AppError struct {
	Err     error  // sentinel from the list above
	Message string // human-readable, safe to return to clients
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrValidation, Message: message, Field: field}
}

func DuplicateAccount() *AppError {
	return &AppError{
		Err:     ErrDuplicateAccount,
		Message: "an account already exists with this email",
		Field:   "email",
	}
}

// IncorrectCredential covers both an unknown email and a wrong password.
// Callers must not produce distinguishable messages for the two cases.
func IncorrectCredential() *AppError {
	return &AppError{
		Err:     ErrIncorrectCredential,
		Message: "incorrect email or password",
	}
}

func RoleMismatch() *AppError {
	return &AppError{
		Err:     ErrRoleMismatch,
		Message: "account doesn't exist with this role",
		Field:   "role",
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func InvalidIdentifier(field string) *AppError {
	return &AppError{
		Err:     ErrInvalidIdentifier,
		Message: fmt.Sprintf("invalid %s", field),
		Field:   field,
	}
}

// UploadFailed reports a media upload failure. The underlying storage error
// stays server-side; only the generic message goes out.
func UploadFailed(kind string) *AppError {
	return &AppError{
		Err:     ErrUpload,
		Message: fmt.Sprintf("error uploading %s, please try again later", kind),
	}
}

// FederationFailed reports an OAuth provider failure without leaking the
// upstream response body.
func FederationFailed() *AppError {
	return &AppError{
		Err:     ErrFederation,
		Message: "authentication with the identity provider failed",
	}
}

func Internal() *AppError {
	return &AppError{
		Err:     ErrInternal,
		Message: "internal server error, please try again later",
	}
}
