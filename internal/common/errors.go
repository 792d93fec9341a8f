// Package common defines shared constants and sentinel errors used across
// the storage, account and CLI layers of shopkeeper. Callers should use
// errors.Is / errors.As to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Storage errors. They are internal signals and never reach the UI.
	ErrStorageDegraded    = errors.New("storage degraded")
	ErrPrimaryUnavailable = errors.New("primary store unavailable")
	ErrQuotaExceeded      = errors.New("storage quota exceeded")
	ErrUnknownCollection  = errors.New("unknown collection")

	// Account errors.
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("too many attempts")
	ErrNotReady           = errors.New("account store not initialized")

	// Credential utility errors.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError reports a malformed user-supplied field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// RateLimitedError is returned by sign-in while an identifier is locked out.
type RateLimitedError struct {
	WaitMinutes int
	Message     string
}

func (e *RateLimitedError) Error() string { return e.Message }

func (e *RateLimitedError) Unwrap() error { return ErrRateLimited }
