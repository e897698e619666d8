package errors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrMalformedInput indicates the request body could not be parsed at all
	ErrMalformedInput = errors.New("malformed input")

	// ErrValidationFailed indicates a well-formed payload that violates the reservation schema
	ErrValidationFailed = errors.New("validation failed")

	// ErrConfigMissing indicates required server-side configuration is absent
	ErrConfigMissing = errors.New("configuration missing")

	// ErrDeliveryFailed indicates the mail relay rejected the message or was unreachable
	ErrDeliveryFailed = errors.New("delivery failed")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// MalformedInputError creates a malformed input error with context
func MalformedInputError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrMalformedInput)
}

// ConfigMissingError creates a configuration error naming the missing settings
func ConfigMissingError(settings ...string) error {
	return fmt.Errorf("missing %v: %w", settings, ErrConfigMissing)
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}
