// Package errors defines common error types and utilities used throughout the application
package errors

import (
	"errors"
	"fmt"
)

// Error templates for static error definitions (satisfies err113 linter)
var (
	errInvalidFieldTemplate  = errors.New("invalid field")
	errEmptyFieldTemplate    = errors.New("field cannot be empty")
	errInvalidFormatTemplate = errors.New("invalid format")
	errValidationTemplate    = errors.New("validation failed")
)

// WrapWithContext wraps an error with operation context using consistent formatting.
// This replaces manual fmt.Errorf("failed to %s: %w", operation, err) patterns.
func WrapWithContext(err error, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to %s: %w", operation, err)
}

// InvalidFieldError creates a standardized invalid field error.
func InvalidFieldError(field, value string) error {
	return fmt.Errorf("%w: %s: %s", errInvalidFieldTemplate, field, value)
}

// EmptyFieldError creates a standardized empty field validation error.
func EmptyFieldError(field string) error {
	return fmt.Errorf("%w: %s", errEmptyFieldTemplate, field)
}

// FormatError creates a standardized format validation error.
func FormatError(field, value, expectedFormat string) error {
	return fmt.Errorf("%w: %s '%s': expected %s", errInvalidFormatTemplate, field, value, expectedFormat)
}

// ValidationError creates a standardized validation error.
func ValidationError(item, reason string) error {
	return fmt.Errorf("%w for %s: %s", errValidationTemplate, item, reason)
}
