// Package testutil provides shared helpers for testify mock handling.
package testutil

import (
	"fmt"

	"github.com/stretchr/testify/mock"
)

// ValidateArgs validates mock arguments count against expected count
func ValidateArgs(args mock.Arguments, expectedCount int) error {
	if len(args) != expectedCount {
		return fmt.Errorf("mock not properly configured: expected %d return values, got %d", expectedCount, len(args)) //nolint:err113 // defensive error for test mock
	}
	return nil
}

// ExtractResult extracts a typed result from mock arguments for methods
// that return (result, error) with the result at index 0.
func ExtractResult[T any](args mock.Arguments) (T, error) {
	var zero T

	if err := ValidateArgs(args, 2); err != nil {
		return zero, err
	}

	if args.Get(0) == nil {
		return zero, args.Error(1)
	}

	result, ok := args.Get(0).(T)
	if !ok {
		return zero, fmt.Errorf("mock result is not of expected type %T", zero) //nolint:err113 // defensive error for test mock
	}

	return result, args.Error(1)
}
