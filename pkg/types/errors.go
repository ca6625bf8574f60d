package types

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates an out-of-range or negative numeric argument.
	// The wrapped message names the offending field.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates the empirical dataset (or other startup
	// configuration) is missing or corrupt. This is fatal: no calculation can
	// be served.
	ErrConfiguration = errors.New("invalid configuration")
)

// InvalidInputf returns an ErrInvalidInput naming the offending field.
func InvalidInputf(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidInput, field, fmt.Sprintf(format, args...))
}
