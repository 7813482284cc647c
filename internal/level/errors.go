package level

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches any *ConfigurationError
	ErrConfiguration = errors.New("invalid level configuration")

	// ErrInvalidInput matches any *InvalidInputError
	ErrInvalidInput = errors.New("invalid classification input")
)

// ConfigurationError reports a malformed or incomplete level configuration
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// InvalidInputError reports a description or estimate that cannot be classified
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidInput, e.Reason)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}
