package config

import (
	"errors"
	"fmt"
)

// InvalidConfigError indicates that a configuration value is missing or out of its allowed range.
type InvalidConfigError struct {
	err error
}

func (e InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", e.err)
}

func (e InvalidConfigError) Unwrap() error {
	return e.err
}

// NewInvalidConfigErr returns a new InvalidConfigError.
func NewInvalidConfigErr(err error) InvalidConfigError {
	return InvalidConfigError{err: err}
}

// IsInvalidConfigError returns true if an error is InvalidConfigError
func IsInvalidConfigError(err error) bool {
	var e InvalidConfigError
	return errors.As(err, &e)
}
