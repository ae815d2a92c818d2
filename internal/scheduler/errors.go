package scheduler

import (
	"errors"
	"fmt"
)

// ErrConfiguration is returned (wrapped in a *ConfigError) by every
// constructor in this package when its arguments are invalid.
// Use errors.Is to check: errors.Is(err, scheduler.ErrConfiguration)
var ErrConfiguration = errors.New("scheduler: invalid configuration")

// ConfigError describes which argument was rejected and why.
type ConfigError struct {
	Field   string // Argument name (e.g., "boundaries", "warmup_steps")
	Details string // What is wrong with it
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("scheduler: invalid %s: %s", e.Field, e.Details)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigError) Unwrap() error {
	return ErrConfiguration
}

func configError(field, format string, args ...any) error {
	return &ConfigError{Field: field, Details: fmt.Sprintf(format, args...)}
}
