// Package apperrors holds the error types shared by the command line, the
// batch runner and the HTTP server, and maps them to process exit codes.
//
// Types that carry a cause implement Unwrap, so errors.Is and errors.As see
// through them.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Process exit codes. A batch exits with the most severe code among its
// jobs.
const (
	ExitSuccess         = 0
	ExitErrorGeneric    = 1
	ExitErrorTimeout    = 2
	ExitErrorNoSolution = 3 // no divider combination satisfies the chip limits
	ExitErrorConfig     = 4
	ExitErrorOutOfRange = 5 // reference or output frequency outside the chip range
	ExitErrorCanceled   = 130
)

// ConfigError reports unusable flags, environment values or files. The
// program stops before any search starts.
type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ServerError reports a failure to start or stop the HTTP listener.
type ServerError struct {
	Message string
	Cause   error
}

func (e ServerError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e ServerError) Unwrap() error { return e.Cause }

func NewServerError(message string, cause error) error {
	return ServerError{Message: message, Cause: cause}
}

// ValidationError rejects one field of an API request or a batch job.
type ValidationError struct {
	Field   string
	Message string
	// Value is the rejected input, if any.
	Value any
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error for '%s': %s", e.Field, e.Message)
}

func NewValidationError(field, message string, value any) error {
	return ValidationError{Field: field, Message: message, Value: value}
}

// IsContextError reports whether err comes from a canceled or expired
// context. Sweeps stopped this way still carry their best result.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
