package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/adfcalc/internal/synth"
)

// ColorProvider supplies the escape codes used by HandleSolveError. It
// keeps this package free of a dependency on the terminal UI.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider prints without colors.
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Red() string    { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// ExitCodeFor maps an error to the process exit code without printing
// anything. Invalid batch jobs count as configuration errors.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		cfgErr ConfigError
		valErr ValidationError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.Is(err, synth.ErrInputOutOfRange):
		return ExitErrorOutOfRange
	case errors.As(err, &cfgErr), errors.As(err, &valErr):
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// HandleSolveError prints the status line for a failed solve or sweep and
// returns its exit code. colors may be nil.
func HandleSolveError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	code := ExitCodeFor(err)
	if code == ExitSuccess {
		return code
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	var after string
	if duration > 0 {
		after = " after " + colors.Yellow() + duration.String() + colors.Reset()
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Timed out%s. Raise --timeout to search longer.\n", after)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), after, colors.Reset())
	case ExitErrorOutOfRange:
		fmt.Fprintf(out, "%sStatus: Input out of range.%s %v\n", colors.Red(), colors.Reset(), err)
	case ExitErrorConfig:
		fmt.Fprintf(out, "Configuration error: %v\n", err)
	default:
		fmt.Fprintf(out, "Status: Failed: %v\n", err)
	}
	return code
}
