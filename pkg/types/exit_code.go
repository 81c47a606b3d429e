// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

const (
	// ExitSuccess means the run completed without warnings.
	ExitSuccess ExitCode = 0
	// ExitFatal means the run stopped on an error.
	ExitFatal ExitCode = 1
	// ExitWarnings means the run completed but raised deletion threshold warnings.
	ExitWarnings ExitCode = 2
	// ExitDifferences means compare-only mode found differences.
	ExitDifferences ExitCode = 3
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a process exit status code.
	// Exit codes are in the range 0-255 on POSIX systems.
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode is outside the
	// valid range (0-255).
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// Max returns the more severe of two exit codes. Differences outrank
// warnings, and a fatal code outranks everything.
func (c ExitCode) Max(other ExitCode) ExitCode {
	rank := func(x ExitCode) int {
		switch x {
		case ExitFatal:
			return 3
		case ExitDifferences:
			return 2
		case ExitWarnings:
			return 1
		default:
			return 0
		}
	}
	if rank(other) > rank(c) {
		return other
	}
	return c
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
