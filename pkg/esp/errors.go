// SPDX-License-Identifier: MPL-2.0

package esp

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedTag is the sentinel wrapped by UnexpectedTagError.
	ErrUnexpectedTag = errors.New("unexpected record tag")
	// ErrMalformed is returned when record framing is inconsistent.
	ErrMalformed = errors.New("malformed plugin")
	// ErrNotPlugin is returned when the first record is not a TES3 header.
	ErrNotPlugin = errors.New("not a TES3 plugin")
)

type (
	// UnexpectedTagError reports a record tag outside the TES3 vocabulary.
	UnexpectedTagError struct {
		Tag    Tag
		Offset int64
	}

	// MalformedError reports a framing problem at a byte offset.
	MalformedError struct {
		Offset int64
		Reason string
	}
)

// Error implements the error interface.
func (e *UnexpectedTagError) Error() string {
	return fmt.Sprintf("unexpected record tag %q at offset %d", string(e.Tag), e.Offset)
}

// Unwrap returns ErrUnexpectedTag for errors.Is() compatibility.
func (e *UnexpectedTagError) Unwrap() error { return ErrUnexpectedTag }

// Error implements the error interface.
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed plugin at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap returns ErrMalformed for errors.Is() compatibility.
func (e *MalformedError) Unwrap() error { return ErrMalformed }
