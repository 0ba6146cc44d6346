// Package errors provides structured error types for pointpack.
//
// Every failure a caller can act on carries a [Code]: a rejected graph shape,
// an unknown placement strategy, a malformed config or scene file. Codes
// survive fmt.Errorf wrapping, so the CLI can classify an error however deep
// the stage that produced it.
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (bad counts, domains, graph shapes)
//   - *_NOT_FOUND: Missing files or cache entries
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidGraph, "n*m must be even, got %d*%d", n, m)
//	if errors.Is(err, errors.ErrCodeInvalidGraph) {
//	    // reject before relaxing
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidConfig, decodeErr, "decode %s", path)
//	if errors.GetCode(err).Usage() {
//	    os.Exit(2)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class.
type Code string

const (
	// Rejected input: counts, domains, graph shapes, strategies, options.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Missing files or cache entries.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Usage reports whether c blames the caller's input rather than the
// environment, i.e. rerunning with the same arguments will fail again.
func (c Code) Usage() bool {
	switch c {
	case ErrCodeInvalidInput, ErrCodeInvalidGraph, ErrCodeInvalidStrategy,
		ErrCodeInvalidConfig, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeFileNotFound:
		return true
	}
	return false
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error with code that wraps cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether any *Error in the chain of err carries code, so both
// the outer and the inner code of a Wrap match.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode returns the outermost code in the chain of err, or "" when there
// is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
