// Package errors defines the structured errors shared by the nichetrace
// pipeline, CLI, and HTTP API.
//
// Every failure that crosses a package boundary carries a [Code] so
// callers can branch on the class of failure without matching message
// strings: the CLI picks its phrasing from the code, and the serve
// command maps it onto an HTTP status. Codes group into four families:
//
//   - INVALID_*: the caller handed us something malformed
//   - MISSING_*: a required upstream artifact is absent
//   - DEGENERATE_*: well-formed input on which the computation is ill-defined
//   - everything else: infrastructure and internal failures
//
// Construct errors with [New] or [Wrap] and test them with [Is]:
//
//	if rows != cols {
//		return errors.New(errors.ErrCodeInvalidInput, "connectivity matrix is not square: %dx%d", rows, cols)
//	}
//
//	if errors.Is(err, errors.ErrCodeMissingArtifact) {
//		// point the user at the GNN output directory
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Codes are stable strings, safe to
// match on programmatically and to surface in API responses.
type Code string

const (
	// Malformed caller input.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidSample   Code = "INVALID_SAMPLE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"

	// A required upstream artifact is absent. The pipeline fails fast on
	// these rather than writing partial output.
	ErrCodeMissingArtifact Code = "MISSING_ARTIFACT"

	// Well-formed input on which the trajectory is ill-defined, such as
	// a connectivity matrix with a single cluster.
	ErrCodeDegenerateTrajectory Code = "DEGENERATE_TRAJECTORY"

	// Infrastructure failures outside the numeric core.
	ErrCodeCache  Code = "CACHE_ERROR"
	ErrCodeRender Code = "RENDER_ERROR"

	// Bugs and unsupported requests.
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error pairs a Code with a formatted message and an optional cause.
// It satisfies the standard error interface, and Unwrap exposes the
// cause to errors.Is and errors.As.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error from a code and a printf-style message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with an underlying cause attached. The cause stays
// reachable through the error chain; the message should add the context
// the cause lacks, such as which file or which sample.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the chain around err contains an *Error carrying
// code. Unlike errors.Is it matches the code, not the value, so an
// error that has been wrapped again still answers to its class.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in the chain, or the
// empty string when there is no structured error in it.
func GetCode(err error) Code {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Code
}

// UserMessage strips the code prefix for display: the bare message for
// a structured error, err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
