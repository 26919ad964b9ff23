// Package errors provides coded errors shared by the bridge server and its dashboard.
//
// Error codes are organized into categories:
//   - General errors (1-99)
//   - Validation and configuration errors (100-199)
//   - Data source errors (200-299)
//   - Access errors (300-399)
//   - Display errors (400-499)
//   - Server lifecycle errors (500-599)
//
// Usage:
//
//	err := errors.Wrap(errors.ErrCodeDataSourceUnavailable, "could not connect to data source", cause)
//
//	if errors.HasCode(err, errors.ErrCodeUnauthorized) { ... }
//
//	w.WriteHeader(errors.HTTPStatus(errors.GetCode(err)))
package errors

import (
	"errors"
	"fmt"
)

// Error is a failure carrying an ErrorCode. The code is what API clients see as "codigo".
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap attaches a code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from the first *Error in err's chain.
// Returns ErrCodeUnknown for nil or foreign errors.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// MessageOf returns the message of the outermost *Error in err's chain, or err.Error() otherwise.
// It is used for client-facing bodies where the wrapped cause should not leak.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return err.Error()
}
