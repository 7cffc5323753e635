// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Validation errors (100-199): Invalid configuration, missing parameters, insufficient data
//   - Data/Resource errors (200-299): Provider faults, query failures, unordered input
//   - Backtest errors (600-699): Aborted runs, ledger persistence, sweeps
//
// Business-rule rejections (no viable spread, risk budget exhausted) are never
// expressed with these errors. They exist for faults only.
//
// Usage:
//
//	err := errors.New(errors.ErrCodeInvalidConfiguration, "width band is empty")
//	err := errors.Wrap(errors.ErrCodeBacktestAborted, "quotes unavailable", cause)
//	if errors.HasCode(err, errors.ErrCodeBacktestAborted) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
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

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
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

// GetCode extracts the outermost ErrorCode from an error chain.
// Returns ErrCodeUnknown if the chain holds no *Error.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if any *Error in the chain carries the given code.
func HasCode(err error, code ErrorCode) bool {
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

// InsufficientDataError reports that an indicator had fewer bars than its window needs.
type InsufficientDataError struct {
	Indicator string
	Required  int
	Actual    int
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(indicator string, required, actual int) *InsufficientDataError {
	return &InsufficientDataError{
		Indicator: indicator,
		Required:  required,
		Actual:    actual,
	}
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s needs %d bars, got %d", e.Indicator, e.Required, e.Actual)
}

// IsInsufficientDataError checks if an error is an InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}
