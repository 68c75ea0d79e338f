package errors

import "github.com/pkg/errors"

// ErrorDetails represents detailed information about an error.
type ErrorDetails struct {
	// Message (required) is the user-defined error message.
	// E.g. "interval count must be positive".
	Message string

	// Code (required) is one of the ErrorCode values declared in this package.
	// E.g. "invalid_interval_spec".
	Code string

	// Field (optional) is the related field the error occurred on, if any.
	Field string

	// Object (optional) is the related object the error occured on, if any.
	Object interface{}
}

// NewErrorDetails creates a new ErrorDetails struct with the given parameters.
func NewErrorDetails(message, code, field string) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
	}
}

// NewErrorDetailsWithObject creates a new ErrorDetails struct with an associated object.
func NewErrorDetailsWithObject(message, code, field string, object interface{}) *ErrorDetails {
	return &ErrorDetails{
		Message: message,
		Code:    code,
		Field:   field,
		Object:  object,
	}
}

// Error() is used to implement the Golang `error` interface.
func (e *ErrorDetails) Error() string {
	return e.Message
}

// ErrorCodeEquals checks whether a given `error` has a specific code.
func ErrorCodeEquals(err error, code string) bool {
	errDetails, ok := err.(*ErrorDetails)
	if !ok {
		return false
	}

	return errDetails.Code == code
}

// HasCode reports whether err, or anything it wraps, carries the given code.
// Both a single *ErrorDetails and a *BaseError holding several details are recognised.
func HasCode(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	var details *ErrorDetails
	if errors.As(err, &details) && details.Code == string(code) {
		return true
	}

	var base *BaseError
	if errors.As(err, &base) && base.IsAnyCodeEqual(string(code)) {
		return true
	}

	return false
}

// IsInvalidIntervalSpec reports whether err was raised while resolving an interval specification.
func IsInvalidIntervalSpec(err error) bool {
	return HasCode(err, InvalidIntervalSpecError)
}

// As is errors.As, re-exported so callers need a single errors import.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Is is errors.Is, re-exported so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
