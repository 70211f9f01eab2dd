package apperr

import (
	"errors"
	"fmt"
)

// Code classifies an error for transport mapping and retry policy.
// Validation and conflict errors must never be retried; transient
// storage errors are safe to retry per affected unit because all
// mutations are upsert or conditional-update based.
type Code string

const (
	CodeValidation Code = "validation"
	CodeNotFound   Code = "not_found"
	CodeConflict   Code = "conflict"
	CodeTransient  Code = "transient"
	CodeInternal   Code = "internal"
)

// Error is a coded error. Reason optionally carries a machine-readable
// sub-reason (for example promo rejection reasons).
type Error struct {
	Code   Code
	Reason string
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Msg: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflictf(reason string, format string, args ...interface{}) *Error {
	return &Error{Code: CodeConflict, Reason: reason, Msg: fmt.Sprintf(format, args...)}
}

func Transient(msg string, err error) *Error {
	return &Error{Code: CodeTransient, Msg: msg, Err: err}
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// ReasonOf extracts the machine-readable sub-reason, if any.
func ReasonOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ""
}
