package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeInvalidArgument  Code = "invalid_argument"
	CodeConflict         Code = "conflict"
	CodeNotFound         Code = "not_found"
	CodePermissionDenied Code = "permission_denied"
	CodeUnauthenticated  Code = "unauthenticated"
	CodeStorageFailure   Code = "storage_failure"
	CodePartialFailure   Code = "partial_failure"
)

// Error is the error type returned across service boundaries. Handlers map
// Code to an HTTP status; Message is safe to show to callers.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error carrying the same code, so callers can write
// errors.Is(err, apperr.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Message == "" && t.Err == nil
}

var (
	ErrInvalidArgument  = &Error{Code: CodeInvalidArgument}
	ErrConflict         = &Error{Code: CodeConflict}
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrPermissionDenied = &Error{Code: CodePermissionDenied}
	ErrUnauthenticated  = &Error{Code: CodeUnauthenticated}
	ErrStorageFailure   = &Error{Code: CodeStorageFailure}
)

func New(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...interface{}) *Error {
	return New(CodeInvalidArgument, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return New(CodeConflict, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return New(CodeNotFound, format, args...)
}

func PermissionDenied(format string, args ...interface{}) *Error {
	return New(CodePermissionDenied, format, args...)
}

func Unauthenticated(format string, args ...interface{}) *Error {
	return New(CodeUnauthenticated, format, args...)
}

// Storage wraps an underlying store error. Already classified errors pass
// through unchanged.
func Storage(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return err
	}
	return &Error{Code: CodeStorageFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeStorageFailure for anything unclassified.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeStorageFailure
}

// MessageOf returns the caller-facing message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return "internal storage failure"
}
