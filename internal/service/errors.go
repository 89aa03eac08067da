package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a service failure.
type ErrorCode string

const (
	ErrorConfiguration     ErrorCode = "CONFIGURATION_ERROR"
	ErrorUpstreamFormat    ErrorCode = "UPSTREAM_FORMAT_ERROR"
	ErrorUpstreamTransport ErrorCode = "UPSTREAM_TRANSPORT_ERROR"
	ErrorNotFound          ErrorCode = "NOT_FOUND"
	ErrorValidation        ErrorCode = "VALIDATION_ERROR"
	ErrorInternal          ErrorCode = "INTERNAL_ERROR"
)

// Error is the typed error returned by every service operation. Reason is
// safe to show to callers; Err holds the underlying cause.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("service: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("service: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HTTPStatus maps the code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case ErrorValidation:
		return http.StatusBadRequest
	case ErrorNotFound:
		return http.StatusNotFound
	case ErrorUpstreamFormat, ErrorUpstreamTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

// AsError extracts a service error, wrapping anything else as internal.
func AsError(err error) *Error {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return newError(ErrorInternal, "Internal server error", err)
}

// IsCode reports whether err is a service error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.Code == code
}
