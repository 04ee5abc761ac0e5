package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeNotFound     = "NOT_FOUND"
	CodeAuthRequired = "AUTH_REQUIRED"
	CodeUpstream     = "UPSTREAM_FAILURE"
	CodeValidation   = "VALIDATION_FAILED"
	CodeInvalidID    = "INVALID_ID"
	CodeInternal     = "INTERNAL_ERROR"

	// CodeMalformedStoredJSON tags stored values that fail to decode. It is
	// logged, never returned to a caller.
	CodeMalformedStoredJSON = "MALFORMED_STORED_JSON"
)

// Error is an error with the HTTP status and code it should be reported with.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(err error) *Error { return New(http.StatusNotFound, CodeNotFound, err) }

func AuthRequired(err error) *Error { return New(http.StatusUnauthorized, CodeAuthRequired, err) }

func Upstream(err error) *Error { return New(http.StatusBadGateway, CodeUpstream, err) }

func Validation(err error) *Error { return New(http.StatusBadRequest, CodeValidation, err) }

func InvalidID(err error) *Error { return New(http.StatusBadRequest, CodeInvalidID, err) }

func Internal(err error) *Error { return New(http.StatusInternalServerError, CodeInternal, err) }

// As returns the *Error in err's chain, or an Internal error wrapping err.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}
