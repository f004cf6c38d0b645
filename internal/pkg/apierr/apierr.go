package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable error codes surfaced to clients. Every service failure maps to
// exactly one of these.
const (
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthorized       = "unauthorized"
	CodeForbidden          = "forbidden"
	CodeUnknownKid         = "unknown_kid"
	CodeNotFound           = "not_found"
	CodeBadRequest         = "bad_request"
	CodeInsufficientPoints = "insufficient_points"
	CodeInternal           = "internal"
)

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

// InvalidCredentials is returned for both unknown usernames and wrong
// passwords so the login surface cannot be used for account enumeration.
func InvalidCredentials() *Error {
	return New(http.StatusUnauthorized, CodeInvalidCredentials, errors.New("invalid email or password"))
}

func Unauthorized(err error) *Error {
	if err == nil {
		err = errors.New("missing or invalid token")
	}
	return New(http.StatusUnauthorized, CodeUnauthorized, err)
}

func Forbidden(err error) *Error {
	if err == nil {
		err = errors.New("forbidden")
	}
	return New(http.StatusForbidden, CodeForbidden, err)
}

// UnknownKid covers both a kid that does not exist and a kid owned by a
// different parent; callers must not be able to tell the two apart.
func UnknownKid() *Error {
	return New(http.StatusNotFound, CodeUnknownKid, errors.New("unknown kid"))
}

func NotFound(what string) *Error {
	return New(http.StatusNotFound, CodeNotFound, fmt.Errorf("%s not found", what))
}

func BadRequest(err error) *Error {
	if err == nil {
		err = errors.New("bad request")
	}
	return New(http.StatusBadRequest, CodeBadRequest, err)
}

func InsufficientPoints() *Error {
	return New(http.StatusConflict, CodeInsufficientPoints, errors.New("insufficient points"))
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, err)
}

// From normalizes any error into an *Error, wrapping unknown errors as
// internal failures.
func From(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// Is reports whether err is an *Error carrying the given code.
func Is(err error, code string) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
