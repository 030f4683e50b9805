package service

import (
	"errors"
)

// Error kinds. Handlers map these to HTTP statuses with errors.Is.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrUserAlreadyExists  = newError(ErrBadRequest, errors.New("user with this email already exists"))
	ErrUserNotFound       = newError(ErrNotFound, errors.New("user not found"))
	ErrInvalidCredentials = newError(ErrUnauthorized, errors.New("invalid email or password"))
	ErrInactiveUser       = newError(ErrUnauthorized, errors.New("user is not active"))
)

// Error pairs a failure with its kind. Its message is the failure's own.
type Error struct {
	Kind error
	Err  error
}

func newError(kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() []error { return []error{e.Kind, e.Err} }
