// Package apperrors defines the error kinds returned by services and how
// they surface to HTTP clients.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindConflict
	KindDeadlinePassed
	KindForbidden
	KindUnauthorized
	KindValidation
)

var kindCodes = map[Kind]string{
	KindInternal:       "INTERNAL",
	KindNotFound:       "NOT_FOUND",
	KindConflict:       "CONFLICT",
	KindDeadlinePassed: "DEADLINE_PASSED",
	KindForbidden:      "FORBIDDEN",
	KindUnauthorized:   "UNAUTHORIZED",
	KindValidation:     "VALIDATION_FAILED",
}

var kindStatuses = map[Kind]int{
	KindInternal:       http.StatusInternalServerError,
	KindNotFound:       http.StatusNotFound,
	KindConflict:       http.StatusConflict,
	KindDeadlinePassed: http.StatusBadRequest,
	KindForbidden:      http.StatusForbidden,
	KindUnauthorized:   http.StatusUnauthorized,
	KindValidation:     http.StatusUnprocessableEntity,
}

// Code is the stable machine-readable identifier of the kind.
func (k Kind) Code() string {
	return kindCodes[k]
}

// HTTPStatus is the response status used for the kind.
func (k Kind) HTTPStatus() int {
	return kindStatuses[k]
}

type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind.Code(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Code(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Conflict(message string) *Error {
	return New(KindConflict, message, nil)
}

func DeadlinePassed(message string) *Error {
	return New(KindDeadlinePassed, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message, nil)
}

func Validation(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf reports the kind of err. Errors that are not *Error are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
