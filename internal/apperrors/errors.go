// Package apperrors defines the request-facing error taxonomy and its
// mapping to HTTP status codes.
package apperrors

import (
	"errors"
	"net/http"
)

type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(message string) *Error {
	return &Error{Code: http.StatusNotFound, Message: message}
}

func Validation(message string) *Error {
	return &Error{Code: http.StatusUnprocessableEntity, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: message}
}

// Conflict is reserved for duplicate-resource failures outside the
// assignment path (e.g. signup with an existing email).
func Conflict(message string) *Error {
	return &Error{Code: http.StatusConflict, Message: message}
}

// Status resolves an error chain to its HTTP status code. Unclassified
// errors map to 500.
func Status(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}
