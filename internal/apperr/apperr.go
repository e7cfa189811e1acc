// Package apperr defines the error carrier handed from request stages to the
// terminal error renderer.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure with the HTTP status it should be rendered with.
type Error struct {
	Message    string
	StatusCode int
}

func New(message string, statusCode int) *Error {
	return &Error{Message: message, StatusCode: statusCode}
}

func (e *Error) Error() string {
	return e.Message
}

func BadRequest(message string) *Error {
	return New(message, http.StatusBadRequest)
}

func NotFound(message string) *Error {
	return New(message, http.StatusNotFound)
}

func Conflict(message string) *Error {
	return New(message, http.StatusConflict)
}

// Internal hides the cause; callers log it before rendering.
func Internal() *Error {
	return New(http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
