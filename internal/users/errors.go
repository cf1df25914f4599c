// Package users implements the user resource keyed by external identity uid.
package users

import (
	"errors"
	"net/http"
)

// Domain errors for user operations.
var (
	ErrNotFound         = errors.New("user not found")
	ErrDuplicateUID     = errors.New("a user with this uid already exists")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidBody      = errors.New("invalid request body")
	ErrMissingField     = errors.New("missing required field")
	ErrInvalidAttribute = errors.New("invalid attribute")
	ErrForbidden        = errors.New("caller may only act on their own user")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateUID):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidRole),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrMissingField),
		errors.Is(err, ErrInvalidAttribute):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
