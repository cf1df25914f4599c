// Package restaurants implements the restaurant resource: paged listing,
// field search, owner-checked mutations and the picture lifecycle.
package restaurants

import (
	"errors"
	"net/http"
)

// Domain errors for restaurant operations.
var (
	ErrNotFound           = errors.New("restaurant not found")
	ErrPictureNotFound    = errors.New("picture not found")
	ErrInvalidID          = errors.New("invalid restaurant id")
	ErrInvalidBody        = errors.New("invalid request body")
	ErrOwnerRequired      = errors.New("ownerId is required")
	ErrDuplicateOwner     = errors.New("an owner may have at most one restaurant")
	ErrForbidden          = errors.New("ownerId does not match the restaurant owner")
	ErrInvalidField       = errors.New("invalid search field")
	ErrInvalidSort        = errors.New("invalid sort parameter")
	ErrInvalidAttribute   = errors.New("invalid attribute")
	ErrNoUpdates          = errors.New("no updatable fields supplied")
	ErrNoFile             = errors.New("picture file is required")
	ErrInvalidContentType = errors.New("only image uploads are accepted")
	ErrFileTooLarge       = errors.New("picture exceeds maximum upload size")
	ErrUploadFailed       = errors.New("picture upload failed")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrPictureNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrInvalidID),
		errors.Is(err, ErrInvalidBody),
		errors.Is(err, ErrOwnerRequired),
		errors.Is(err, ErrDuplicateOwner),
		errors.Is(err, ErrInvalidField),
		errors.Is(err, ErrInvalidSort),
		errors.Is(err, ErrInvalidAttribute),
		errors.Is(err, ErrNoUpdates),
		errors.Is(err, ErrNoFile),
		errors.Is(err, ErrInvalidContentType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
