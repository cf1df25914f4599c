// Package storage provides the picture blob store. Bucket abstracts a chunked
// object store keyed by generated identifiers; GridFS is the default backend
// and Google Drive is available as an alternative.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// Storage errors returned by Bucket implementations.
var (
	// ErrNotFound indicates no object exists for the identifier.
	ErrNotFound = errors.New("storage: object not found")

	// ErrInvalidID indicates the identifier is malformed for the backend.
	ErrInvalidID = errors.New("storage: invalid object id")
)

// Metadata keys attached to every stored object.
const (
	MetaContentType  = "contentType"
	MetaRestaurantID = "restaurantId"
	MetaUploadedAt   = "uploadedAt"
)

// UploadInput describes an object to stream into a Bucket.
// ContentType is the type detected from the content, not the client's claim.
type UploadInput struct {
	Filename     string
	ContentType  string
	RestaurantID string
	UploadedAt   time.Time
	Body         io.Reader
}

// Object is an opened stored object. Callers must close Body.
// Size is -1 when the backend does not report it.
type Object struct {
	ID          string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// Bucket is the blob store used for restaurant pictures.
type Bucket interface {
	Upload(ctx context.Context, in UploadInput) (string, error)
	Open(ctx context.Context, id string) (*Object, error)
	Delete(ctx context.Context, id string) error
}
