package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned by Get when nothing is stored at the path.
var ErrNotFound = errors.New("storage: object not found")

// Storage defines the interface for blob storage operations. Paths are
// slash-separated and relative to the storage root.
type Storage interface {
	Save(ctx context.Context, path string, content io.Reader) error

	// Get returns the stored content; the caller closes it.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
}
