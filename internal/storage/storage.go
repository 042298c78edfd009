// Package storage persists uploaded images behind a backend-neutral
// interface. The proxy never touches SDK types directly.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when an image key does not exist.
var ErrNotFound = errors.New("image not found")

// ImageStore defines the object operations the upload proxy needs.
type ImageStore interface {
	// EnsureBucket creates the configured bucket if it is missing.
	EnsureBucket(ctx context.Context) error

	// Save writes one image under key.
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Open returns a reader for the stored image, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Remove deletes a stored image.
	Remove(ctx context.Context, key string) error

	// Bucket reports the configured bucket name.
	Bucket() string
}
