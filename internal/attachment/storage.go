package attachment

import (
	"context"
	"io"
)

// BlobStore is the binary side of attachment storage. The metadata row lives
// in the database; the bytes live behind one of these.
type BlobStore interface {
	// Put writes the content under the key.
	Put(ctx context.Context, key string, body io.Reader, contentType string) error

	// Open returns a reader for the stored content and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)

	// Remove deletes the stored content. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
