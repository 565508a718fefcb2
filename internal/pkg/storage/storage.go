package storage

import (
	"context"
	"io"
)

// Storage defines the minimal interface for file storage backends.
// Intentionally simple: put a file, delete a file, get its public URL.
type Storage interface {
	// Put stores a file at the given key.
	Put(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by its key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for a file given its key.
	URL(key string) string
}

// FileInfo describes a stored object
type FileInfo struct {
	Key         string
	Size        int64
	ContentType string
	URL         string
}
