package storage

import (
	"context"
	"io"
)

// StoredFile describes where a saved file landed
type StoredFile struct {
	Key  string // backend-specific handle used for deletion
	Path string
	URL  string
}

// Storage persists uploaded document bytes. Delete treats a missing
// file as already deleted.
type Storage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredFile, error)
	Delete(ctx context.Context, key string) error
	Name() string
}
