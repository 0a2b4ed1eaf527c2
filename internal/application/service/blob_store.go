package service

import (
	"context"
	"io"
)

// BlobStore puts objects into a named bucket and returns their public URL.
// Implementations return apperror.ErrStorageUnavailable when the store cannot
// be reached at all.
type BlobStore interface {
	Put(ctx context.Context, bucket, name string, r io.Reader, size int64, contentType string) (string, error)
}

// Scanner inspects uploaded content before it is stored.
type Scanner interface {
	Scan(ctx context.Context, r io.Reader) error
}
