package storage

import (
	"context"
	"io"
)

// Package storage archives the original uploaded documents in an
// S3-compatible object store. The database keeps the authoritative encoded
// copy; the archive holds the raw bytes for backup and direct retrieval.

// PutOptions define optional parameters for archiving an object.
type PutOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an archived object.
type ObjectInfo struct {
	Key  string
	Size int64
	ETag string
}

// Storage is an S3-compatible archive client. Methods use context and
// streaming readers; nothing touches local disk.
type Storage interface {
	// Put archives an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutOptions) (ObjectInfo, error)
	// Delete removes an archived object by key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error
}
