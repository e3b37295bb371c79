package sawi

import (
	"context"
	"errors"
	"io"
)

// ErrBlobNotFound is returned by BlobStore implementations when a key is absent.
var ErrBlobNotFound = errors.New("blob not found")

// BlobStore stores photos and backups under hierarchical, slash-separated keys
// such as "plants/<userID>/<plantID>/default.jpg".
type BlobStore interface {
	// Put stores size bytes read from r under key, replacing any existing blob.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get writes the blob stored under key to w.
	Get(ctx context.Context, key string, w io.Writer) error

	// Delete removes the blob stored under key.
	Delete(ctx context.Context, key string) error

	// List returns every key under prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)

	// ValidateSetup verifies that the store is accessible and properly configured.
	ValidateSetup(ctx context.Context) error
}
