package testutil

import (
	"context"
	"io"

	"sawiku/internal/blobstore"
	"sawiku/internal/sawi"
)

// NewTestBlobStore creates a new in-memory blob store for testing.
func NewTestBlobStore() *blobstore.MemoryStore {
	return blobstore.NewMemoryStore()
}

// FailingBlobStore wraps a BlobStore and fails every Put with Err.
type FailingBlobStore struct {
	sawi.BlobStore
	Err error
}

func (f *FailingBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	return f.Err
}
