package blobstore

import (
	"context"
	"fmt"
	"os"

	"sawiku/internal/config"
	"sawiku/internal/sawi"
)

// Environment variables holding static S3 credentials, e.g. for MinIO.
const (
	EnvS3AccessKeyID     = "SAWIKU_S3_ACCESS_KEY_ID"
	EnvS3SecretAccessKey = "SAWIKU_S3_SECRET_ACCESS_KEY"
)

// NewBlobStoreFromConfig creates a BlobStore implementation based on the blob store config type.
func NewBlobStoreFromConfig(ctx context.Context, cfg config.BlobStoreConfig) (sawi.BlobStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "filesystem":
		if cfg.FSRoot == "" {
			return nil, fmt.Errorf("filesystem blob store requires fs_root to be set")
		}
		return NewFileSystemStore(cfg.FSRoot)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     os.Getenv(EnvS3AccessKeyID),
			SecretAccessKey: os.Getenv(EnvS3SecretAccessKey),
		})
	default:
		return nil, fmt.Errorf("unknown blob store type: %s", cfg.Type)
	}
}
