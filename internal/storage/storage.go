package storage

import (
	"context"
	"io"

	"github.com/dukerupert/labelbot/internal"
)

// Store archives purchased label documents.
// Implementations use the local filesystem or an S3-compatible bucket.
type Store interface {
	// Put stores content under key and returns its URL/path for retrieval.
	// Keys are slash-separated, e.g. "labels/9400100000000000000000.pdf".
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Get retrieves a file by its key.
	// Returns an io.ReadCloser that must be closed by the caller.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// URL returns the public URL for accessing a stored file.
	URL(key string) string

	// Exists checks if a file exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)
}

// LabelKey returns the archive key for a label's tracking number.
func LabelKey(trackingNumber string) string {
	return "labels/" + trackingNumber + ".pdf"
}

// New creates a Store based on configuration.
// Returns nil and no error for the "none" provider: archiving is disabled.
func New(cfg internal.StorageConfig) (Store, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStore(cfg.LocalPath, cfg.LocalURL)
	case "r2":
		return NewR2Store(context.Background(), R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
			Endpoint:    cfg.R2Endpoint,
		})
	case "none":
		return nil, nil
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}
