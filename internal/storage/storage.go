package storage

import (
	"context"
	"fmt"
	"io"

	"photosec-backend/internal/config"
)

// Store is the blob store holding photo file content. Records in the database
// reference blobs by key; all binary data goes through this interface.
type Store interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the blob. A failed delete must surface as an error so the
	// caller can keep the database record (fail closed).
	Delete(ctx context.Context, key string) error
}

// New builds the blob store selected by the configuration.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.Path)
	case "s3":
		return NewS3(ctx, cfg.AWS)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
