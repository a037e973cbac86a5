package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores blobs on the local filesystem under a base directory,
// sharded by the first two characters of the key.
type Local struct {
	basePath string
}

// NewLocal creates a local blob store rooted at basePath.
func NewLocal(basePath string) (*Local, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &Local{basePath: basePath}, nil
}

func (l *Local) pathForKey(key string) string {
	shard := key
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return filepath.Join(l.basePath, shard, key)
}

// Save writes the blob content to disk.
func (l *Local) Save(_ context.Context, key string, data io.Reader) error {
	path := l.pathForKey(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create blob file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return fmt.Errorf("failed to write blob: %w", err)
	}
	return nil
}

// Open opens the blob content for reading.
func (l *Local) Open(_ context.Context, key string) (io.ReadCloser, error) {
	file, err := os.Open(l.pathForKey(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s not found: %w", key, err)
		}
		return nil, fmt.Errorf("failed to open blob: %w", err)
	}
	return file, nil
}

// Delete removes the blob from disk. Missing files are reported as errors so
// record deletion is not performed against a blob that was never removed.
func (l *Local) Delete(_ context.Context, key string) error {
	if err := os.Remove(l.pathForKey(key)); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}
