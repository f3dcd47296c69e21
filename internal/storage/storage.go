package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	cfg "github.com/templui/darkroom/internal/config"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid storage key")
)

// Storage holds the upload tree. Keys are slash-separated and relative to
// the upload root: originals at "<filename>", thumbnails at "thumbs/<filename>".
type Storage interface {
	// Save stores r under key, replacing any existing object.
	Save(ctx context.Context, key string, r io.Reader) error

	// Open returns the object's content. ErrNotFound when absent.
	Open(ctx context.Context, key string) (io.ReadCloser, *ObjectInfo, error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored key.
	List(ctx context.Context) ([]string, error)
}

type ObjectInfo struct {
	Size    int64
	ModTime time.Time
}

// New builds the storage backend selected by STORAGE_DRIVER.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "", "local":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
			Prefix:    c.S3Prefix,
		})
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", c.StorageDriver)
	}
}
