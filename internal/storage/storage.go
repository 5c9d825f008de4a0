package storage

import (
	"context"
	"fmt"

	"tastebook/api/internal/config"
)

// PhotoStore abstracts where uploaded recipe photos live. Put returns
// the object key a later Remove accepts; PublicURL maps a key to the
// address clients fetch it from.
type PhotoStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

// NewPhotoStore picks the backend from the configured storage method.
func NewPhotoStore(cfg config.StorageConfig, publicBaseURL string) (PhotoStore, error) {
	switch cfg.Method {
	case "local":
		return NewLocalStore(cfg.UploadDir, publicBaseURL)
	case "s3":
		return NewObjectStore(cfg)
	}
	return nil, fmt.Errorf("unknown storage method %q", cfg.Method)
}
