// Package storage keeps uploaded media (videos, previews, avatars, exports)
// behind one interface so the API can run against a local directory or an
// Aliyun OSS bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"videohub/internal/config"

	"github.com/google/uuid"
)

var ErrObjectNotFound = errors.New("storage: object not found")

type Storage interface {
	// Save writes r under key, replacing any existing object.
	Save(ctx context.Context, key string, r io.Reader) error
	// Open returns length bytes of the object starting at offset.
	Open(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error)
	Size(ctx context.Context, key string) (int64, error)
	Delete(ctx context.Context, key string) error
	// URL is the public location clients use to fetch the object.
	URL(key string) string
}

// New picks the backend named by STORAGE_BACKEND.
func New(cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalStorage(cfg.MediaRoot, strings.TrimSuffix(cfg.PublicURL, "/")+"/media")
	case "oss":
		return NewOSSStorage(cfg.OSSEndpoint, cfg.OSSAccessKeyID, cfg.OSSAccessKeySecret, cfg.OSSBucket)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// NewKey builds a collision-free object key under prefix, keeping the
// extension of the uploaded file name.
func NewKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join(prefix, uuid.NewString()+ext)
}
