// Package storage persists uploaded post images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"inkwell/internal/config"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a reference names no stored object.
var ErrNotFound = errors.New("image not found")

// ErrInvalidRef is returned for references that could escape the store.
var ErrInvalidRef = errors.New("invalid image reference")

// ImageStore saves image bytes and hands back an opaque reference that is
// kept on the post.
type ImageStore interface {
	Save(ctx context.Context, ext string, data []byte) (string, error)
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
	Delete(ctx context.Context, ref string) error
}

const refPrefix = "posts/"

// NewRef returns a fresh reference like "posts/<uuid>.png".
func NewRef(ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	return fmt.Sprintf("%s%s.%s", refPrefix, uuid.NewString(), ext)
}

// CleanRef rejects references outside the posts/ namespace.
func CleanRef(ref string) (string, error) {
	cleaned := path.Clean("/" + ref)[1:]
	if cleaned != ref || !strings.HasPrefix(cleaned, refPrefix) || len(cleaned) == len(refPrefix) {
		return "", ErrInvalidRef
	}
	return cleaned, nil
}

// New builds the store selected by IMAGE_STORAGE.
func New(ctx context.Context, cfg *config.Config) (ImageStore, error) {
	switch cfg.ImageStorage {
	case "", "local":
		return NewLocalStore(cfg.ImageUploadDir)
	case "gcs":
		return NewGCSStore(ctx, cfg.GCSBucket)
	default:
		return nil, fmt.Errorf("unsupported image storage %q", cfg.ImageStorage)
	}
}
