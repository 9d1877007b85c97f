package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"

	"cloud.google.com/go/storage"
)

// GCSStore keeps images as objects in a Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

// NewGCSStore uses application default credentials.
func NewGCSStore(ctx context.Context, bucket string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("GCS bucket name is required")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{client: client, bucket: client.Bucket(bucket)}, nil
}

func (s *GCSStore) Save(ctx context.Context, ext string, data []byte) (string, error) {
	ref := NewRef(ext)
	w := s.bucket.Object(ref).NewWriter(ctx)
	w.ContentType = mime.TypeByExtension("." + ext)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *GCSStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	cleaned, err := CleanRef(ref)
	if err != nil {
		return nil, err
	}
	r, err := s.bucket.Object(cleaned).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, ErrNotFound
	}
	return r, err
}

// Exists reports whether ref names a stored object.
func (s *GCSStore) Exists(ctx context.Context, ref string) (bool, error) {
	cleaned, err := CleanRef(ref)
	if err != nil {
		return false, nil
	}
	if _, err := s.bucket.Object(cleaned).Attrs(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *GCSStore) Delete(ctx context.Context, ref string) error {
	cleaned, err := CleanRef(ref)
	if err != nil {
		return err
	}
	err = s.bucket.Object(cleaned).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}
	return nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
