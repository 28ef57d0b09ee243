// Package blob wraps path-addressed binary object storage: bytes in,
// retrievable URL out. No chunking, no resumable uploads.
package blob

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
)

type Service interface {
	// Upload writes data at path and returns the public URL.
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	// UploadBase64 decodes a base64 payload and uploads it. format is the
	// image format suffix ("jpeg", "png") used for the content type.
	UploadBase64(ctx context.Context, path string, encoded string, format string) (string, error)
	// URL returns the public URL for a path without touching the backend.
	URL(path string) string
	Delete(ctx context.Context, path string) error
	// List returns the object paths under a folder prefix.
	List(ctx context.Context, folder string) ([]string, error)
}

type service struct {
	client *storage.Client
	bucket string
}

var _ Service = (*service)(nil)

func NewService(client *storage.Client, bucket string) (Service, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("blob: bucket is required")
	}
	return &service{client: client, bucket: strings.TrimSpace(bucket)}, nil
}

func (s *service) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	path = normalize(path)
	if path == "" {
		return "", errors.New("blob: path is empty")
	}
	w := s.client.Bucket(s.bucket).Object(path).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("failed to write object %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to finish upload of %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(data)).Msg("uploaded blob")
	return s.URL(path), nil
}

func (s *service) UploadBase64(ctx context.Context, path string, encoded string, format string) (string, error) {
	data, err := decodePayload(encoded)
	if err != nil {
		return "", err
	}
	contentType := ""
	if format != "" {
		contentType = "image/" + strings.TrimPrefix(format, "image/")
	}
	return s.Upload(ctx, path, data, contentType)
}

// URL builds the public object URL the way the storage console serves it.
func (s *service) URL(path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, normalize(path))
}

func (s *service) Delete(ctx context.Context, path string) error {
	path = normalize(path)
	if err := s.client.Bucket(s.bucket).Object(path).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", path, err)
	}
	return nil
}

func (s *service) List(ctx context.Context, folder string) ([]string, error) {
	prefix := normalize(folder)
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	it := s.client.Bucket(s.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	paths := make([]string, 0)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
		}
		paths = append(paths, attrs.Name)
	}
	return paths, nil
}

// decodePayload decodes a base64 body. Data-URL prefixes
// ("data:image/jpeg;base64,...") are tolerated.
func decodePayload(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.Contains(encoded[:idx], ";base64") {
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}
	return data, nil
}

func normalize(path string) string {
	return strings.TrimLeft(strings.TrimSpace(path), "/")
}
