// Package storage persists uploaded product images on local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/example/gardenia/internal/apperr"
	"github.com/example/gardenia/internal/domain/catalog"
)

// ImageStore writes image files under a base directory and serves them
// under a public URL prefix.
type ImageStore struct {
	baseDir   string
	urlPrefix string
}

func NewImageStore(baseDir, urlPrefix string) (*ImageStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &ImageStore{baseDir: baseDir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Upload stores the file contents and returns the image record to attach
// to a product. The generated ID doubles as the stored filename.
func (s *ImageStore) Upload(ctx context.Context, filename string, r io.Reader) (catalog.Image, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return catalog.Image{}, apperr.Newf(apperr.Validation, "unsupported image type %q", ext)
	}

	id := uuid.NewString() + ext
	path := filepath.Join(s.baseDir, id)
	f, err := os.Create(path)
	if err != nil {
		return catalog.Image{}, fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return catalog.Image{}, fmt.Errorf("write image file: %w", err)
	}
	return catalog.Image{ID: id, URL: s.urlPrefix + "/" + id}, nil
}

// Delete removes a stored image. A missing file is not an error.
func (s *ImageStore) Delete(ctx context.Context, id string) error {
	if id == "" || strings.Contains(id, "/") || strings.Contains(id, "..") {
		return apperr.New(apperr.Validation, "invalid image id")
	}
	if err := os.Remove(filepath.Join(s.baseDir, id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete image file: %w", err)
	}
	return nil
}

// Dir returns the base directory, for mounting a file server.
func (s *ImageStore) Dir() string {
	return s.baseDir
}
