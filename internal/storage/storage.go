package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyImagePath   = errors.New("image path is empty")
	ErrUnsupportedImage = errors.New("sólo se permiten imágenes JPEG, PNG, GIF o WEBP")
)

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImageName checks the extension of an uploaded or imported image.
func ValidateImageName(filename string) error {
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(filename))] {
		return fmt.Errorf("%w: %s", ErrUnsupportedImage, filepath.Base(filename))
	}
	return nil
}

// ImageStore keeps product images outside the database. Stored paths are
// whatever the store returns from Put and must be passed back to Delete.
type ImageStore interface {
	Put(ctx context.Context, filename string, r io.Reader) (string, error)
	Delete(ctx context.Context, path string) error
}

// CopyFile reads a local file and stores it under a fresh name.
func CopyFile(ctx context.Context, store ImageStore, sourcePath string) (string, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return "", ErrEmptyImagePath
	}
	if err := ValidateImageName(sourcePath); err != nil {
		return "", err
	}
	f, err := os.Open(sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open image %s: %w", sourcePath, err)
	}
	defer f.Close()

	return store.Put(ctx, filepath.Base(sourcePath), f)
}

func objectName(filename string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(filename))
}

// LocalImageStore writes images into a directory on disk.
type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &LocalImageStore{dir: dir}, nil
}

func (s *LocalImageStore) Put(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest := filepath.Join(s.dir, objectName(filename))

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dest, nil
}

// Delete removes the file. A file that is already gone is not an error.
func (s *LocalImageStore) Delete(ctx context.Context, path string) error {
	if path == "" {
		return ErrEmptyImagePath
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}
	return nil
}
