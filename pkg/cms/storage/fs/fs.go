// Package fs provides the persistent-disk blob storage backend. Payloads land
// in a durable directory configured at startup; handles are the sanitized
// object keys generated by the service.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/brightpages/brightpages/pkg/cms"
)

// Backend is a filesystem implementation of the cms.BlobStore interface.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend.
type Config struct {
	BaseDir string // Directory payloads are stored in
}

// New creates a new filesystem storage backend, creating the base directory
// if it does not exist.
func New(config Config) (*Backend, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}
	if err := os.MkdirAll(config.BaseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}
	return &Backend{baseDir: config.BaseDir}, nil
}

// BaseDir returns the directory payloads are stored in.
func (b *Backend) BaseDir() string { return b.baseDir }

// path resolves a handle inside the base directory, rejecting traversal.
func (b *Backend) path(handle string) (string, error) {
	clean := filepath.Clean(handle)
	if clean != handle || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", cms.ErrBlobNotFound
	}
	return filepath.Join(b.baseDir, clean), nil
}

// Store writes the payload under the given key. The content type rides along
// in a sidecar file so retrieval can serve the original type back.
func (b *Backend) Store(ctx context.Context, key string, contentType string, data io.Reader) (string, error) {
	filePath, err := b.path(key)
	if err != nil {
		return "", err
	}

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, data); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	if err := os.WriteFile(filePath+".type", []byte(contentType), 0o644); err != nil {
		return "", fmt.Errorf("write content type: %w", err)
	}
	return key, nil
}

// Open streams a stored payload back with its recorded content type.
func (b *Backend) Open(ctx context.Context, handle string) (io.ReadCloser, string, error) {
	filePath, err := b.path(handle)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", cms.ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("open file: %w", err)
	}

	contentType := "application/octet-stream"
	if raw, err := os.ReadFile(filePath + ".type"); err == nil && len(raw) > 0 {
		contentType = string(raw)
	}
	return file, contentType, nil
}

// Delete removes a stored payload and its content-type sidecar.
func (b *Backend) Delete(ctx context.Context, handle string) error {
	filePath, err := b.path(handle)
	if err != nil {
		return err
	}

	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return cms.ErrBlobNotFound
		}
		return fmt.Errorf("delete file: %w", err)
	}
	os.Remove(filePath + ".type")
	return nil
}
