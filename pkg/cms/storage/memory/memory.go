// Package memory provides an in-memory blob storage backend for tests and
// local development.
package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/brightpages/brightpages/pkg/cms"
)

// Backend is an in-memory implementation of the cms.BlobStore interface.
type Backend struct {
	mu           sync.RWMutex
	objects      map[string][]byte
	contentTypes map[string]string
}

// New creates a new in-memory storage backend.
func New() *Backend {
	return &Backend{
		objects:      make(map[string][]byte),
		contentTypes: make(map[string]string),
	}
}

func (b *Backend) Store(ctx context.Context, key string, contentType string, data io.Reader) (string, error) {
	payload, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = payload
	b.contentTypes[key] = contentType
	return key, nil
}

func (b *Backend) Open(ctx context.Context, handle string) (io.ReadCloser, string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	payload, exists := b.objects[handle]
	if !exists {
		return nil, "", cms.ErrBlobNotFound
	}
	return io.NopCloser(bytes.NewReader(payload)), b.contentTypes[handle], nil
}

func (b *Backend) Delete(ctx context.Context, handle string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[handle]; !exists {
		return cms.ErrBlobNotFound
	}
	delete(b.objects, handle)
	delete(b.contentTypes, handle)
	return nil
}
