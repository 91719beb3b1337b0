package cms

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// allowedImageTypes maps accepted file extensions to their content types.
var allowedImageTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

func allowedContentType(contentType string) bool {
	for _, ct := range allowedImageTypes {
		if ct == contentType {
			return true
		}
	}
	return false
}

// StoreImage validates and persists an uploaded image, returning the blob
// with its public URL. The object key embeds a random fragment so two uploads
// sharing an original filename never overwrite each other.
func (s *service) StoreImage(ctx context.Context, req UploadImageRequest) (*StoredBlob, error) {
	if s.blobs == nil {
		return nil, errors.New("no blob store configured")
	}
	if req.FileName == "" || req.Data == nil {
		return nil, ErrEmptyUpload
	}

	data, err := io.ReadAll(req.Data)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}

	ext := strings.ToLower(filepath.Ext(req.FileName))
	expectedType, ok := allowedImageTypes[ext]
	if !ok {
		return nil, ErrUnsupportedMediaType
	}

	contentType := req.ContentType
	if contentType == "" || contentType == "application/octet-stream" {
		// Browser gave nothing usable; prefer the payload over the filename.
		if sniffed := mimetype.Detect(data); allowedContentType(sniffed.String()) {
			contentType = sniffed.String()
		} else {
			contentType = expectedType
		}
	}
	if !allowedContentType(contentType) {
		return nil, ErrUnsupportedMediaType
	}

	key := s.objectKey(req.FileName, ext)
	handle, err := s.blobs.Store(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, &StorageError{Handle: key, Op: "store", Err: err}
	}

	return &StoredBlob{
		Handle:      handle,
		FileName:    req.FileName,
		ContentType: contentType,
		Size:        int64(len(data)),
		URL:         s.PublicURL(handle),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// OpenImage streams a stored image back by handle.
func (s *service) OpenImage(ctx context.Context, handle string) (io.ReadCloser, string, error) {
	if s.blobs == nil {
		return nil, "", errors.New("no blob store configured")
	}
	rc, contentType, err := s.blobs.Open(ctx, handle)
	if err != nil {
		if errors.Is(err, ErrBlobNotFound) {
			return nil, "", ErrBlobNotFound
		}
		return nil, "", &StorageError{Handle: handle, Op: "open", Err: err}
	}
	return rc, contentType, nil
}

// PublicURL maps a handle to the service's own retrieval route. Raw storage
// paths never reach clients.
func (s *service) PublicURL(handle string) string {
	return strings.TrimRight(s.urlPrefix, "/") + "/" + handle
}

// objectKey builds a sanitized, collision-free storage key from the original
// filename.
func (s *service) objectKey(fileName, ext string) string {
	base := Slugify(strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName)))
	if base == "" {
		base = "image"
	}
	return base + "-" + uuid.NewString()[:8] + ext
}
