package cms

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Repository defines the interface for post and contact persistence.
//
// CreatePost and UpdatePost must surface ErrSlugTaken on a slug uniqueness
// conflict so the service can retry with a regenerated slug.
type Repository interface {
	// Post operations
	CreatePost(ctx context.Context, post *Post) error
	GetPostByID(ctx context.Context, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	UpdatePost(ctx context.Context, post *Post) error
	DeletePost(ctx context.Context, id uuid.UUID) error
	ListPosts(ctx context.Context) ([]*Post, error)
	CountPosts(ctx context.Context) (int64, error)

	// Contact operations
	CreateContact(ctx context.Context, msg *ContactMessage) error
	GetContact(ctx context.Context, id uuid.UUID) (*ContactMessage, error)
	ListContacts(ctx context.Context) ([]*ContactMessage, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
	CountContacts(ctx context.Context) (int64, error)
}

// BlobStore defines the interface for blob storage backends.
//
// Store returns the final handle for the payload: disk-backed stores keep the
// key they were given, while the database large-object store returns the
// identifier the database assigned. Open with an unknown handle returns
// ErrBlobNotFound, never a generic fault.
type BlobStore interface {
	// Store persists the payload under the suggested key and returns the
	// handle the payload is retrievable by.
	Store(ctx context.Context, key string, contentType string, data io.Reader) (string, error)

	// Open streams a stored payload back along with its content type.
	Open(ctx context.Context, handle string) (io.ReadCloser, string, error)

	// Delete removes a stored payload.
	Delete(ctx context.Context, handle string) error
}
