package cms

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
)

// Service is the main interface for the CMS backend. Authorization is a
// collaborator concern: callers gate admin operations before invoking them,
// the service itself never inspects login state.
type Service interface {
	// Post operations
	ListPosts(ctx context.Context) ([]*Post, error)
	ResolvePost(ctx context.Context, identifier string) (*Post, error)
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error

	// Contact operations
	CreateContact(ctx context.Context, req CreateContactRequest) (*ContactMessage, error)
	ListContacts(ctx context.Context) ([]*ContactMessage, error)
	DeleteContact(ctx context.Context, id uuid.UUID) error
	ReplyToContact(ctx context.Context, id uuid.UUID, content string) error

	// Upload operations
	StoreImage(ctx context.Context, req UploadImageRequest) (*StoredBlob, error)
	OpenImage(ctx context.Context, handle string) (io.ReadCloser, string, error)
	PublicURL(handle string) string

	// Admin operations
	DashboardStats(ctx context.Context) (*DashboardStats, error)
}

// Option configures the service.
type Option func(*service)

// WithRepository sets the post/contact repository (required).
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithBlobStore sets the blob storage backend (required for uploads).
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobs = store
	}
}

// WithPublicURLPrefix sets the route prefix handles are served under.
// Defaults to "/api/upload".
func WithPublicURLPrefix(prefix string) Option {
	return func(s *service) {
		s.urlPrefix = prefix
	}
}

// New creates a new CMS service with the given options.
func New(opts ...Option) (Service, error) {
	s := &service{
		urlPrefix: "/api/upload",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo == nil {
		return nil, errors.New("repository is required")
	}
	return s, nil
}
