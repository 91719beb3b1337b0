package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/brightpages/brightpages/pkg/cms"
)

// Repository implements cms.Repository with in-memory maps. Used in tests
// and as the zero-configuration development default.
type Repository struct {
	mu          sync.RWMutex
	posts       map[uuid.UUID]*cms.Post
	postsBySlug map[string]uuid.UUID
	contacts    map[uuid.UUID]*cms.ContactMessage
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{
		posts:       make(map[uuid.UUID]*cms.Post),
		postsBySlug: make(map[string]uuid.UUID),
		contacts:    make(map[uuid.UUID]*cms.ContactMessage),
	}
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *cms.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.postsBySlug[post.Slug]; taken {
		return cms.ErrSlugTaken
	}

	// Store a copy to avoid external modifications
	postCopy := *post
	r.posts[post.ID] = &postCopy
	r.postsBySlug[post.Slug] = post.ID
	return nil
}

func (r *Repository) GetPostByID(ctx context.Context, id uuid.UUID) (*cms.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	post, exists := r.posts[id]
	if !exists {
		return nil, cms.ErrPostNotFound
	}
	postCopy := *post
	return &postCopy, nil
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*cms.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.postsBySlug[slug]
	if !exists {
		return nil, cms.ErrPostNotFound
	}
	postCopy := *r.posts[id]
	return &postCopy, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *cms.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.posts[post.ID]
	if !exists {
		return cms.ErrPostNotFound
	}
	if holder, taken := r.postsBySlug[post.Slug]; taken && holder != post.ID {
		return cms.ErrSlugTaken
	}

	delete(r.postsBySlug, existing.Slug)
	postCopy := *post
	r.posts[post.ID] = &postCopy
	r.postsBySlug[post.Slug] = post.ID
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, exists := r.posts[id]
	if !exists {
		return cms.ErrPostNotFound
	}
	delete(r.postsBySlug, post.Slug)
	delete(r.posts, id)
	return nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*cms.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]*cms.Post, 0, len(r.posts))
	for _, post := range r.posts {
		postCopy := *post
		posts = append(posts, &postCopy)
	}
	// Newest first
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *Repository) CountPosts(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

// Contact operations

func (r *Repository) CreateContact(ctx context.Context, msg *cms.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgCopy := *msg
	r.contacts[msg.ID] = &msgCopy
	return nil
}

func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (*cms.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msg, exists := r.contacts[id]
	if !exists {
		return nil, cms.ErrContactNotFound
	}
	msgCopy := *msg
	return &msgCopy, nil
}

func (r *Repository) ListContacts(ctx context.Context) ([]*cms.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := make([]*cms.ContactMessage, 0, len(r.contacts))
	for _, msg := range r.contacts {
		msgCopy := *msg
		msgs = append(msgs, &msgCopy)
	}
	sort.Slice(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *Repository) DeleteContact(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.contacts[id]; !exists {
		return cms.ErrContactNotFound
	}
	delete(r.contacts, id)
	return nil
}

func (r *Repository) CountContacts(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.contacts)), nil
}
