package cms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type service struct {
	repo      Repository
	blobs     BlobStore
	urlPrefix string
}

// Post operations

func (s *service) ListPosts(ctx context.Context) ([]*Post, error) {
	posts, err := s.repo.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ResolvePost locates a post by an identifier that may be a slug or a primary
// key. Slugs are the advertised form, so the slug lookup runs first; the key
// lookup is the administrative fallback. A slug that merely looks key-shaped
// is still tried as a slug before the key path.
func (s *service) ResolvePost(ctx context.Context, identifier string) (*Post, error) {
	id, kind := classifyIdentifier(identifier)
	if kind == identifierUnresolved {
		return nil, ErrPostNotFound
	}

	post, err := s.repo.GetPostBySlug(ctx, identifier)
	if err == nil {
		return post, nil
	}
	if !errors.Is(err, ErrPostNotFound) {
		return nil, fmt.Errorf("resolve post by slug: %w", err)
	}

	if kind != identifierKey {
		return nil, ErrPostNotFound
	}
	post, err = s.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("resolve post by id: %w", err)
	}
	return post, nil
}

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	if req.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if req.Content == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.New(),
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	for attempt := 0; ; attempt++ {
		slug, err := s.uniqueSlug(ctx, req.Title, uuid.Nil, attempt)
		if err != nil {
			return nil, err
		}
		post.Slug = slug

		err = s.repo.CreatePost(ctx, post)
		if err == nil {
			return post, nil
		}
		// Lost the check-then-insert race: regenerate and go again.
		if errors.Is(err, ErrSlugTaken) && attempt < 2 {
			continue
		}
		return nil, fmt.Errorf("create post: %w", err)
	}
}

func (s *service) UpdatePost(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*Post, error) {
	existing, err := s.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("load post for update: %w", err)
	}

	title := existing.Title
	if req.Title != nil {
		title = *req.Title
	}
	content := existing.Content
	if req.Content != nil {
		content = *req.Content
	}
	if title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if content == "" {
		return nil, &ValidationError{Field: "content", Reason: "must not be empty"}
	}

	titleChanged := title != existing.Title

	updated := *existing
	updated.Title = title
	updated.Content = content
	updated.UpdatedAt = time.Now().UTC()

	for attempt := 0; ; attempt++ {
		if titleChanged {
			slug, err := s.uniqueSlug(ctx, title, id, attempt)
			if err != nil {
				return nil, err
			}
			updated.Slug = slug
		}

		err = s.repo.UpdatePost(ctx, &updated)
		if err == nil {
			return &updated, nil
		}
		if titleChanged && errors.Is(err, ErrSlugTaken) && attempt < 2 {
			continue
		}
		return nil, fmt.Errorf("update post: %w", err)
	}
}

func (s *service) DeletePost(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// uniqueSlug derives a slug from the title and disambiguates collisions with
// a timestamp suffix, skipping excludeID so renaming a post does not collide
// with itself. Retry attempts add a random fragment because the timestamp
// alone repeats within the same second.
func (s *service) uniqueSlug(ctx context.Context, title string, excludeID uuid.UUID, attempt int) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "post"
	}

	taken, err := s.slugTaken(ctx, base, excludeID)
	if err != nil {
		return "", err
	}
	if !taken && attempt == 0 {
		return base, nil
	}

	slug := base + "-" + slugSuffix(time.Now())
	if attempt > 0 {
		slug += "-" + uuid.NewString()[:8]
	}
	return slug, nil
}

func (s *service) slugTaken(ctx context.Context, slug string, excludeID uuid.UUID) (bool, error) {
	existing, err := s.repo.GetPostBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("check slug: %w", err)
	}
	return existing.ID != excludeID, nil
}

// Contact operations

func (s *service) CreateContact(ctx context.Context, req CreateContactRequest) (*ContactMessage, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if req.Email == "" {
		return nil, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if req.Message == "" {
		return nil, &ValidationError{Field: "message", Reason: "must not be empty"}
	}

	msg := &ContactMessage{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Message:   req.Message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateContact(ctx, msg); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return msg, nil
}

func (s *service) ListContacts(ctx context.Context) ([]*ContactMessage, error) {
	msgs, err := s.repo.ListContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return msgs, nil
}

func (s *service) DeleteContact(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteContact(ctx, id); err != nil {
		if errors.Is(err, ErrContactNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}

// ReplyToContact records a reply in the log. Mail delivery is out of scope;
// the front end treats the logged reply as sent.
func (s *service) ReplyToContact(ctx context.Context, id uuid.UUID, content string) error {
	msg, err := s.repo.GetContact(ctx, id)
	if err != nil {
		if errors.Is(err, ErrContactNotFound) {
			return ErrContactNotFound
		}
		return fmt.Errorf("load contact for reply: %w", err)
	}

	slog.Info("contact reply (logged, not sent)",
		"contact_id", msg.ID.String(),
		"email", msg.Email,
		"content", content)
	return nil
}

// Admin operations

func (s *service) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	blogs, err := s.repo.CountPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	messages, err := s.repo.CountContacts(ctx)
	if err != nil {
		return nil, fmt.Errorf("count contacts: %w", err)
	}
	return &DashboardStats{BlogsTotal: blogs, MessagesTotal: messages}, nil
}
