package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpages/brightpages/pkg/cms"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements cms.Repository using PostgreSQL. The posts table
// carries a unique index on slug, so the check-then-insert race on slug
// generation resolves to cms.ErrSlugTaken instead of a duplicate.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository.
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository from a connection pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// uniqueViolation is the postgres error code for a unique index conflict.
const uniqueViolation = "23505"

func slugConflict(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// Post operations

func (r *Repository) CreatePost(ctx context.Context, post *cms.Post) error {
	query := `
		INSERT INTO posts (id, slug, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		post.ID, post.Slug, post.Title, post.Content, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		if slugConflict(err) {
			return cms.ErrSlugTaken
		}
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (r *Repository) GetPostByID(ctx context.Context, id uuid.UUID) (*cms.Post, error) {
	query := `
		SELECT id, slug, title, content, created_at, updated_at
		FROM posts WHERE id = $1`

	return r.scanPost(r.db.QueryRow(ctx, query, id))
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*cms.Post, error) {
	query := `
		SELECT id, slug, title, content, created_at, updated_at
		FROM posts WHERE slug = $1`

	return r.scanPost(r.db.QueryRow(ctx, query, slug))
}

func (r *Repository) scanPost(row pgx.Row) (*cms.Post, error) {
	var post cms.Post
	err := row.Scan(&post.ID, &post.Slug, &post.Title, &post.Content,
		&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cms.ErrPostNotFound
		}
		return nil, fmt.Errorf("scan post: %w", err)
	}
	return &post, nil
}

func (r *Repository) UpdatePost(ctx context.Context, post *cms.Post) error {
	query := `
		UPDATE posts SET slug = $2, title = $3, content = $4, updated_at = $5
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		post.ID, post.Slug, post.Title, post.Content, post.UpdatedAt)
	if err != nil {
		if slugConflict(err) {
			return cms.ErrSlugTaken
		}
		return fmt.Errorf("update post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cms.ErrPostNotFound
	}
	return nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cms.ErrPostNotFound
	}
	return nil
}

func (r *Repository) ListPosts(ctx context.Context) ([]*cms.Post, error) {
	query := `
		SELECT id, slug, title, content, created_at, updated_at
		FROM posts ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []*cms.Post
	for rows.Next() {
		var post cms.Post
		if err := rows.Scan(&post.ID, &post.Slug, &post.Title, &post.Content,
			&post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *Repository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// Contact operations

func (r *Repository) CreateContact(ctx context.Context, msg *cms.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, message, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(ctx, query,
		msg.ID, msg.Name, msg.Email, msg.Message, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (r *Repository) GetContact(ctx context.Context, id uuid.UUID) (*cms.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, created_at
		FROM contact_messages WHERE id = $1`

	var msg cms.ContactMessage
	err := r.db.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.Name, &msg.Email, &msg.Message, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, cms.ErrContactNotFound
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}
	return &msg, nil
}

func (r *Repository) ListContacts(ctx context.Context) ([]*cms.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, created_at
		FROM contact_messages ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	var msgs []*cms.ContactMessage
	for rows.Next() {
		var msg cms.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Message,
			&msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func (r *Repository) DeleteContact(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cms.ErrContactNotFound
	}
	return nil
}

func (r *Repository) CountContacts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM contact_messages`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}
