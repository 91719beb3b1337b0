// Package pglo provides the database-resident blob storage backend. Payloads
// are stored as postgres large objects co-located with the rest of the
// application data, so no separate volume needs provisioning. The handle is
// the large object's database-assigned identifier.
package pglo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brightpages/brightpages/pkg/cms"
)

// Backend is a postgres large-object implementation of the cms.BlobStore
// interface. A blob_meta row keyed by the large object id records the
// original filename and content type.
type Backend struct {
	pool *pgxpool.Pool
}

// New creates a new large-object storage backend on the given pool.
func New(pool *pgxpool.Pool) (*Backend, error) {
	if pool == nil {
		return nil, errors.New("connection pool is required")
	}
	return &Backend{pool: pool}, nil
}

// Store writes the payload as a new large object. The suggested key is kept
// only as the recorded filename; the returned handle is the oid the database
// assigned.
func (b *Backend) Store(ctx context.Context, key string, contentType string, data io.Reader) (string, error) {
	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	los := tx.LargeObjects()
	oid, err := los.Create(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("create large object: %w", err)
	}

	obj, err := los.Open(ctx, oid, pgx.LargeObjectModeWrite)
	if err != nil {
		return "", fmt.Errorf("open large object: %w", err)
	}
	if _, err := io.Copy(obj, data); err != nil {
		obj.Close()
		return "", fmt.Errorf("write large object: %w", err)
	}
	if err := obj.Close(); err != nil {
		return "", fmt.Errorf("close large object: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO blob_meta (oid, file_name, content_type, created_at)
		VALUES ($1, $2, $3, now())`,
		int64(oid), key, contentType)
	if err != nil {
		return "", fmt.Errorf("insert blob metadata: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return strconv.FormatUint(uint64(oid), 10), nil
}

// Open reads a large object back with its stored content type. Handles that
// do not parse as an oid, or parse but match nothing, are both not-found.
func (b *Backend) Open(ctx context.Context, handle string) (io.ReadCloser, string, error) {
	oid, err := parseHandle(handle)
	if err != nil {
		return nil, "", cms.ErrBlobNotFound
	}

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var contentType string
	err = tx.QueryRow(ctx,
		`SELECT content_type FROM blob_meta WHERE oid = $1`, int64(oid)).Scan(&contentType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", cms.ErrBlobNotFound
		}
		return nil, "", fmt.Errorf("load blob metadata: %w", err)
	}

	los := tx.LargeObjects()
	obj, err := los.Open(ctx, oid, pgx.LargeObjectModeRead)
	if err != nil {
		return nil, "", cms.ErrBlobNotFound
	}
	// The large object is only readable while the transaction is open, so
	// buffer it before committing.
	payload, err := io.ReadAll(obj)
	obj.Close()
	if err != nil {
		return nil, "", fmt.Errorf("read large object: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("commit: %w", err)
	}
	return io.NopCloser(bytes.NewReader(payload)), contentType, nil
}

// Delete unlinks a large object and its metadata row.
func (b *Backend) Delete(ctx context.Context, handle string) error {
	oid, err := parseHandle(handle)
	if err != nil {
		return cms.ErrBlobNotFound
	}

	tx, err := b.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM blob_meta WHERE oid = $1`, int64(oid))
	if err != nil {
		return fmt.Errorf("delete blob metadata: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return cms.ErrBlobNotFound
	}
	los := tx.LargeObjects()
	if err := los.Unlink(ctx, oid); err != nil {
		return fmt.Errorf("unlink large object: %w", err)
	}
	return tx.Commit(ctx)
}

func parseHandle(handle string) (uint32, error) {
	oid, err := strconv.ParseUint(handle, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(oid), nil
}
