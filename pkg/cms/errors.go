package cms

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrPostNotFound indicates no post matched the given slug or id
	ErrPostNotFound = errors.New("post not found")

	// ErrContactNotFound indicates a contact message was not found
	ErrContactNotFound = errors.New("contact message not found")

	// ErrBlobNotFound indicates no stored blob matched the given handle
	ErrBlobNotFound = errors.New("blob not found")

	// ErrSlugTaken indicates a slug uniqueness conflict on insert or update
	ErrSlugTaken = errors.New("slug already taken")

	// ErrEmptyUpload indicates an upload with no payload or no filename
	ErrEmptyUpload = errors.New("empty upload")

	// ErrUnsupportedMediaType indicates an upload outside the image allow-list
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidCredentials indicates a failed admin login
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a missing or empty required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// StorageError wraps a fault from a blob storage backend.
type StorageError struct {
	Backend string
	Handle  string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for handle %q on backend %s: %v", e.Op, e.Handle, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err maps to a 404 at the API boundary.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrContactNotFound) ||
		errors.Is(err, ErrBlobNotFound)
}
