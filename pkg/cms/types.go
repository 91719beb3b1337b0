package cms

import (
	"time"

	"github.com/google/uuid"
)

// Post is a published blog entry. The slug is derived from the title and is
// the externally advertised identifier; the id is the store-assigned key.
//
// Invariant: no two live posts share a slug. The slug changes only when the
// title text actually changes.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContactMessage is a contact-form submission. Replies are logged, not
// delivered; the inbox is plain pass-through storage.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredBlob describes an uploaded binary object. The handle is opaque and
// backend-specific; clients only ever see the derived URL.
type StoredBlob struct {
	Handle      string    `json:"handle"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}

// DashboardStats holds the admin dashboard counters.
type DashboardStats struct {
	BlogsTotal    int64 `json:"blogs_total"`
	MessagesTotal int64 `json:"messages_total"`
}
