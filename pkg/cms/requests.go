package cms

import "io"

// CreatePostRequest contains parameters for creating a post. Title and
// Content are both required; the slug is derived, never supplied.
type CreatePostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdatePostRequest is a partial update. Nil fields keep the stored value;
// a present-but-empty field is rejected rather than blanking the post.
type UpdatePostRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// CreateContactRequest contains parameters for a contact-form submission.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// UploadImageRequest contains parameters for storing an uploaded image.
type UploadImageRequest struct {
	FileName    string
	ContentType string
	Data        io.Reader
}
