package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpages/brightpages/pkg/cms"
)

// BlogHandler serves the blog post endpoints.
type BlogHandler struct {
	service cms.Service
	auth    *Auth
}

// NewBlogHandler creates the blog handler.
func NewBlogHandler(service cms.Service, auth *Auth) *BlogHandler {
	return &BlogHandler{service: service, auth: auth}
}

// Routes returns the router for blog endpoints. Reads are public; writes
// require an admin token.
func (h *BlogHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{identifier}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Verifier())
		r.Use(h.auth.Authenticator)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

// List returns all posts, newest first.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if posts == nil {
		posts = []*cms.Post{}
	}
	writeJSON(w, r, http.StatusOK, posts)
}

// Get resolves a post by slug or id. A malformed key-shaped identifier is a
// 404, never a 500.
func (h *BlogHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.ResolvePost(r.Context(), chi.URLParam(r, "identifier"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

// Create makes a new post with a derived slug.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req cms.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &cms.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	post, err := h.service.CreatePost(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, post)
}

// Update applies a partial update by id.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, cms.ErrPostNotFound)
		return
	}

	var req cms.UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &cms.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	post, err := h.service.UpdatePost(r.Context(), id, req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, post)
}

// Delete removes a post by id. Deleting an id that is already gone is a 404.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, cms.ErrPostNotFound)
		return
	}

	if err := h.service.DeletePost(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Blog deleted successfully"})
}
