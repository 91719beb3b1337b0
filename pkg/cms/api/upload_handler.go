package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brightpages/brightpages/pkg/cms"
)

// UploadHandler serves image upload and retrieval. Uploads require an admin
// token; retrieval is public because stored images are embedded in published
// posts.
type UploadHandler struct {
	service  cms.Service
	auth     *Auth
	maxBytes int64
}

// NewUploadHandler creates the upload handler. maxBytes bounds the accepted
// request body size.
func NewUploadHandler(service cms.Service, auth *Auth, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	return &UploadHandler{service: service, auth: auth, maxBytes: maxBytes}
}

// Routes returns the router for upload endpoints.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{handle}", h.Get)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Verifier())
		r.Use(h.auth.Authenticator)
		r.Post("/", h.Create)
	})
	return r
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Create accepts a multipart upload in the "image" field and returns the
// public URL the stored blob is served from.
func (h *UploadHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, r, cms.ErrEmptyUpload)
		return
	}
	defer file.Close()

	blob, err := h.service.StoreImage(r.Context(), cms.UploadImageRequest{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("image uploaded", "file_name", blob.FileName, "handle", blob.Handle, "size", blob.Size)
	writeJSON(w, r, http.StatusCreated, uploadResponse{URL: blob.URL})
}

// Get streams a stored image back with its recorded content type.
func (h *UploadHandler) Get(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.service.OpenImage(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("stream image", "error", err)
	}
}
