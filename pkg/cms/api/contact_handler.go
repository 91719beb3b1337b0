package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpages/brightpages/pkg/cms"
)

// ContactHandler serves the contact-form inbox. Submission is public; the
// inbox itself is admin-only.
type ContactHandler struct {
	service cms.Service
	auth    *Auth
}

// NewContactHandler creates the contact handler.
func NewContactHandler(service cms.Service, auth *Auth) *ContactHandler {
	return &ContactHandler{service: service, auth: auth}
}

// Routes returns the router for contact endpoints.
func (h *ContactHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Group(func(r chi.Router) {
		r.Use(h.auth.Verifier())
		r.Use(h.auth.Authenticator)
		r.Get("/", h.List)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/reply", h.Reply)
	})
	return r
}

// Create stores a contact-form submission.
func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req cms.CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &cms.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	msg, err := h.service.CreateContact(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, msg)
}

// List returns the inbox, newest first.
func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.ListContacts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if msgs == nil {
		msgs = []*cms.ContactMessage{}
	}
	writeJSON(w, r, http.StatusOK, msgs)
}

// Delete removes a message from the inbox.
func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, cms.ErrContactNotFound)
		return
	}

	if err := h.service.DeleteContact(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Contact deleted successfully"})
}

type replyRequest struct {
	Content string `json:"content"`
}

// Reply records a reply in the log. Mail is not sent.
func (h *ContactHandler) Reply(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, cms.ErrContactNotFound)
		return
	}

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, &cms.ValidationError{Field: "body", Reason: "malformed JSON"})
		return
	}

	if err := h.service.ReplyToContact(r.Context(), id, req.Content); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Reply sent successfully"})
}
