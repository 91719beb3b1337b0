package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/brightpages/brightpages/pkg/cms"
)

// AdminHandler serves the admin dashboard counters and the message views the
// admin panel uses. Everything here requires a token.
type AdminHandler struct {
	service cms.Service
	auth    *Auth
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(service cms.Service, auth *Auth) *AdminHandler {
	return &AdminHandler{service: service, auth: auth}
}

// Routes returns the router for admin endpoints.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.auth.Verifier())
	r.Use(h.auth.Authenticator)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/messages", h.Messages)
	r.Delete("/messages/{id}", h.DeleteMessage)
	return r
}

// Dashboard returns the content counters.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DashboardStats(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

// Messages returns the contact inbox.
func (h *AdminHandler) Messages(w http.ResponseWriter, r *http.Request) {
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

// DeleteMessage removes a contact message.
func (h *AdminHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, cms.ErrContactNotFound)
		return
	}

	if err := h.service.DeleteContact(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, messageResponse{Message: "Message deleted successfully"})
}
