package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/brightpages/brightpages/pkg/cms"
)

// errResponse is the stable error body shape: {"error": "..."}.
type errResponse struct {
	Error string `json:"error"`
}

// messageResponse is the confirmation body shape: {"message": "..."}.
type messageResponse struct {
	Message string `json:"message"`
}

// writeError maps a service error onto the HTTP taxonomy: validation and
// upload rejections are 400, lookups that found nothing are 404, bad logins
// are 401, everything else is a 500 storage fault.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *cms.ValidationError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, cms.ErrEmptyUpload), errors.Is(err, cms.ErrUnsupportedMediaType):
		status = http.StatusBadRequest
	case cms.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, cms.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	render.Status(r, status)
	render.JSON(w, r, errResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}
