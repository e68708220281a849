package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"shop-backoffice/internal/core"
)

// envelope is the {success: bool, ...} shape every JSON endpoint answers with.
type envelope map[string]any

func ok(fields envelope) envelope {
	out := envelope{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	return out
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {success:false, error} with status.
func writeError(w http.ResponseWriter, r *http.Request, message string, status int) {
	body := envelope{"success": false, "error": message}
	if id := requestIDFromContext(r.Context()); id != "" {
		body["request_id"] = id
	}
	writeJSON(w, status, body)
}

// writeValidation reports every rejection reason. Validation failures are
// part of the normal envelope and keep status 200.
func writeValidation(w http.ResponseWriter, reasons []string) {
	writeJSON(w, http.StatusOK, envelope{"success": false, "errors": reasons})
}

// writeServiceError maps a service error to the envelope:
// ValidationError → 200 with errors, ErrNotFound → 404, anything else → 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var verr *core.ValidationError
	switch {
	case errors.As(err, &verr):
		writeValidation(w, verr.Reasons)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, notFoundMsg, http.StatusNotFound)
	default:
		h.logger.WithFields(logrus.Fields{
			"request_id": requestIDFromContext(r.Context()),
			"path":       r.URL.Path,
		}).WithError(err).Error("request failed")
		writeError(w, r, err.Error(), http.StatusInternalServerError)
	}
}

// writePageError answers a page route with a plain-text body.
func writePageError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "Error: %s", err.Error())
}
