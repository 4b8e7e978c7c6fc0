package server

import (
	"encoding/json"
	"net/http"
	"time"

	errs "github.com/jrsteele09/go-cloud-mock/internal/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps the core error taxonomy onto transport statuses. Both
// not-found conditions of the service directory (unregistered pair, plugin
// declined) surface as a standard 404.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errs.Is(err, errs.ErrMalformedRequest):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"badRequest": map[string]any{
				"message": err.Error(),
				"code":    http.StatusBadRequest,
			},
		})
	case errs.Is(err, errs.ErrSessionNotFound),
		errs.Is(err, errs.ErrServiceNotFound),
		errs.Is(err, errs.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]any{
			"itemNotFound": map[string]any{
				"message": err.Error(),
				"code":    http.StatusNotFound,
			},
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"internalServerError": map[string]any{
				"message": err.Error(),
				"code":    http.StatusInternalServerError,
			},
		})
	}
}

// formatTimestamp renders an expiry the way the mocked provider's identity
// API does: second precision with a fixed fractional field and offset.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02T15:04:05") + ".999-05:00"
}
