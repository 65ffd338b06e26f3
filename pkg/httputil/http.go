// Package httputil holds the small JSON response helpers shared by all
// handlers.
package httputil

import (
	"encoding/json"
	"net/http"

	"councild/pkg/apperr"
	"councild/pkg/logger"
)

// JSONError writes a JSON error body with the given status code.
func JSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONWrite writes v as JSON with the given status code.
func JSONWrite(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	return json.NewEncoder(w).Encode(v)
}

// WriteErr maps a classified error onto its HTTP status and body.
// Internal causes are logged but never sent to the client.
func WriteErr(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		logger.Error("request_failed", "path", r.URL.Path, "error", err)
	}
	JSONError(w, kind.HTTPStatus(), apperr.Message(err))
}
