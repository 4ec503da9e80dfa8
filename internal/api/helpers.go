package api

import (
	"encoding/json"
	"net/http"

	"github.com/gwarchivist/gwarchivist/internal/errors"
	"github.com/gwarchivist/gwarchivist/internal/logger"
)

// writeJSON serializes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response: %v", err)
	}
}

// decodeJSON parses the request body into dst, answering a BAD_REQUEST error
// for bodies that do not parse.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.NewBadRequestError("invalid JSON body")
	}
	return nil
}
