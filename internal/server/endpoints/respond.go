package endpoints

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wowstore/storefront/internal/assistant"
	"github.com/wowstore/storefront/internal/bundle"
	"github.com/wowstore/storefront/internal/catalog"
	"github.com/wowstore/storefront/internal/retail"
	"github.com/wowstore/storefront/internal/storefront"
)

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps err onto 400 for caller mistakes, 503 for
// unconfigured upstreams and 500 otherwise.
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, bundle.ErrNoProducts),
		errors.Is(err, assistant.ErrEmptyMessage),
		errors.Is(err, assistant.ErrInvalidHistory),
		errors.Is(err, storefront.ErrEmptyCart),
		retail.IsClientError(err):
		return http.StatusBadRequest
	case errors.Is(err, retail.ErrNotConfigured),
		errors.Is(err, storefront.ErrNotConfigured),
		errors.Is(err, catalog.ErrNoSource):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body into v. An empty body leaves v
// untouched when allowEmpty is set.
func decodeBody(r *http.Request, v any, allowEmpty bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) && allowEmpty {
		return nil
	}
	return err
}
