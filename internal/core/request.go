// AngelaMos | 2026
// request.go

package core

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// IDParam returns the named path parameter in canonical UUID form. A value
// that is not a UUID cannot name a stored row and is reported as ErrNotFound.
func IDParam(r *http.Request, key string) (string, error) {
	raw := chi.URLParam(r, key)

	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s %q: %w", key, raw, ErrNotFound)
	}
	return id.String(), nil
}

// ParseIntQuery reads an integer query parameter, falling back to
// defaultVal when it is absent or malformed.
func ParseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// ParseBoolQuery returns nil when the parameter is absent or not a boolean.
func ParseBoolQuery(r *http.Request, key string) *bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}

	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}

	return &parsed
}
