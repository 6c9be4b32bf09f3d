// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func ok() Checker { return pingFunc(func(context.Context) error { return nil }) }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name   string
		deps   []Dependency
		code   int
		status string
	}{
		{
			name:   "all healthy",
			deps:   []Dependency{{"database", ok()}, {"redis", ok()}},
			code:   http.StatusOK,
			status: "ok",
		},
		{
			name: "redis down",
			deps: []Dependency{
				{"database", ok()},
				{"redis", pingFunc(func(context.Context) error { return errors.New("refused") })},
			},
			code:   http.StatusServiceUnavailable,
			status: "degraded",
		},
		{
			name:   "unconfigured",
			deps:   []Dependency{{"database", nil}},
			code:   http.StatusServiceUnavailable,
			status: "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(NewHandler("test", tt.deps...), "/readyz")
			require.Equal(t, tt.code, rec.Code)

			var resp ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
			require.Len(t, resp.Checks, len(tt.deps))
			for i, dep := range tt.deps {
				assert.Equal(t, dep.Name, resp.Checks[i].Name)
			}
		})
	}
}

func TestShutdownAndNotReady(t *testing.T) {
	h := NewHandler("1.0.0", Dependency{"database", ok()})

	rec := serve(h, "/livez")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version":"1.0.0"`)

	h.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
	assert.Equal(t, http.StatusOK, serve(h, "/healthz").Code)

	h.SetReady(true)
	h.SetShutdown(true)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/readyz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(h, "/healthz").Code)
}
