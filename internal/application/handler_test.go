// AngelaMos | 2026
// handler_test.go

package application

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/jobboard/internal/middleware"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

func routerAs(svc *Service, id, role string) *chi.Mux {
	auth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithPrincipal(r.Context(), middleware.Principal{
				UserID: id,
				Role:   role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, auth, nil)
	return r
}

func do(t *testing.T, router http.Handler, method, target, body string) (int, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

// Recruiter R owns published job J; developer D applies and R walks the
// application through review to an offer.
func TestHandler_RecruiterJobDeveloperScenario(t *testing.T) {
	f := newFixture(t)
	r := routerAs(f.svc, recruiterR, "recruiter")
	d := routerAs(f.svc, developerD, "developer")

	code, env := do(t, d, http.MethodPost, "/applications/", `{"jobId":"`+jobJ+`"}`)
	require.Equal(t, http.StatusCreated, code, env.Error)

	var created ApplicationResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, StatusApplied, created.Status)

	code, env = do(t, d, http.MethodPost, "/applications/", `{"jobId":"`+jobJ+`"}`)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = do(t, r, http.MethodPost, "/applications/", `{"jobId":"`+jobJ+`"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, env = do(t, r, http.MethodGet, "/applications/job/"+jobJ, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, env.Meta.Total)

	code, _ = do(t, r, http.MethodPut, "/applications/"+created.ID+"/view", "")
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPut, "/applications/"+created.ID+"/status",
		`{"status":"interviewing","notes":"call scheduled"}`)
	require.Equal(t, http.StatusOK, code)

	var moved ApplicationResponse
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Equal(t, StatusInterviewing, moved.Status)
	assert.True(t, moved.IsViewed)
	assert.NotNil(t, moved.InterviewedAt)

	code, env = do(t, d, http.MethodGet, "/applications/"+created.ID, "")
	require.Equal(t, http.StatusOK, code)
	var seen ApplicationResponse
	require.NoError(t, json.Unmarshal(env.Data, &seen))
	assert.Empty(t, seen.Notes)

	code, _ = do(t, d, http.MethodPut, "/applications/"+created.ID+"/status",
		`{"status":"offered"}`)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, r, http.MethodPut, "/applications/"+created.ID+"/status",
		`{"status":"offered"}`)
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, d, http.MethodPut, "/applications/"+created.ID+"/withdraw", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)
}

func TestHandler_WithdrawScenario(t *testing.T) {
	f := newFixture(t)
	r := routerAs(f.svc, recruiterR, "recruiter")
	d := routerAs(f.svc, developerD, "developer")

	code, env := do(t, d, http.MethodPost, "/applications/",
		`{"jobId":"`+jobJ+`","coverLetter":"hi"}`)
	require.Equal(t, http.StatusCreated, code)
	var created ApplicationResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env = do(t, d, http.MethodPut, "/applications/"+created.ID+"/withdraw", "")
	require.Equal(t, http.StatusOK, code)
	var withdrawn ApplicationResponse
	require.NoError(t, json.Unmarshal(env.Data, &withdrawn))
	assert.Equal(t, StatusWithdrawn, withdrawn.Status)
	assert.NotNil(t, withdrawn.WithdrawnAt)

	code, _ = do(t, d, http.MethodPut, "/applications/"+created.ID+"/withdraw", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, r, http.MethodPut, "/applications/"+created.ID+"/status",
		`{"status":"reviewing"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, d, http.MethodGet, "/applications/my-applications", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, env.Meta.Total)
}

func TestHandler_ApplyToDraftAndValidation(t *testing.T) {
	f := newFixture(t)
	d := routerAs(f.svc, developerD, "developer")

	code, _ := do(t, d, http.MethodPost, "/applications/", `{"jobId":"`+draftJob+`"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env := do(t, d, http.MethodPost, "/applications/", `{"jobId":"not-a-uuid"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error.Message, "jobId")

	code, _ = do(t, d, http.MethodGet, "/applications/job/"+jobJ, "")
	assert.Equal(t, http.StatusForbidden, code)
}
