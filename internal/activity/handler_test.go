package activity

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/auth"
	"github.com/leetguard/leetguard-server/internal/user"
)

func newTestRouter(h *Handler, u *user.User) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), u)))
		})
	})
	r.Post("/api/activity", h.Submit)
	r.Get("/api/activity", h.List)
	r.Get("/api/activity/stats", h.Stats)
	r.Get("/api/activity/{id}", h.Get)
	r.Put("/api/activity/{id}", h.Update)
	r.Delete("/api/activity/{id}", h.Delete)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return rec.Code, out
}

const twoSumBody = `{
	"problem_name": "Two Sum",
	"problem_url": "https://leetcode.com/problems/two-sum/",
	"difficulty": "Easy",
	"topic_tags": ["Array", "Hash Table"],
	"status": "attempted"
}`

func TestHandler_ActivityLifecycle(t *testing.T) {
	progress := &fakeProgress{}
	log := zap.NewNop()
	h := NewHandler(NewService(log, NewMockRepository(), progress), log)
	router := newTestRouter(h, &user.User{ID: 1})

	status, body := do(t, router, http.MethodPost, "/api/activity", twoSumBody)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Activity created", body["message"])
	id := strconv.Itoa(int(body["activity_id"].(float64)))

	status, body = do(t, router, http.MethodPost, "/api/activity",
		strings.Replace(twoSumBody, `"attempted"`, `"solved"`, 1))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Activity updated", body["message"])

	status, body = do(t, router, http.MethodGet, "/api/activity/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "solved", body["status"])
	assert.Equal(t, []any{"Array", "Hash Table"}, body["topic_tags"])
	assert.Contains(t, body, "completed_at")

	status, body = do(t, router, http.MethodPut, "/api/activity/"+id, `{"difficulty":"Medium"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Medium", body["difficulty"])
	assert.Equal(t, "Two Sum", body["problem_name"])

	status, body = do(t, router, http.MethodGet, "/api/activity/stats", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{"total": 1.0, "solved": 1.0, "attempted": 0.0, "bookmarked": 0.0}, body)

	status, body = do(t, router, http.MethodGet, "/api/activity", "")
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["activities"], 1)

	status, body = do(t, router, http.MethodDelete, "/api/activity/"+id, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Activity deleted successfully", body["message"])

	status, body = do(t, router, http.MethodGet, "/api/activity/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Activity not found", body["detail"])
}

func TestHandler_ActivityValidation(t *testing.T) {
	log := zap.NewNop()
	h := NewHandler(NewService(log, NewMockRepository(), nil), log)
	router := newTestRouter(h, &user.User{ID: 1})

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{name: "missing status", method: http.MethodPost, path: "/api/activity",
			body: `{"problem_name":"x","problem_url":"y","difficulty":"Easy"}`, wantStatus: http.StatusUnprocessableEntity},
		{name: "malformed json", method: http.MethodPost, path: "/api/activity",
			body: `[`, wantStatus: http.StatusUnprocessableEntity},
		{name: "bad id", method: http.MethodGet, path: "/api/activity/abc", wantStatus: http.StatusUnprocessableEntity},
		{name: "bad limit", method: http.MethodGet, path: "/api/activity?limit=zero", wantStatus: http.StatusUnprocessableEntity},
		{name: "negative offset", method: http.MethodGet, path: "/api/activity?offset=-1", wantStatus: http.StatusUnprocessableEntity},
		{name: "unknown id", method: http.MethodDelete, path: "/api/activity/42", wantStatus: http.StatusNotFound},
		{name: "empty list", method: http.MethodGet, path: "/api/activity?limit=5&offset=0", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, []any{}, body["activities"])
			}
		})
	}
}

func TestHandler_ActivityIsolation(t *testing.T) {
	log := zap.NewNop()
	h := NewHandler(NewService(log, NewMockRepository(), nil), log)
	alice := newTestRouter(h, &user.User{ID: 1})
	bob := newTestRouter(h, &user.User{ID: 2})

	_, body := do(t, alice, http.MethodPost, "/api/activity", twoSumBody)
	id := strconv.Itoa(int(body["activity_id"].(float64)))

	status, _ := do(t, bob, http.MethodGet, "/api/activity/"+id, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = do(t, bob, http.MethodPost, "/api/activity", twoSumBody)
	assert.Equal(t, http.StatusOK, status)

	_, stats := do(t, alice, http.MethodGet, "/api/activity/stats", "")
	assert.Equal(t, 1.0, stats["total"])
}
