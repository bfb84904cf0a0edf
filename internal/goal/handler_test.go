package goal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/auth"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, users, _ := newTestService(t)
	seedUser(t, users, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), 0)
	h := NewHandler(svc, zap.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			// Load per request, like the auth middleware.
			u, err := users.GetByID(context.Background(), 1)
			require.NoError(t, err)
			next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), u)))
		})
	})
	r.Get("/api/me/goal", h.Get)
	r.Put("/api/me/goal", h.Update)
	r.Post("/api/me/goal/progress", h.AddProgress)
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

func TestHandler_Goal(t *testing.T) {
	router := newTestRouter(t)

	steps := []struct {
		name         string
		method       string
		path         string
		body         string
		wantStatus   int
		wantTarget   float64
		wantProgress float64
	}{
		{name: "initial", method: http.MethodGet, path: "/api/me/goal",
			wantStatus: http.StatusOK, wantTarget: 5, wantProgress: 0},
		{name: "set target", method: http.MethodPut, path: "/api/me/goal", body: `{"target_daily":8}`,
			wantStatus: http.StatusOK, wantTarget: 8, wantProgress: 0},
		{name: "target out of range", method: http.MethodPut, path: "/api/me/goal", body: `{"target_daily":0}`,
			wantStatus: http.StatusUnprocessableEntity},
		{name: "target missing", method: http.MethodPut, path: "/api/me/goal", body: `{}`,
			wantStatus: http.StatusUnprocessableEntity},
		{name: "default delta", method: http.MethodPost, path: "/api/me/goal/progress",
			wantStatus: http.StatusOK, wantTarget: 8, wantProgress: 1},
		{name: "explicit delta", method: http.MethodPost, path: "/api/me/goal/progress", body: `{"delta":3}`,
			wantStatus: http.StatusOK, wantTarget: 8, wantProgress: 4},
		{name: "empty object", method: http.MethodPost, path: "/api/me/goal/progress", body: `{}`,
			wantStatus: http.StatusOK, wantTarget: 8, wantProgress: 5},
		{name: "negative delta", method: http.MethodPost, path: "/api/me/goal/progress", body: `{"delta":-1}`,
			wantStatus: http.StatusUnprocessableEntity},
		{name: "huge delta", method: http.MethodPost, path: "/api/me/goal/progress", body: `{"delta":2147483648}`,
			wantStatus: http.StatusUnprocessableEntity},
		{name: "persisted", method: http.MethodGet, path: "/api/me/goal",
			wantStatus: http.StatusOK, wantTarget: 8, wantProgress: 5},
	}

	for _, step := range steps {
		status, body := do(t, router, step.method, step.path, step.body)
		require.Equal(t, step.wantStatus, status, "%s: %v", step.name, body)
		if status != http.StatusOK {
			assert.Contains(t, body, "detail", step.name)
			continue
		}
		assert.Equal(t, step.wantTarget, body["target_daily"], step.name)
		assert.Equal(t, step.wantProgress, body["progress_today"], step.name)
		assert.Equal(t, "2026-03-01", body["progress_date"], step.name)
	}
}
