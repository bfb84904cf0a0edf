package activity

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/api"
	"github.com/leetguard/leetguard-server/internal/auth"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

type Handler struct {
	service *Service
	log     *zap.Logger
}

func NewHandler(service *Service, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

type activityResponse struct {
	ID          uint      `json:"id"`
	ProblemName string    `json:"problem_name"`
	ProblemURL  string    `json:"problem_url"`
	Difficulty  string    `json:"difficulty"`
	TopicTags   []string  `json:"topic_tags"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completed_at"`
}

func toResponse(a *Activity) activityResponse {
	var tags []string
	if len(a.TopicTags) > 0 {
		tags = a.TopicTags
	}
	return activityResponse{
		ID:          a.ID,
		ProblemName: a.ProblemName,
		ProblemURL:  a.ProblemURL,
		Difficulty:  a.Difficulty,
		TopicTags:   tags,
		Status:      a.Status,
		CompletedAt: a.CompletedAt,
	}
}

type submitRequest struct {
	ProblemName string   `json:"problem_name"`
	ProblemURL  string   `json:"problem_url"`
	Difficulty  string   `json:"difficulty"`
	TopicTags   []string `json:"topic_tags"`
	Status      string   `json:"status"`
}

func (req *submitRequest) validate() error {
	fields := []struct{ name, value string }{
		{"problem_name", req.ProblemName},
		{"problem_url", req.ProblemURL},
		{"difficulty", req.Difficulty},
		{"status", req.Status},
	}
	for _, f := range fields {
		if err := api.Required(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req submitRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if err := req.validate(); err != nil {
		h.fail(w, err)
		return
	}

	a, created, err := h.service.Submit(r.Context(), u.ID, SubmitInput{
		ProblemName: req.ProblemName,
		ProblemURL:  req.ProblemURL,
		Difficulty:  req.Difficulty,
		TopicTags:   req.TopicTags,
		Status:      req.Status,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	msg := "Activity updated"
	if created {
		msg = "Activity created"
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"message": msg, "activity_id": a.ID})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	limit, err := queryInt(r, "limit", defaultLimit, 1, maxLimit)
	if err != nil {
		h.fail(w, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0, -1)
	if err != nil {
		h.fail(w, err)
		return
	}

	activities, err := h.service.List(r.Context(), u.ID, limit, offset)
	if err != nil {
		h.fail(w, err)
		return
	}

	out := make([]activityResponse, 0, len(activities))
	for i := range activities {
		out = append(out, toResponse(&activities[i]))
	}
	api.WriteJSON(w, http.StatusOK, map[string][]activityResponse{"activities": out})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	a, err := h.service.Get(r.Context(), id, u.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(a))
}

type updateRequest struct {
	ProblemName *string   `json:"problem_name"`
	ProblemURL  *string   `json:"problem_url"`
	Difficulty  *string   `json:"difficulty"`
	TopicTags   *[]string `json:"topic_tags"`
	Status      *string   `json:"status"`
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var req updateRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	a, err := h.service.Update(r.Context(), id, u.ID, UpdateInput(req))
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, toResponse(a))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	id, err := pathID(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, u.ID); err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Activity deleted successfully"})
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	stats, err := h.service.Stats(r.Context(), u.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, stats)
}

func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, api.Invalid("activity_id", "value is not a valid integer")
	}
	return uint(id), nil
}

// queryInt parses an optional integer query parameter. A negative hi means
// unbounded.
func queryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, api.Invalid(name, "value is not a valid integer")
	}
	if v < lo || (hi >= 0 && v > hi) {
		return 0, api.Invalid(name, "value out of range")
	}
	return v, nil
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if api.WriteValidation(w, err) {
		return
	}
	if errors.Is(err, ErrActivityNotFound) {
		api.WriteError(w, http.StatusNotFound, "Activity not found")
		return
	}
	h.log.Error("activity request failed", zap.Error(err))
	api.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
