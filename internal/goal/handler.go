package goal

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/api"
	"github.com/leetguard/leetguard-server/internal/auth"
	"github.com/leetguard/leetguard-server/internal/user"
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

type updateRequest struct {
	TargetDaily *int `json:"target_daily"`
}

type progressRequest struct {
	Delta *int `json:"delta"`
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	g, err := h.service.Get(r.Context(), u)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var req updateRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.TargetDaily == nil {
		h.fail(w, api.Invalid("target_daily", "field required"))
		return
	}

	g, err := h.service.SetTarget(r.Context(), u, *req.TargetDaily)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, g)
}

// AddProgress accepts an empty body as a delta of one.
func (h *Handler) AddProgress(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	delta := 1
	if r.ContentLength != 0 {
		var req progressRequest
		if err := api.DecodeJSON(w, r, &req); err != nil {
			h.fail(w, err)
			return
		}
		if req.Delta != nil {
			delta = *req.Delta
		}
	}

	g, err := h.service.AddProgress(r.Context(), u, delta)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, g)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	if api.WriteValidation(w, err) {
		return
	}
	if errors.Is(err, user.ErrUserNotFound) {
		api.WriteError(w, http.StatusNotFound, "User not found")
		return
	}
	h.log.Error("goal request failed", zap.Error(err))
	api.WriteError(w, http.StatusInternalServerError, "Internal server error")
}
