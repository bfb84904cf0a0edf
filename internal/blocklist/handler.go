package blocklist

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/api"
	"github.com/leetguard/leetguard-server/internal/auth"
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

type websiteRequest struct {
	Website string `json:"website"`
}

type websiteResponse struct {
	Message string `json:"message"`
	Website string `json:"website"`
}

func (h *Handler) decodeWebsite(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req websiteRequest
	if err := api.DecodeJSON(w, r, &req); err != nil {
		api.WriteValidation(w, err)
		return "", false
	}
	return normalizeWebsite(w, req.Website)
}

// normalizeWebsite trims the value so add, remove and check agree.
func normalizeWebsite(w http.ResponseWriter, raw string) (string, bool) {
	website := strings.TrimSpace(raw)
	if err := api.Required("website", website); err != nil {
		api.WriteValidation(w, err)
		return "", false
	}
	return website, true
}

func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	website, ok := h.decodeWebsite(w, r)
	if !ok {
		return
	}

	if err := h.service.Add(r.Context(), u.ID, website); err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, websiteResponse{Message: "Website added to blocklist", Website: website})
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	website, ok := h.decodeWebsite(w, r)
	if !ok {
		return
	}

	if err := h.service.Remove(r.Context(), u.ID, website); err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, websiteResponse{Message: "Website removed from blocklist", Website: website})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	websites, err := h.service.Websites(r.Context(), u.ID)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string][]string{"websites": websites})
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.UserFromContext(r.Context())
	if !ok {
		api.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	website, ok := normalizeWebsite(w, chi.URLParam(r, "website"))
	if !ok {
		return
	}

	blocked, err := h.service.IsBlocked(r.Context(), u.ID, website)
	if err != nil {
		h.fail(w, err)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"website": website, "is_blocked": blocked})
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrAlreadyBlocked):
		api.WriteError(w, http.StatusBadRequest, "Website already in blocklist")
	case errors.Is(err, ErrNotBlocked):
		api.WriteError(w, http.StatusNotFound, "Website not found in blocklist")
	default:
		h.log.Error("blocklist request failed", zap.Error(err))
		api.WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
