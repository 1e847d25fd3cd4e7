package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/interfaces"
	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/service"
)

// AdminHandler serves the privileged management surface. Every mutation
// is audited by the service layer with the actor details gathered here.
type AdminHandler struct {
	admin interfaces.AdminService
}

func NewAdminHandler(admin interfaces.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

// CreateSettingRequest is the DTO for creating a global setting.
type CreateSettingRequest struct {
	Key         string  `json:"key" validate:"required,min=1,max=100"`
	Value       *string `json:"value,omitempty"`
	Description *string `json:"description,omitempty"`
}

// actor collects the acting admin and request provenance for the audit
// trail. RemoteAddr is the real client IP thanks to middleware.RealIP.
func actor(r *http.Request) service.Actor {
	return service.Actor{
		ID:        userID(r),
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	}
}

// ListUsers godoc
// @Summary      List all users
// @Description  Returns every user record with credentials decrypted for display.
// @Tags         Admin
// @Produce      json
// @Success      200  {array}   model.User
// @Failure      403  {object}  ErrorResponse
// @Router       /v1/admin/users [get]
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.admin.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}

	user, err := h.admin.UpdateUser(r.Context(), actor(r), chi.URLParam(r, "userID"), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), actor(r), chi.URLParam(r, "userID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *AdminHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.admin.ListSettings(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

func (h *AdminHandler) CreateSetting(w http.ResponseWriter, r *http.Request) {
	var req CreateSettingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	setting, err := h.admin.CreateSetting(r.Context(), actor(r), req.Key, req.Value, req.Description)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, setting)
}

func (h *AdminHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req model.GlobalSettingUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}

	setting, err := h.admin.UpdateSetting(r.Context(), actor(r), chi.URLParam(r, "settingID"), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, setting)
}

func (h *AdminHandler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteSetting(r.Context(), actor(r), chi.URLParam(r, "settingID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GetLogs returns the newest audit entries. The optional limit query
// parameter is clamped by the store.
func (h *AdminHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, fmt.Errorf("%w: limit must be an integer", app_errors.ErrValidation))
			return
		}
		limit = parsed
	}

	logs, err := h.admin.ListAuditLog(r.Context(), limit)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, logs)
}

func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
