package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/interfaces"
	"lumen-ai/backend/internal/model"
)

// AuthHandler serves the self-service account endpoints. The actual
// authentication happens upstream; these handlers only consume the
// identity established by RequireUser.
type AuthHandler struct {
	users interfaces.UserService
}

func NewAuthHandler(users interfaces.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

// SetAPIKeyRequest is the DTO for storing a provider credential.
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key" validate:"required,min=1"`
}

// GetCurrentUser godoc
// @Summary      Get the current user
// @Description  Returns the authenticated user's record, credential decrypted.
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  model.User
// @Failure      404  {object}  ErrorResponse
// @Router       /v1/auth/user [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetCurrentUser(r.Context(), userID(r))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// SyncUser materializes the user record at login. The id always comes
// from the authenticated identity, never from the request body.
func (h *AuthHandler) SyncUser(w http.ResponseWriter, r *http.Request) {
	var req model.UpsertUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	req.ID = userID(r)

	user, err := h.users.UpsertUser(r.Context(), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// SetAPIKey stores the caller's provider credential, sealed at rest.
func (h *AuthHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req SetAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	user, err := h.users.SetCredential(r.Context(), userID(r), req.APIKey)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdateProfile applies a partial profile update.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req model.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), userID(r), &req)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}
