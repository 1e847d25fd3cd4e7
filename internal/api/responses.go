package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "lumen-ai/backend/internal/errors"
)

// Shared DTOs for API responses and helpers for sending consistent
// HTTP responses.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic success response for operations that do
// not return a resource.
type StatusResponse struct {
	Status string `json:"status"`
}

// respondWithError maps business-layer errors to HTTP status codes and
// writes a standard JSON error body.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		// Validation messages from the service layer are already
		// user-friendly.
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrNoCredential):
		// A missing API key is a configuration problem the user can fix
		// themselves, so the message passes through.
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrConflict):
		statusCode = http.StatusConflict
		message = "A conflict occurred with the current state of the resource."
	case errors.Is(err, app_errors.ErrPermission):
		statusCode = http.StatusForbidden
		message = "You do not have permission to perform this action."
	case errors.Is(err, app_errors.ErrCredentialCorrupt):
		// Distinct from "no credential": the stored token failed
		// authenticated decryption, which means corruption or a key
		// change and needs operator attention.
		statusCode = http.StatusInternalServerError
		message = "A stored credential could not be decrypted."
	case errors.Is(err, app_errors.ErrProvider):
		statusCode = http.StatusBadGateway
		message = "The AI provider could not be reached or returned no reply."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	// Log the detailed error, send the generic message.
	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondWithJSON marshals payload and writes it with the given status.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
