package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/interfaces"
)

// ChatHandler serves conversation threads and messages, including the
// send endpoint that calls out to the AI provider.
type ChatHandler struct {
	chats interfaces.ChatService
}

func NewChatHandler(chats interfaces.ChatService) *ChatHandler {
	return &ChatHandler{chats: chats}
}

// CreateChatRequest is the DTO for creating a conversation thread.
type CreateChatRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200" example:"Trip planning"`
}

// UpdateTitleRequest is the DTO for renaming a chat.
type UpdateTitleRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200" example:"My Custom Chat Title"`
}

// SendMessageRequest is the DTO for sending a message. ChatID is
// optional: legacy clients send without a thread.
type SendMessageRequest struct {
	Content string  `json:"content" validate:"required,min=1"`
	ChatID  *string `json:"chat_id,omitempty"`
}

// EditMessageRequest is the DTO for editing a message's content.
type EditMessageRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.chats.ListChats(r.Context(), userID(r))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	var req CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	chat, err := h.chats.CreateChat(r.Context(), userID(r), req.Title)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) UpdateChatTitle(w http.ResponseWriter, r *http.Request) {
	var req UpdateTitleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	chat, err := h.chats.RenameChat(r.Context(), chi.URLParam(r, "chatID"), req.Title)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	if err := h.chats.DeleteChat(r.Context(), chi.URLParam(r, "chatID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// GetChatMessages returns the messages of one chat, oldest first.
func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")
	messages, err := h.chats.ListMessages(r.Context(), userID(r), &chatID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

// GetMessages is the legacy listing of all the caller's messages across
// chats. Kept for pre-thread clients; still requires authentication.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.chats.ListMessages(r.Context(), userID(r), nil)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, messages)
}

// SendMessage godoc
// @Summary      Send a message
// @Description  Persists the user message, calls the AI provider and persists the reply.
// @Tags         Messages
// @Accept       json
// @Produce      json
// @Param        message  body      SendMessageRequest  true  "Message to send"
// @Success      200      {object}  model.SendResult
// @Failure      400      {object}  ErrorResponse
// @Failure      502      {object}  ErrorResponse
// @Router       /v1/messages [post]
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	result, err := h.chats.SendMessage(r.Context(), userID(r), req.ChatID, req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func (h *ChatHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, fmt.Errorf("%w: invalid request payload", app_errors.ErrValidation))
		return
	}
	if err := validateRequest(req); err != nil {
		respondWithError(w, err)
		return
	}

	msg, err := h.chats.EditMessage(r.Context(), chi.URLParam(r, "messageID"), req.Content)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, msg)
}

func (h *ChatHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.chats.DeleteMessage(r.Context(), chi.URLParam(r, "messageID")); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}
