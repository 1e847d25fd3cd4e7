package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/llm"
	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/repository"
)

// promptTemplate frames the user's message for the provider.
const promptTemplate = "You are a helpful AI assistant. Provide concise, helpful responses to user questions.\n\nUser: %s"

// ChatService owns conversation threads and the send-message workflow:
// persist the user's message, resolve a credential, call the provider,
// persist the reply.
type ChatService struct {
	store repository.Store
	llm   llm.Provider

	// defaultCredential is the deployment-wide fallback API key used
	// when the acting user has not stored their own. May be empty.
	defaultCredential string
}

func NewChatService(store repository.Store, provider llm.Provider, defaultCredential string) *ChatService {
	return &ChatService{store: store, llm: provider, defaultCredential: defaultCredential}
}

// ListChats returns the user's chats, most recently updated first.
func (s *ChatService) ListChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	chats, err := s.store.ListChats(ctx, userID)
	if err != nil {
		return nil, fromStore(err)
	}
	return chats, nil
}

func (s *ChatService) CreateChat(ctx context.Context, userID, title string) (*model.Chat, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: chat title cannot be empty", app_errors.ErrValidation)
	}
	chat, err := s.store.CreateChat(ctx, userID, title)
	if err != nil {
		return nil, fromStore(err)
	}
	return chat, nil
}

func (s *ChatService) RenameChat(ctx context.Context, id, title string) (*model.Chat, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("%w: chat title cannot be empty", app_errors.ErrValidation)
	}
	chat, err := s.store.RenameChat(ctx, id, title)
	if err != nil {
		return nil, fromStore(err)
	}
	return chat, nil
}

// DeleteChat removes a chat and all of its messages.
func (s *ChatService) DeleteChat(ctx context.Context, id string) error {
	return fromStore(s.store.DeleteChat(ctx, id))
}

// ListMessages returns the caller's messages, optionally scoped to one
// chat, oldest first.
func (s *ChatService) ListMessages(ctx context.Context, userID string, chatID *string) ([]model.Message, error) {
	messages, err := s.store.ListMessages(ctx, &userID, chatID)
	if err != nil {
		return nil, fromStore(err)
	}
	return messages, nil
}

// EditMessage replaces a message's content. Role and ownership are not
// editable.
func (s *ChatService) EditMessage(ctx context.Context, id, content string) (*model.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", app_errors.ErrValidation)
	}
	msg, err := s.store.UpdateMessageContent(ctx, id, content)
	if err != nil {
		return nil, fromStore(err)
	}
	return msg, nil
}

// DeleteMessage is idempotent.
func (s *ChatService) DeleteMessage(ctx context.Context, id string) error {
	return fromStore(s.store.DeleteMessage(ctx, id))
}

// SendMessage runs the full send workflow. The user's message is
// committed before the provider is contacted, so a provider failure
// never loses the user's input; the message stays persisted and the
// error is reported. There is no retry here: the provider client owns
// its timeout, and a failed call surfaces as ErrProvider.
func (s *ChatService) SendMessage(ctx context.Context, userID string, chatID *string, content string) (*model.SendResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: message content cannot be empty", app_errors.ErrValidation)
	}

	userMessage, err := s.store.CreateMessage(ctx, content, model.RoleUser, &userID, chatID)
	if err != nil {
		return nil, fromStore(err)
	}

	credential, err := s.resolveCredential(ctx, userID)
	if err != nil {
		return nil, err
	}

	reply, err := s.llm.Complete(ctx, credential, fmt.Sprintf(promptTemplate, content))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrProvider, err)
	}

	assistantMessage, err := s.store.CreateMessage(ctx, reply, model.RoleAssistant, &userID, chatID)
	if err != nil {
		// The provider was already consulted; losing the reply here is
		// the one partial failure worth calling out loudly.
		slog.Error("Failed to persist assistant reply after successful provider call",
			"user_id", userID, "error", err)
		return nil, fmt.Errorf("%w: assistant reply could not be saved", app_errors.ErrInternal)
	}

	return &model.SendResult{UserMessage: userMessage, AssistantMessage: assistantMessage}, nil
}

// resolveCredential picks the user's own key, then the deployment
// default. A corrupt stored credential is surfaced distinctly and never
// treated as absent.
func (s *ChatService) resolveCredential(ctx context.Context, userID string) (string, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return "", fromStore(err)
	}
	if user != nil && user.APIKey != nil && *user.APIKey != "" {
		return *user.APIKey, nil
	}
	if s.defaultCredential != "" {
		return s.defaultCredential, nil
	}
	return "", fmt.Errorf("%w: add your Gemini API key in settings", app_errors.ErrNoCredential)
}
