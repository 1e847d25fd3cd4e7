package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	app_errors "lumen-ai/backend/internal/errors"
	llm_mocks "lumen-ai/backend/internal/llm/mocks"
	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/repository"
	"lumen-ai/backend/internal/repository/mocks"
	"lumen-ai/backend/internal/service"
)

func userWithKey(id, key string) *model.User {
	u := &model.User{ID: id}
	if key != "" {
		u.APIKey = &key
	}
	return u
}

func TestSendMessage(t *testing.T) {
	ctx := context.Background()
	userID := "u1"
	chatID := "c1"

	t.Run("Success - user credential", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "")

		userMsg := &model.Message{ID: "m1", Content: "Hello", Role: model.RoleUser}
		assistantMsg := &model.Message{ID: "m2", Content: "Hi there", Role: model.RoleAssistant}

		store.On("CreateMessage", ctx, "Hello", model.RoleUser, &userID, &chatID).Return(userMsg, nil).Once()
		store.On("GetUser", ctx, userID).Return(userWithKey(userID, "key123"), nil).Once()
		provider.On("Complete", ctx, "key123", mock.MatchedBy(func(prompt string) bool {
			return prompt != "Hello" // the raw content must be wrapped in the prompt frame
		})).Return("Hi there", nil).Once()
		store.On("CreateMessage", ctx, "Hi there", model.RoleAssistant, &userID, &chatID).Return(assistantMsg, nil).Once()

		result, err := svc.SendMessage(ctx, userID, &chatID, "Hello")
		require.NoError(t, err)
		assert.Equal(t, userMsg, result.UserMessage)
		assert.Equal(t, assistantMsg, result.AssistantMessage)
	})

	t.Run("Success - default credential fallback", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "shared-key")

		store.On("CreateMessage", ctx, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", ctx, userID).Return(userWithKey(userID, ""), nil).Once()
		provider.On("Complete", ctx, "shared-key", mock.Anything).Return("ok", nil).Once()
		store.On("CreateMessage", ctx, "ok", model.RoleAssistant, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m2"}, nil).Once()

		_, err := svc.SendMessage(ctx, userID, nil, "Hello")
		require.NoError(t, err)
	})

	t.Run("Failure - empty content skips the store", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "shared-key")

		_, err := svc.SendMessage(ctx, userID, nil, "   ")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Failure - no credential anywhere", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "")

		store.On("CreateMessage", ctx, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", ctx, userID).Return(userWithKey(userID, ""), nil).Once()

		_, err := svc.SendMessage(ctx, userID, nil, "Hello")
		assert.ErrorIs(t, err, app_errors.ErrNoCredential)
	})

	t.Run("Failure - unknown user still falls back to default", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "shared-key")

		store.On("CreateMessage", ctx, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", ctx, userID).Return(nil, repository.ErrNotFound).Once()
		provider.On("Complete", ctx, "shared-key", mock.Anything).Return("ok", nil).Once()
		store.On("CreateMessage", ctx, "ok", model.RoleAssistant, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m2"}, nil).Once()

		_, err := svc.SendMessage(ctx, userID, nil, "Hello")
		require.NoError(t, err)
	})

	t.Run("Failure - corrupt credential is not treated as absent", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "shared-key")

		store.On("CreateMessage", ctx, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", ctx, userID).
			Return(nil, fmt.Errorf("%w: credential token failed authentication", app_errors.ErrCredentialCorrupt)).Once()

		_, err := svc.SendMessage(ctx, userID, nil, "Hello")
		assert.ErrorIs(t, err, app_errors.ErrCredentialCorrupt)
	})

	t.Run("Failure - provider error after the user message is persisted", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "")

		store.On("CreateMessage", ctx, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", ctx, userID).Return(userWithKey(userID, "key123"), nil).Once()
		provider.On("Complete", ctx, "key123", mock.Anything).
			Return("", errors.New("upstream returned status 500")).Once()

		_, err := svc.SendMessage(ctx, userID, nil, "Hello")
		assert.ErrorIs(t, err, app_errors.ErrProvider)
		// Only the user message insert happened; no assistant insert.
		store.AssertNumberOfCalls(t, "CreateMessage", 1)
	})

	t.Run("Failure - assistant persist fails after provider success", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		provider := llm_mocks.NewMockProvider(t)
		svc := service.NewChatService(store, provider, "")

		store.On("CreateMessage", ctx, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", ctx, userID).Return(userWithKey(userID, "key123"), nil).Once()
		provider.On("Complete", ctx, "key123", mock.Anything).Return("reply", nil).Once()
		store.On("CreateMessage", ctx, "reply", model.RoleAssistant, &userID, (*string)(nil)).
			Return(nil, errors.New("disk full")).Once()

		_, err := svc.SendMessage(ctx, userID, nil, "Hello")
		assert.ErrorIs(t, err, app_errors.ErrInternal)
	})
}

func TestCreateChat(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - blank title", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		svc := service.NewChatService(store, llm_mocks.NewMockProvider(t), "")

		_, err := svc.CreateChat(ctx, "u1", "  ")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})

	t.Run("Success", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		svc := service.NewChatService(store, llm_mocks.NewMockProvider(t), "")

		chat := &model.Chat{ID: "c1", UserID: "u1", Title: "Trip planning"}
		store.On("CreateChat", ctx, "u1", "Trip planning").Return(chat, nil).Once()

		got, err := svc.CreateChat(ctx, "u1", "Trip planning")
		require.NoError(t, err)
		assert.Equal(t, chat, got)
	})
}

func TestRenameChat(t *testing.T) {
	ctx := context.Background()

	t.Run("Failure - unknown chat", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		svc := service.NewChatService(store, llm_mocks.NewMockProvider(t), "")

		store.On("RenameChat", ctx, "missing", "New title").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.RenameChat(ctx, "missing", "New title")
		assert.ErrorIs(t, err, app_errors.ErrNotFound)
	})

	t.Run("Failure - blank title", func(t *testing.T) {
		store := mocks.NewMockStore(t)
		svc := service.NewChatService(store, llm_mocks.NewMockProvider(t), "")

		_, err := svc.RenameChat(ctx, "c1", "")
		assert.ErrorIs(t, err, app_errors.ErrValidation)
	})
}

func TestEditMessage(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewMockStore(t)
	svc := service.NewChatService(store, llm_mocks.NewMockProvider(t), "")

	_, err := svc.EditMessage(ctx, "m1", " ")
	assert.ErrorIs(t, err, app_errors.ErrValidation)

	store.On("UpdateMessageContent", ctx, "m1", "fixed").
		Return(&model.Message{ID: "m1", Content: "fixed"}, nil).Once()
	msg, err := svc.EditMessage(ctx, "m1", "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", msg.Content)
}
