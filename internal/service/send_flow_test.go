package service_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lumen-ai/backend/internal/database"
	llm_mocks "lumen-ai/backend/internal/llm/mocks"
	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/repository"
	"lumen-ai/backend/internal/secret"
	"lumen-ai/backend/internal/service"
)

// TestSendFlow exercises the whole conversation path against a real
// in-memory database, mocking only the provider.
func TestSendFlow(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))

	cipher, err := secret.New("00112233445566778899aabbccddeeff00112233445566778899aabbccddeeff", true)
	require.NoError(t, err)
	store := repository.NewSQLiteStore(db, cipher)

	provider := llm_mocks.NewMockProvider(t)
	users := service.NewUserService(store)
	chats := service.NewChatService(store, provider, "")

	// Login materializes the account.
	email := "alice@example.com"
	user, err := users.UpsertUser(ctx, &model.UpsertUser{ID: "u1", Email: &email})
	require.NoError(t, err)
	assert.Nil(t, user.APIKey)

	// The user stores their provider key.
	_, err = users.SetCredential(ctx, "u1", "key123")
	require.NoError(t, err)

	fetched, err := users.GetCurrentUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, fetched.APIKey)
	assert.Equal(t, "key123", *fetched.APIKey)

	chat, err := chats.CreateChat(ctx, "u1", "Trip planning")
	require.NoError(t, err)

	provider.On("Complete", mock.Anything, "key123", mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > len("Hello")
	})).Return("Hi there", nil).Once()

	result, err := chats.SendMessage(ctx, "u1", &chat.ID, "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello", result.UserMessage.Content)
	assert.Equal(t, model.RoleUser, result.UserMessage.Role)
	assert.Equal(t, "Hi there", result.AssistantMessage.Content)
	assert.Equal(t, model.RoleAssistant, result.AssistantMessage.Role)

	// Exactly one exchange, user message first.
	messages, err := chats.ListMessages(ctx, "u1", &chat.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Hello", messages[0].Content)
	assert.Equal(t, model.RoleUser, messages[0].Role)
	assert.Equal(t, "Hi there", messages[1].Content)
	assert.Equal(t, model.RoleAssistant, messages[1].Role)
}
