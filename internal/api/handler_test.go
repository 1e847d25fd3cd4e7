package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lumen-ai/backend/internal/api"
	llm_mocks "lumen-ai/backend/internal/llm/mocks"
	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/repository"
	"lumen-ai/backend/internal/repository/mocks"
	"lumen-ai/backend/internal/service"
)

// newTestServer wires the real services and router over a mocked store
// and provider, so requests exercise the full HTTP stack.
func newTestServer(t *testing.T) (*httptest.Server, *mocks.MockStore, *llm_mocks.MockProvider) {
	t.Helper()

	store := mocks.NewMockStore(t)
	provider := llm_mocks.NewMockProvider(t)

	users := service.NewUserService(store)
	chats := service.NewChatService(store, provider, "")
	admin := service.NewAdminService(store)

	router := api.NewRouter(
		api.NewAuthHandler(users),
		api.NewChatHandler(chats),
		api.NewAdminHandler(admin),
		users,
	)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, store, provider
}

func doRequest(t *testing.T, method, url, userID string, body any) *http.Response {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestRequireUser(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/chats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server, _, _ := newTestServer(t)

	resp := doRequest(t, http.MethodGet, server.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetCurrentUserEndpoint(t *testing.T) {
	server, store, _ := newTestServer(t)

	key := "key123"
	store.On("GetUser", mock.Anything, "u1").
		Return(&model.User{ID: "u1", APIKey: &key, ThemeColor: model.ThemeBlue}, nil).Once()

	resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/auth/user", "u1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var user model.User
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&user))
	assert.Equal(t, "u1", user.ID)
	require.NotNil(t, user.APIKey)
	assert.Equal(t, "key123", *user.APIKey)

	t.Run("Unknown user maps to 404", func(t *testing.T) {
		store.On("GetUser", mock.Anything, "ghost").Return(nil, repository.ErrNotFound).Once()

		resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/auth/user", "ghost", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestSendMessageEndpoint(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		server, store, provider := newTestServer(t)
		userID := "u1"
		key := "key123"

		store.On("CreateMessage", mock.Anything, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1", Content: "Hello", Role: model.RoleUser}, nil).Once()
		store.On("GetUser", mock.Anything, "u1").
			Return(&model.User{ID: "u1", APIKey: &key}, nil).Once()
		provider.On("Complete", mock.Anything, "key123", mock.Anything).Return("Hi there", nil).Once()
		store.On("CreateMessage", mock.Anything, "Hi there", model.RoleAssistant, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m2", Content: "Hi there", Role: model.RoleAssistant}, nil).Once()

		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/messages", "u1",
			api.SendMessageRequest{Content: "Hello"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.SendResult
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
		assert.Equal(t, "Hello", result.UserMessage.Content)
		assert.Equal(t, "Hi there", result.AssistantMessage.Content)
	})

	t.Run("Empty content is a 400", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/messages", "u1",
			api.SendMessageRequest{Content: ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("Missing credential is a 400", func(t *testing.T) {
		server, store, _ := newTestServer(t)
		userID := "u1"

		store.On("CreateMessage", mock.Anything, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", mock.Anything, "u1").Return(&model.User{ID: "u1"}, nil).Once()

		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/messages", "u1",
			api.SendMessageRequest{Content: "Hello"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body api.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body.Error, "API key")
	})

	t.Run("Provider failure is a 502", func(t *testing.T) {
		server, store, provider := newTestServer(t)
		userID := "u1"
		key := "key123"

		store.On("CreateMessage", mock.Anything, "Hello", model.RoleUser, &userID, (*string)(nil)).
			Return(&model.Message{ID: "m1"}, nil).Once()
		store.On("GetUser", mock.Anything, "u1").
			Return(&model.User{ID: "u1", APIKey: &key}, nil).Once()
		provider.On("Complete", mock.Anything, "key123", mock.Anything).
			Return("", assert.AnError).Once()

		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/messages", "u1",
			api.SendMessageRequest{Content: "Hello"})
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestAdminAuthorization(t *testing.T) {
	t.Run("Non-admin is forbidden", func(t *testing.T) {
		server, store, _ := newTestServer(t)

		store.On("GetUser", mock.Anything, "u1").
			Return(&model.User{ID: "u1", IsAdmin: false, IsActive: true}, nil).Once()

		resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/stats", "u1", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Inactive admin is forbidden", func(t *testing.T) {
		server, store, _ := newTestServer(t)

		store.On("GetUser", mock.Anything, "a1").
			Return(&model.User{ID: "a1", IsAdmin: true, IsActive: false}, nil).Once()

		resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/stats", "a1", nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("Active admin gets stats", func(t *testing.T) {
		server, store, _ := newTestServer(t)

		store.On("GetUser", mock.Anything, "a1").
			Return(&model.User{ID: "a1", IsAdmin: true, IsActive: true}, nil).Once()
		store.On("Stats", mock.Anything).
			Return(&model.AdminStats{TotalUsers: 5, ActiveUsers: 4, TotalMessages: 20}, nil).Once()

		resp := doRequest(t, http.MethodGet, server.URL+"/api/v1/admin/stats", "a1", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var stats model.AdminStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, int64(5), stats.TotalUsers)
	})
}

func TestSetAPIKeyEndpoint(t *testing.T) {
	server, store, _ := newTestServer(t)

	key := "key123"
	store.On("SetUserCredential", mock.Anything, "u1", "key123").
		Return(&model.User{ID: "u1", APIKey: &key}, nil).Once()

	resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/auth/api-key", "u1",
		api.SetAPIKeyRequest{APIKey: "key123"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("Blank key is a 400", func(t *testing.T) {
		resp := doRequest(t, http.MethodPost, server.URL+"/api/v1/auth/api-key", "u1",
			api.SetAPIKeyRequest{APIKey: ""})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
