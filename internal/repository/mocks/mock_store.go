package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"lumen-ai/backend/internal/model"
)

// MockStore is a testify mock of the repository.Store interface.
type MockStore struct {
	mock.Mock
}

// NewMockStore creates a MockStore that registers its expectations
// with t and asserts them on cleanup.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	ret := _m.Called(ctx, id)
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) UpsertUser(ctx context.Context, data *model.UpsertUser) (*model.User, error) {
	ret := _m.Called(ctx, data)
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) SetUserCredential(ctx context.Context, userID, plaintext string) (*model.User, error) {
	ret := _m.Called(ctx, userID, plaintext)
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) UpdateUserProfile(ctx context.Context, userID string, upd *model.ProfileUpdate) (*model.User, error) {
	ret := _m.Called(ctx, userID, upd)
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	ret := _m.Called(ctx)
	var r0 []*model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) UpdateUser(ctx context.Context, id string, upd *model.UserUpdate) (*model.User, error) {
	ret := _m.Called(ctx, id, upd)
	var r0 *model.User
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) DeleteUser(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockStore) CreateChat(ctx context.Context, userID, title string) (*model.Chat, error) {
	ret := _m.Called(ctx, userID, title)
	var r0 *model.Chat
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Chat)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	ret := _m.Called(ctx, id)
	var r0 *model.Chat
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Chat)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) ListChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	ret := _m.Called(ctx, userID)
	var r0 []*model.Chat
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.Chat)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) RenameChat(ctx context.Context, id, title string) (*model.Chat, error) {
	ret := _m.Called(ctx, id, title)
	var r0 *model.Chat
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Chat)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) DeleteChat(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockStore) CreateMessage(ctx context.Context, content, role string, userID, chatID *string) (*model.Message, error) {
	ret := _m.Called(ctx, content, role, userID, chatID)
	var r0 *model.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Message)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) ListMessages(ctx context.Context, userID, chatID *string) ([]model.Message, error) {
	ret := _m.Called(ctx, userID, chatID)
	var r0 []model.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Message)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) UpdateMessageContent(ctx context.Context, id, content string) (*model.Message, error) {
	ret := _m.Called(ctx, id, content)
	var r0 *model.Message
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Message)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) DeleteMessage(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockStore) ListGlobalSettings(ctx context.Context) ([]*model.GlobalSetting, error) {
	ret := _m.Called(ctx)
	var r0 []*model.GlobalSetting
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.GlobalSetting)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) CreateGlobalSetting(ctx context.Context, key string, value, description *string) (*model.GlobalSetting, error) {
	ret := _m.Called(ctx, key, value, description)
	var r0 *model.GlobalSetting
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.GlobalSetting)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) UpdateGlobalSetting(ctx context.Context, id string, upd *model.GlobalSettingUpdate) (*model.GlobalSetting, error) {
	ret := _m.Called(ctx, id, upd)
	var r0 *model.GlobalSetting
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.GlobalSetting)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) DeleteGlobalSetting(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *MockStore) AppendAdminLog(ctx context.Context, entry *model.AdminLog) (*model.AdminLog, error) {
	ret := _m.Called(ctx, entry)
	var r0 *model.AdminLog
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.AdminLog)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) ListAdminLogs(ctx context.Context, limit int) ([]*model.AdminLog, error) {
	ret := _m.Called(ctx, limit)
	var r0 []*model.AdminLog
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*model.AdminLog)
	}
	return r0, ret.Error(1)
}

func (_m *MockStore) Stats(ctx context.Context) (*model.AdminStats, error) {
	ret := _m.Called(ctx)
	var r0 *model.AdminStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.AdminStats)
	}
	return r0, ret.Error(1)
}
