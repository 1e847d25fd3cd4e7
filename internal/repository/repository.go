package repository

import (
	"context"

	"lumen-ai/backend/internal/model"
)

// Store is the single point of truth for reading and writing users,
// chats, messages, global settings and admin logs. Implementations own
// the entity invariants: cascade deletes in dependency order, key and
// email uniqueness, per-chat message ordering, and sealing credentials
// at rest / opening them on every read.
type Store interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	UpsertUser(ctx context.Context, data *model.UpsertUser) (*model.User, error)
	SetUserCredential(ctx context.Context, userID, plaintext string) (*model.User, error)
	UpdateUserProfile(ctx context.Context, userID string, upd *model.ProfileUpdate) (*model.User, error)
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, id string, upd *model.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	CreateChat(ctx context.Context, userID, title string) (*model.Chat, error)
	GetChat(ctx context.Context, id string) (*model.Chat, error)
	ListChats(ctx context.Context, userID string) ([]*model.Chat, error)
	RenameChat(ctx context.Context, id, title string) (*model.Chat, error)
	DeleteChat(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, content, role string, userID, chatID *string) (*model.Message, error)
	ListMessages(ctx context.Context, userID, chatID *string) ([]model.Message, error)
	UpdateMessageContent(ctx context.Context, id, content string) (*model.Message, error)
	DeleteMessage(ctx context.Context, id string) error

	ListGlobalSettings(ctx context.Context) ([]*model.GlobalSetting, error)
	CreateGlobalSetting(ctx context.Context, key string, value, description *string) (*model.GlobalSetting, error)
	UpdateGlobalSetting(ctx context.Context, id string, upd *model.GlobalSettingUpdate) (*model.GlobalSetting, error)
	DeleteGlobalSetting(ctx context.Context, id string) error

	AppendAdminLog(ctx context.Context, entry *model.AdminLog) (*model.AdminLog, error)
	ListAdminLogs(ctx context.Context, limit int) ([]*model.AdminLog, error)
	Stats(ctx context.Context) (*model.AdminStats, error)
}
