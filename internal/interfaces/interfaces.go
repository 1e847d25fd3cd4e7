package interfaces

import (
	"context"

	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/service"
)

// Interfaces for the core services. The API layer depends on these
// instead of the concrete types so handlers can be tested with mocks.

// UserService is the self-service account contract.
type UserService interface {
	GetCurrentUser(ctx context.Context, id string) (*model.User, error)
	UpsertUser(ctx context.Context, data *model.UpsertUser) (*model.User, error)
	SetCredential(ctx context.Context, userID, apiKey string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, upd *model.ProfileUpdate) (*model.User, error)
}

// ChatService is the conversation contract, including the send-message
// orchestration.
type ChatService interface {
	ListChats(ctx context.Context, userID string) ([]*model.Chat, error)
	CreateChat(ctx context.Context, userID, title string) (*model.Chat, error)
	RenameChat(ctx context.Context, id, title string) (*model.Chat, error)
	DeleteChat(ctx context.Context, id string) error
	ListMessages(ctx context.Context, userID string, chatID *string) ([]model.Message, error)
	EditMessage(ctx context.Context, id, content string) (*model.Message, error)
	DeleteMessage(ctx context.Context, id string) error
	SendMessage(ctx context.Context, userID string, chatID *string, content string) (*model.SendResult, error)
}

// AdminService is the privileged management contract.
type AdminService interface {
	ListUsers(ctx context.Context) ([]*model.User, error)
	UpdateUser(ctx context.Context, actor service.Actor, id string, upd *model.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, actor service.Actor, id string) error
	ListSettings(ctx context.Context) ([]*model.GlobalSetting, error)
	CreateSetting(ctx context.Context, actor service.Actor, key string, value, description *string) (*model.GlobalSetting, error)
	UpdateSetting(ctx context.Context, actor service.Actor, id string, upd *model.GlobalSettingUpdate) (*model.GlobalSetting, error)
	DeleteSetting(ctx context.Context, actor service.Actor, id string) error
	ListAuditLog(ctx context.Context, limit int) ([]*model.AdminLog, error)
	Stats(ctx context.Context) (*model.AdminStats, error)
}
