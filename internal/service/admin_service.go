package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/repository"
)

// Audit action tags.
const (
	ActionUpdateUser    = "UPDATE_USER"
	ActionDeleteUser    = "DELETE_USER"
	ActionCreateSetting = "CREATE_SETTING"
	ActionUpdateSetting = "UPDATE_SETTING"
	ActionDeleteSetting = "DELETE_SETTING"
)

// Actor identifies the admin performing a privileged mutation plus the
// request provenance recorded in the audit trail.
type Actor struct {
	ID        string
	IPAddress string
	UserAgent string
}

// AdminService is the privileged surface: user management, global
// settings, the audit log and dashboard statistics. Every mutation
// appends an audit record; an audit failure is logged and never fails
// the mutation itself.
type AdminService struct {
	store repository.Store
}

func NewAdminService(store repository.Store) *AdminService {
	return &AdminService{store: store}
}

// ListUsers returns all users with credentials decrypted for display.
func (s *AdminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fromStore(err)
	}
	return users, nil
}

func (s *AdminService) UpdateUser(ctx context.Context, actor Actor, id string, upd *model.UserUpdate) (*model.User, error) {
	if upd.ThemeColor != nil && !model.ValidTheme(*upd.ThemeColor) {
		return nil, fmt.Errorf("%w: unknown theme color %q", app_errors.ErrValidation, *upd.ThemeColor)
	}
	user, err := s.store.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, fromStore(err)
	}
	s.audit(ctx, actor, ActionUpdateUser, id, upd)
	return user, nil
}

// DeleteUser cascades through the user's messages and chats before
// removing the user row.
func (s *AdminService) DeleteUser(ctx context.Context, actor Actor, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fromStore(err)
	}
	s.audit(ctx, actor, ActionDeleteUser, id, "User account deleted")
	return nil
}

func (s *AdminService) ListSettings(ctx context.Context) ([]*model.GlobalSetting, error) {
	settings, err := s.store.ListGlobalSettings(ctx)
	if err != nil {
		return nil, fromStore(err)
	}
	return settings, nil
}

// CreateSetting inserts a new setting. A duplicate key is a conflict,
// never a silent overwrite.
func (s *AdminService) CreateSetting(ctx context.Context, actor Actor, key string, value, description *string) (*model.GlobalSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("%w: setting key cannot be empty", app_errors.ErrValidation)
	}
	setting, err := s.store.CreateGlobalSetting(ctx, key, value, description)
	if err != nil {
		return nil, fromStore(err)
	}
	s.audit(ctx, actor, ActionCreateSetting, setting.Key, map[string]any{
		"key": key, "value": value, "description": description,
	})
	return setting, nil
}

func (s *AdminService) UpdateSetting(ctx context.Context, actor Actor, id string, upd *model.GlobalSettingUpdate) (*model.GlobalSetting, error) {
	if upd.Key != nil && strings.TrimSpace(*upd.Key) == "" {
		return nil, fmt.Errorf("%w: setting key cannot be empty", app_errors.ErrValidation)
	}
	setting, err := s.store.UpdateGlobalSetting(ctx, id, upd)
	if err != nil {
		return nil, fromStore(err)
	}
	s.audit(ctx, actor, ActionUpdateSetting, setting.Key, upd)
	return setting, nil
}

func (s *AdminService) DeleteSetting(ctx context.Context, actor Actor, id string) error {
	if err := s.store.DeleteGlobalSetting(ctx, id); err != nil {
		return fromStore(err)
	}
	s.audit(ctx, actor, ActionDeleteSetting, id, "Global setting deleted")
	return nil
}

// ListAuditLog returns the newest entries, capped by the store.
func (s *AdminService) ListAuditLog(ctx context.Context, limit int) ([]*model.AdminLog, error) {
	logs, err := s.store.ListAdminLogs(ctx, limit)
	if err != nil {
		return nil, fromStore(err)
	}
	return logs, nil
}

func (s *AdminService) Stats(ctx context.Context) (*model.AdminStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fromStore(err)
	}
	return stats, nil
}

// audit appends a log entry for a privileged mutation. The audit trail
// is observability, not a transactional participant: a failed append is
// logged out-of-band and the primary mutation stays successful.
func (s *AdminService) audit(ctx context.Context, actor Actor, action, target string, details any) {
	var detailsText *string
	switch d := details.(type) {
	case string:
		detailsText = &d
	default:
		if raw, err := json.Marshal(details); err == nil {
			text := string(raw)
			detailsText = &text
		}
	}

	entry := &model.AdminLog{
		AdminID: actor.ID,
		Action:  action,
		Details: detailsText,
	}
	if target != "" {
		entry.Target = &target
	}
	if actor.IPAddress != "" {
		entry.IPAddress = &actor.IPAddress
	}
	if actor.UserAgent != "" {
		entry.UserAgent = &actor.UserAgent
	}

	if _, err := s.store.AppendAdminLog(ctx, entry); err != nil {
		slog.Warn("Failed to append admin audit log entry",
			"action", action, "admin_id", actor.ID, "error", err)
	}
}
