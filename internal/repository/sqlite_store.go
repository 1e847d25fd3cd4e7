package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/secret"
)

const userColumns = "id, email, first_name, last_name, profile_image_url, gemini_api_key, theme_color, is_admin, is_active, last_login_at, created_at, updated_at"

type sqliteStore struct {
	db     *sql.DB
	cipher *secret.Cipher
}

// NewSQLiteStore wraps db as a Store. Credential fields are sealed with
// cipher before any write and opened on every read, so plaintext keys
// only ever exist in process memory.
func NewSQLiteStore(db *sql.DB, cipher *secret.Cipher) Store {
	return &sqliteStore{db: db, cipher: cipher}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey)
}

// --- Users ---

func (s *sqliteStore) scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	var email, firstName, lastName, imageURL, apiKey sql.NullString
	var lastLogin sql.NullTime
	err := row.Scan(&u.ID, &email, &firstName, &lastName, &imageURL, &apiKey,
		&u.ThemeColor, &u.IsAdmin, &u.IsActive, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if email.Valid {
		u.Email = &email.String
	}
	if firstName.Valid {
		u.FirstName = &firstName.String
	}
	if lastName.Valid {
		u.LastName = &lastName.String
	}
	if imageURL.Valid {
		u.ProfileImageURL = &imageURL.String
	}
	if lastLogin.Valid {
		u.LastLoginAt = &lastLogin.Time
	}
	if apiKey.Valid && apiKey.String != "" {
		plaintext, err := s.cipher.Open(apiKey.String)
		if err != nil {
			return nil, err
		}
		u.APIKey = &plaintext
	}
	return &u, nil
}

func (s *sqliteStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	return s.scanUser(row)
}

func (s *sqliteStore) UpsertUser(ctx context.Context, data *model.UpsertUser) (*model.User, error) {
	now := time.Now().UTC()
	query := `
		INSERT INTO users (id, email, first_name, last_name, profile_image_url, last_login_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = COALESCE(excluded.email, users.email),
			first_name = COALESCE(excluded.first_name, users.first_name),
			last_name = COALESCE(excluded.last_name, users.last_name),
			profile_image_url = COALESCE(excluded.profile_image_url, users.profile_image_url),
			last_login_at = excluded.last_login_at,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, data.ID, data.Email, data.FirstName,
		data.LastName, data.ProfileImageURL, now, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("could not upsert user: %w", err)
	}
	return s.GetUser(ctx, data.ID)
}

func (s *sqliteStore) SetUserCredential(ctx context.Context, userID, plaintext string) (*model.User, error) {
	sealed, err := s.cipher.Seal(plaintext)
	if err != nil {
		return nil, fmt.Errorf("could not seal credential: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET gemini_api_key = ?, updated_at = ? WHERE id = ?",
		sealed, time.Now().UTC(), userID)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	// Reattach the plaintext so the caller can use the fresh credential
	// in the same request without another decrypt round trip.
	user.APIKey = &plaintext
	return user, nil
}

func (s *sqliteStore) UpdateUserProfile(ctx context.Context, userID string, upd *model.ProfileUpdate) (*model.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if upd.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *upd.LastName)
	}
	if upd.ProfileImageURL != nil {
		sets = append(sets, "profile_image_url = ?")
		args = append(args, *upd.ProfileImageURL)
	}
	if upd.ThemeColor != nil {
		sets = append(sets, "theme_color = ?")
		args = append(args, *upd.ThemeColor)
	}
	return s.applyUserUpdate(ctx, userID, sets, args)
}

func (s *sqliteStore) UpdateUser(ctx context.Context, id string, upd *model.UserUpdate) (*model.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *upd.Email)
	}
	if upd.FirstName != nil {
		sets = append(sets, "first_name = ?")
		args = append(args, *upd.FirstName)
	}
	if upd.LastName != nil {
		sets = append(sets, "last_name = ?")
		args = append(args, *upd.LastName)
	}
	if upd.ProfileImageURL != nil {
		sets = append(sets, "profile_image_url = ?")
		args = append(args, *upd.ProfileImageURL)
	}
	if upd.ThemeColor != nil {
		sets = append(sets, "theme_color = ?")
		args = append(args, *upd.ThemeColor)
	}
	if upd.IsAdmin != nil {
		sets = append(sets, "is_admin = ?")
		args = append(args, *upd.IsAdmin)
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	return s.applyUserUpdate(ctx, id, sets, args)
}

func (s *sqliteStore) applyUserUpdate(ctx context.Context, id string, sets []string, args []any) (*model.User, error) {
	query := "UPDATE users SET " + joinSets(sets) + " WHERE id = ?"
	args = append(args, id)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(ctx, id)
}

func (s *sqliteStore) ListUsers(ctx context.Context) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes the user and everything they own. Messages go
// first, then chats, then the user row, so an interrupted delete can
// never leave rows pointing at a missing owner.
func (s *sqliteStore) DeleteUser(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("could not delete user messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chats WHERE user_id = ?", id); err != nil {
		return fmt.Errorf("could not delete user chats: %w", err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

// --- Chats ---

func (s *sqliteStore) CreateChat(ctx context.Context, userID, title string) (*model.Chat, error) {
	now := time.Now().UTC()
	chat := &model.Chat{
		ID:        uuid.NewString(),
		Title:     title,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO chats (id, title, user_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		chat.ID, chat.Title, chat.UserID, chat.CreatedAt, chat.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *sqliteStore) GetChat(ctx context.Context, id string) (*model.Chat, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, title, user_id, created_at, updated_at FROM chats WHERE id = ?", id)
	var chat model.Chat
	err := row.Scan(&chat.ID, &chat.Title, &chat.UserID, &chat.CreatedAt, &chat.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &chat, nil
}

func (s *sqliteStore) ListChats(ctx context.Context, userID string) ([]*model.Chat, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, user_id, created_at, updated_at FROM chats WHERE user_id = ? ORDER BY updated_at DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []*model.Chat
	for rows.Next() {
		var chat model.Chat
		if err := rows.Scan(&chat.ID, &chat.Title, &chat.UserID, &chat.CreatedAt, &chat.UpdatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, &chat)
	}
	return chats, rows.Err()
}

func (s *sqliteStore) RenameChat(ctx context.Context, id, title string) (*model.Chat, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE chats SET title = ?, updated_at = ? WHERE id = ?",
		title, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetChat(ctx, id)
}

// DeleteChat removes the chat's messages before the chat row itself.
// Deleting an unknown chat is not an error.
func (s *sqliteStore) DeleteChat(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE chat_id = ?", id); err != nil {
		return fmt.Errorf("could not delete chat messages: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM chats WHERE id = ?", id); err != nil {
		return fmt.Errorf("could not delete chat: %w", err)
	}
	return tx.Commit()
}

// --- Messages ---

// CreateMessage inserts a message with a server-assigned timestamp and
// the next per-chat sequence number, and refreshes the owning chat's
// updated_at, all in one transaction.
func (s *sqliteStore) CreateMessage(ctx context.Context, content, role string, userID, chatID *string) (*model.Message, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback()

	msg := &model.Message{
		ID:        uuid.NewString(),
		Content:   content,
		Role:      role,
		UserID:    userID,
		ChatID:    chatID,
		Timestamp: time.Now().UTC(),
	}

	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(seq), 0) + 1 FROM messages WHERE chat_id IS ?", chatID)
	if err := row.Scan(&msg.Seq); err != nil {
		return nil, fmt.Errorf("could not assign message sequence: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO messages (id, content, role, user_id, chat_id, seq, timestamp) VALUES (?, ?, ?, ?, ?, ?, ?)",
		msg.ID, msg.Content, msg.Role, msg.UserID, msg.ChatID, msg.Seq, msg.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("could not insert message: %w", err)
	}

	if chatID != nil {
		if _, err := tx.ExecContext(ctx,
			"UPDATE chats SET updated_at = ? WHERE id = ?", msg.Timestamp, *chatID); err != nil {
			return nil, fmt.Errorf("could not update chat timestamp: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns messages in timestamp order (seq breaking ties).
// With both ids it scopes to that (user, chat) pair; with only a user id
// it spans all of the user's chats; with neither it is the legacy global
// listing, which callers must only reach with an authenticated identity.
func (s *sqliteStore) ListMessages(ctx context.Context, userID, chatID *string) ([]model.Message, error) {
	query := "SELECT id, content, role, user_id, chat_id, seq, timestamp FROM messages"
	var args []any
	switch {
	case userID != nil && chatID != nil:
		query += " WHERE user_id = ? AND chat_id = ?"
		args = append(args, *userID, *chatID)
	case userID != nil:
		query += " WHERE user_id = ?"
		args = append(args, *userID)
	}
	query += " ORDER BY timestamp ASC, seq ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.Message
	for rows.Next() {
		var msg model.Message
		var msgUserID, msgChatID sql.NullString
		if err := rows.Scan(&msg.ID, &msg.Content, &msg.Role, &msgUserID, &msgChatID, &msg.Seq, &msg.Timestamp); err != nil {
			return nil, err
		}
		if msgUserID.Valid {
			msg.UserID = &msgUserID.String
		}
		if msgChatID.Valid {
			msg.ChatID = &msgChatID.String
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (s *sqliteStore) UpdateMessageContent(ctx context.Context, id, content string) (*model.Message, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE messages SET content = ? WHERE id = ?", content, id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, content, role, user_id, chat_id, seq, timestamp FROM messages WHERE id = ?", id)
	var msg model.Message
	var msgUserID, msgChatID sql.NullString
	if err := row.Scan(&msg.ID, &msg.Content, &msg.Role, &msgUserID, &msgChatID, &msg.Seq, &msg.Timestamp); err != nil {
		return nil, err
	}
	if msgUserID.Valid {
		msg.UserID = &msgUserID.String
	}
	if msgChatID.Valid {
		msg.ChatID = &msgChatID.String
	}
	return &msg, nil
}

// DeleteMessage is idempotent: deleting an unknown id is not an error.
func (s *sqliteStore) DeleteMessage(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM messages WHERE id = ?", id)
	return err
}

// --- Global settings ---

func (s *sqliteStore) scanSetting(row interface{ Scan(...any) error }) (*model.GlobalSetting, error) {
	var setting model.GlobalSetting
	var value, description sql.NullString
	err := row.Scan(&setting.ID, &setting.Key, &value, &description, &setting.CreatedAt, &setting.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if value.Valid {
		setting.Value = &value.String
	}
	if description.Valid {
		setting.Description = &description.String
	}
	return &setting, nil
}

func (s *sqliteStore) ListGlobalSettings(ctx context.Context) ([]*model.GlobalSetting, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, key, value, description, created_at, updated_at FROM global_settings ORDER BY key ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*model.GlobalSetting
	for rows.Next() {
		setting, err := s.scanSetting(rows)
		if err != nil {
			return nil, err
		}
		settings = append(settings, setting)
	}
	return settings, rows.Err()
}

func (s *sqliteStore) CreateGlobalSetting(ctx context.Context, key string, value, description *string) (*model.GlobalSetting, error) {
	now := time.Now().UTC()
	setting := &model.GlobalSetting{
		ID:          uuid.NewString(),
		Key:         key,
		Value:       value,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO global_settings (id, key, value, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		setting.ID, setting.Key, setting.Value, setting.Description, setting.CreatedAt, setting.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return setting, nil
}

func (s *sqliteStore) UpdateGlobalSetting(ctx context.Context, id string, upd *model.GlobalSettingUpdate) (*model.GlobalSetting, error) {
	sets := []string{"updated_at = ?"}
	args := []any{time.Now().UTC()}
	if upd.Key != nil {
		sets = append(sets, "key = ?")
		args = append(args, *upd.Key)
	}
	if upd.Value != nil {
		sets = append(sets, "value = ?")
		args = append(args, *upd.Value)
	}
	if upd.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *upd.Description)
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, "UPDATE global_settings SET "+joinSets(sets)+" WHERE id = ?", args...)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT id, key, value, description, created_at, updated_at FROM global_settings WHERE id = ?", id)
	return s.scanSetting(row)
}

func (s *sqliteStore) DeleteGlobalSetting(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM global_settings WHERE id = ?", id)
	return err
}

// --- Admin logs & stats ---

const maxAdminLogLimit = 1000

func (s *sqliteStore) AppendAdminLog(ctx context.Context, entry *model.AdminLog) (*model.AdminLog, error) {
	stored := *entry
	stored.ID = uuid.NewString()
	stored.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO admin_logs (id, admin_id, action, target, details, ip_address, user_agent, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		stored.ID, stored.AdminID, stored.Action, stored.Target, stored.Details,
		stored.IPAddress, stored.UserAgent, stored.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

func (s *sqliteStore) ListAdminLogs(ctx context.Context, limit int) ([]*model.AdminLog, error) {
	if limit <= 0 || limit > maxAdminLogLimit {
		limit = maxAdminLogLimit
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, admin_id, action, target, details, ip_address, user_agent, created_at FROM admin_logs ORDER BY created_at DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*model.AdminLog
	for rows.Next() {
		var entry model.AdminLog
		var target, details, ipAddress, userAgent sql.NullString
		if err := rows.Scan(&entry.ID, &entry.AdminID, &entry.Action, &target,
			&details, &ipAddress, &userAgent, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if target.Valid {
			entry.Target = &target.String
		}
		if details.Valid {
			entry.Details = &details.String
		}
		if ipAddress.Valid {
			entry.IPAddress = &ipAddress.String
		}
		if userAgent.Valid {
			entry.UserAgent = &userAgent.String
		}
		logs = append(logs, &entry)
	}
	return logs, rows.Err()
}

func (s *sqliteStore) Stats(ctx context.Context) (*model.AdminStats, error) {
	var stats model.AdminStats
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&stats.TotalUsers); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE is_active = TRUE").Scan(&stats.ActiveUsers); err != nil {
		return nil, err
	}
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM messages").Scan(&stats.TotalMessages); err != nil {
		return nil, err
	}
	return &stats, nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}
