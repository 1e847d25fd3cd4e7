package model

import "time"

// Theme colors a user can pick. Stored as plain strings so the schema
// CHECK constraint and this list must stay in sync.
const (
	ThemeBlue  = "blue"
	ThemeGreen = "green"
	ThemeRed   = "red"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// User is an authenticated account. APIKey holds the decrypted Gemini
// credential when read through the store; it is sealed at rest and must
// never be logged.
type User struct {
	ID              string     `json:"id"`
	Email           *string    `json:"email,omitempty"`
	FirstName       *string    `json:"first_name,omitempty"`
	LastName        *string    `json:"last_name,omitempty"`
	ProfileImageURL *string    `json:"profile_image_url,omitempty"`
	APIKey          *string    `json:"gemini_api_key,omitempty"`
	ThemeColor      string     `json:"theme_color"`
	IsAdmin         bool       `json:"is_admin"`
	IsActive        bool       `json:"is_active"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// UpsertUser carries the identity fields the auth collaborator knows about
// a user at login time. Nil fields are left untouched on an existing row.
type UpsertUser struct {
	ID              string  `json:"id"`
	Email           *string `json:"email,omitempty"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
}

// ProfileUpdate is the self-service partial update a user may apply to
// their own record.
type ProfileUpdate struct {
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	ThemeColor      *string `json:"theme_color,omitempty"`
}

// UserUpdate is the admin-surface partial update. It is a superset of
// ProfileUpdate; the id, credential and timestamps are not updatable here.
type UserUpdate struct {
	Email           *string `json:"email,omitempty"`
	FirstName       *string `json:"first_name,omitempty"`
	LastName        *string `json:"last_name,omitempty"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	ThemeColor      *string `json:"theme_color,omitempty"`
	IsAdmin         *bool   `json:"is_admin,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

// Chat stores metadata about a conversation thread.
type Chat struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single message. UserID and ChatID are optional: legacy
// rows predate per-chat scoping. Seq is a per-chat monotonic sequence
// that breaks timestamp ties under concurrent inserts.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      string    `json:"role"`
	UserID    *string   `json:"user_id,omitempty"`
	ChatID    *string   `json:"chat_id,omitempty"`
	Seq       int64     `json:"-"`
	Timestamp time.Time `json:"timestamp"`
}

// GlobalSetting is a free-form key/value pair managed by admins.
// Consumers interpret the value; the store only enforces key uniqueness.
type GlobalSetting struct {
	ID          string    `json:"id"`
	Key         string    `json:"key"`
	Value       *string   `json:"value,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GlobalSettingUpdate is a partial update for a setting. The key itself
// may be changed but stays unique.
type GlobalSettingUpdate struct {
	Key         *string `json:"key,omitempty"`
	Value       *string `json:"value,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AdminLog is an append-only audit record of a privileged mutation.
// Target may dangle after the referenced entity is deleted.
type AdminLog struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"admin_id"`
	Action    string    `json:"action"`
	Target    *string   `json:"target,omitempty"`
	Details   *string   `json:"details,omitempty"`
	IPAddress *string   `json:"ip_address,omitempty"`
	UserAgent *string   `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminStats are the simple counts shown on the admin dashboard.
type AdminStats struct {
	TotalUsers    int64 `json:"total_users"`
	ActiveUsers   int64 `json:"active_users"`
	TotalMessages int64 `json:"total_messages"`
}

// SendResult is the payload returned by a successful message send: the
// persisted user message and the persisted assistant reply.
type SendResult struct {
	UserMessage      *Message `json:"user_message"`
	AssistantMessage *Message `json:"assistant_message"`
}

// ValidTheme reports whether s is one of the supported theme colors.
func ValidTheme(s string) bool {
	switch s {
	case ThemeBlue, ThemeGreen, ThemeRed:
		return true
	}
	return false
}
