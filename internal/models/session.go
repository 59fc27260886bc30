package models

import "time"

// SessionRecord maps a user identity to its single active session id.
// At most one session id is registered per user at any time; a later
// registration overwrites rather than merges.
type SessionRecord struct {
	UserID    string    `db:"user_id"`
	SessionID string    `db:"session_id"`
	UpdatedAt time.Time `db:"updated_at"`
}
