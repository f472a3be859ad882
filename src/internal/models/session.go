package models

import "time"

// Session is the record the identity provider keeps for a logged-in user.
// This service never writes sessions; it reads them over HTTP and caches them.
type Session struct {
	SessionID    string     `json:"session_id"`
	UserID       string     `json:"user_id"`
	IsActive     bool       `json:"is_active"`
	ExpiresAt    time.Time  `json:"expires_at"`
	CreatedAt    time.Time  `json:"created_at"`
	LogoutAt     *time.Time `json:"logout_at,omitempty"`
	LastActiveAt time.Time  `json:"last_active_at"`
}
