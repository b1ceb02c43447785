package models

import "time"

// Account event types.
const (
	EventUserRegistered      = "user.registered"
	EventUserVerified        = "user.verified"
	EventUserLogin           = "user.login"
	EventUserPasswordReset   = "user.password_reset"
	EventUserPasswordChanged = "user.password_changed"
)

// AccountEvent records a lifecycle transition of a user account.
type AccountEvent struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"` // e.g., "user.registered", "user.login"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
