package models

import "time"

// Session is one row of the session ledger, stored in the secondary database.
// Rows are keyed by the SHA-256 hash of the signed token, with an index on the
// user id; at most one active session per user is maintained by upserting on
// login. A blacklisted row invalidates the token before its natural expiry.
type Session struct {
	TokenHash   string    `json:"-" gorm:"primaryKey;type:varchar(64)"`
	UserID      string    `json:"user_id" gorm:"index;type:varchar(36)"`
	ExpiresAt   time.Time `json:"expires_at"`
	Blacklisted bool      `json:"blacklisted"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
