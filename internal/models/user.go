package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles a user account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer or administrator of the store.
type User struct {
	ID         string      `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username   string      `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email      string      `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password   string      `gorm:"type:varchar(255)" validate:"required,min=6"` // No json tag for security
	Role       string      `json:"role" gorm:"type:varchar(20);default:user"`
	PushTokens []PushToken `json:"-" gorm:"foreignKey:UserID"`
	gorm.Model             // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// PushToken is an opaque device identifier registered with the push gateway.
// LastUsed is refreshed every time the client re-registers the same token, and
// drives the "most recently used token" selection when addressing a push.
type PushToken struct {
	ID       string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID   string    `json:"user_id" gorm:"index;type:varchar(36)"`
	Token    string    `json:"token" gorm:"type:varchar(255)"`
	LastUsed time.Time `json:"last_used"`
}
