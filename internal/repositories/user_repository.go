package repositories

import "brickmart/internal/models"

// UserRepository defines the interface for user and push-token data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// AddPushToken registers a device token for the user. Re-registering an
	// existing token refreshes its LastUsed timestamp instead of inserting a
	// duplicate row.
	AddPushToken(userID, token string) error
	RemovePushToken(userID, token string) error
	// LatestPushToken returns the user's push token with the most recent
	// LastUsed, or nil when the user has none registered.
	LatestPushToken(userID string) (*models.PushToken, error)
	// AllLatestPushTokens returns one token per user that has any registered:
	// the most recently used one. Used for store-wide announcements.
	AllLatestPushTokens() ([]models.PushToken, error)
}
