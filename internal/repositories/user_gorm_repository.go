package repositories

import (
	"fmt"
	"time"

	"brickmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with username %s not found", username)
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with email %s not found", email)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("user with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// AddPushToken registers or refreshes a device push token for the user.
func (r *GORMUserRepository) AddPushToken(userID, token string) error {
	var existing models.PushToken
	err := r.db.First(&existing, "user_id = ? AND token = ?", userID, token).Error
	if err == nil {
		existing.LastUsed = time.Now()
		if err := r.db.Save(&existing).Error; err != nil {
			return fmt.Errorf("failed to refresh push token: %w", err)
		}
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return fmt.Errorf("failed to look up push token: %w", err)
	}

	pushToken := models.PushToken{
		ID:       uuid.New().String(),
		UserID:   userID,
		Token:    token,
		LastUsed: time.Now(),
	}
	if err := r.db.Create(&pushToken).Error; err != nil {
		return fmt.Errorf("failed to add push token: %w", err)
	}
	return nil
}

// RemovePushToken deletes a device push token for the user.
func (r *GORMUserRepository) RemovePushToken(userID, token string) error {
	res := r.db.Delete(&models.PushToken{}, "user_id = ? AND token = ?", userID, token)
	if res.Error != nil {
		return fmt.Errorf("failed to remove push token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("push token not found for user %s", userID)
	}
	return nil
}

// AllLatestPushTokens returns each user's most recently used push token.
func (r *GORMUserRepository) AllLatestPushTokens() ([]models.PushToken, error) {
	var tokens []models.PushToken
	if err := r.db.Order("last_used desc").Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("failed to list push tokens: %w", err)
	}
	latest := make([]models.PushToken, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, token := range tokens {
		if seen[token.UserID] {
			continue
		}
		seen[token.UserID] = true
		latest = append(latest, token)
	}
	return latest, nil
}

// LatestPushToken returns the user's most recently used push token, or nil
// when none is registered.
func (r *GORMUserRepository) LatestPushToken(userID string) (*models.PushToken, error) {
	var token models.PushToken
	err := r.db.Where("user_id = ?", userID).Order("last_used desc").First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest push token for user %s: %w", userID, err)
	}
	return &token, nil
}
