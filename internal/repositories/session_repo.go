package repositories

import (
	"fmt"
	"time"

	"brickmart/internal/models"

	"gorm.io/gorm"
)

// SessionRepository defines the interface for the session ledger, stored in
// the secondary database alongside cart lines.
type SessionRepository interface {
	// ReplaceForUser installs the session as the user's single active one:
	// within one transaction it drops the user's other non-blacklisted rows
	// and inserts the new row.
	ReplaceForUser(session *models.Session) error
	GetByHash(tokenHash string) (*models.Session, error)
	// Blacklist marks the row invalid; when no row exists it inserts one
	// already blacklisted, so a logged-out token stays dead even if the login
	// write was lost.
	Blacklist(session *models.Session) error
	DeleteExpired(now time.Time) (int64, error)
}

// GORMSessionRepository is a GORM implementation of SessionRepository.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository.
func NewGORMSessionRepository(db *gorm.DB) *GORMSessionRepository {
	return &GORMSessionRepository{
		db: db,
	}
}

// ReplaceForUser atomically replaces the user's active session rows with the
// given one.
func (r *GORMSessionRepository) ReplaceForUser(session *models.Session) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Session{},
			"user_id = ? AND blacklisted = ?", session.UserID, false).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace session for user %s: %w", session.UserID, err)
	}
	return nil
}

// GetByHash retrieves a session row by token hash.
func (r *GORMSessionRepository) GetByHash(tokenHash string) (*models.Session, error) {
	var session models.Session
	if err := r.db.First(&session, "token_hash = ?", tokenHash).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("session not found")
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// Blacklist marks the session invalid, inserting the row if it is missing.
func (r *GORMSessionRepository) Blacklist(session *models.Session) error {
	session.Blacklisted = true
	res := r.db.Model(&models.Session{}).
		Where("token_hash = ?", session.TokenHash).
		Update("blacklisted", true)
	if res.Error != nil {
		return fmt.Errorf("failed to blacklist session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if err := r.db.Create(session).Error; err != nil {
			return fmt.Errorf("failed to synthesize blacklisted session: %w", err)
		}
	}
	return nil
}

// DeleteExpired removes all session rows whose expiry is in the past.
func (r *GORMSessionRepository) DeleteExpired(now time.Time) (int64, error) {
	res := r.db.Delete(&models.Session{}, "expires_at < ?", now)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to sweep expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
