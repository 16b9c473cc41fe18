package repositories

import (
	"fmt"
	"time"

	"brickmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReceiptRepository defines the interface for notification receipt data
// access. Receipts are append-mostly; the only mutation is marking them read.
type ReceiptRepository interface {
	Create(receipt *models.NotificationReceipt) error
	// ListByUserSince returns the user's receipts created after since (all of
	// them when since is the zero time), newest first.
	ListByUserSince(userID string, since time.Time) ([]models.NotificationReceipt, error)
	MarkRead(userID string, ids []string) error
}

// GORMReceiptRepository is a GORM implementation of ReceiptRepository.
type GORMReceiptRepository struct {
	db *gorm.DB
}

// NewGORMReceiptRepository creates a new instance of GORMReceiptRepository.
func NewGORMReceiptRepository(db *gorm.DB) *GORMReceiptRepository {
	return &GORMReceiptRepository{
		db: db,
	}
}

// Create inserts a new receipt.
func (r *GORMReceiptRepository) Create(receipt *models.NotificationReceipt) error {
	if receipt.ID == "" {
		receipt.ID = uuid.New().String()
	}
	if err := r.db.Create(receipt).Error; err != nil {
		return fmt.Errorf("failed to create notification receipt: %w", err)
	}
	return nil
}

// ListByUserSince retrieves the user's receipts created after since.
func (r *GORMReceiptRepository) ListByUserSince(userID string, since time.Time) ([]models.NotificationReceipt, error) {
	query := r.db.Where("user_id = ?", userID)
	if !since.IsZero() {
		query = query.Where("created_at > ?", since)
	}
	var receipts []models.NotificationReceipt
	if err := query.Order("created_at desc").Find(&receipts).Error; err != nil {
		return nil, fmt.Errorf("failed to list receipts for user %s: %w", userID, err)
	}
	return receipts, nil
}

// MarkRead flags the given receipts of the user as read.
func (r *GORMReceiptRepository) MarkRead(userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Model(&models.NotificationReceipt{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Update("read", true).Error
	if err != nil {
		return fmt.Errorf("failed to mark receipts read for user %s: %w", userID, err)
	}
	return nil
}
