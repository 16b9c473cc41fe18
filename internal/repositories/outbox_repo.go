package repositories

import (
	"fmt"

	"brickmart/internal/models"

	"gorm.io/gorm"
)

// OutboxRepository defines the interface for pending side-effect items. Items
// are created inside the order transaction (see OrderRepository); this
// repository only reads and advances them.
type OutboxRepository interface {
	ListPending(limit int) ([]models.OutboxItem, error)
	PendingForOrder(orderID string) ([]models.OutboxItem, error)
	MarkDone(item *models.OutboxItem) error
	// MarkFailed records the attempt and its error; once attempts reach
	// maxAttempts the item is dead-lettered instead of staying pending.
	MarkFailed(item *models.OutboxItem, attemptErr error, maxAttempts int) error
}

// GORMOutboxRepository is a GORM implementation of OutboxRepository.
type GORMOutboxRepository struct {
	db *gorm.DB
}

// NewGORMOutboxRepository creates a new instance of GORMOutboxRepository.
func NewGORMOutboxRepository(db *gorm.DB) *GORMOutboxRepository {
	return &GORMOutboxRepository{
		db: db,
	}
}

// ListPending retrieves up to limit pending items, oldest first.
func (r *GORMOutboxRepository) ListPending(limit int) ([]models.OutboxItem, error) {
	var items []models.OutboxItem
	query := r.db.Where("status = ?", models.OutboxPending).Order("created_at asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending outbox items: %w", err)
	}
	return items, nil
}

// PendingForOrder retrieves the pending items of one order, oldest first.
func (r *GORMOutboxRepository) PendingForOrder(orderID string) ([]models.OutboxItem, error) {
	var items []models.OutboxItem
	err := r.db.Where("order_id = ? AND status = ?", orderID, models.OutboxPending).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending outbox items for order %s: %w", orderID, err)
	}
	return items, nil
}

// MarkDone records a successfully dispatched item.
func (r *GORMOutboxRepository) MarkDone(item *models.OutboxItem) error {
	item.Status = models.OutboxDone
	item.Attempts++
	item.LastError = ""
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to mark outbox item %s done: %w", item.ID, err)
	}
	return nil
}

// MarkFailed records a failed attempt, dead-lettering the item when the
// attempt budget is exhausted.
func (r *GORMOutboxRepository) MarkFailed(item *models.OutboxItem, attemptErr error, maxAttempts int) error {
	item.Attempts++
	item.LastError = attemptErr.Error()
	if item.Attempts >= maxAttempts {
		item.Status = models.OutboxDead
	}
	if err := r.db.Save(item).Error; err != nil {
		return fmt.Errorf("failed to mark outbox item %s failed: %w", item.ID, err)
	}
	return nil
}
