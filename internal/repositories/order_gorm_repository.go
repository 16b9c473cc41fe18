package repositories

import (
	"fmt"

	"brickmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// ListByUser retrieves all orders belonging to the user, newest first.
func (r *GORMOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders for user %s: %w", userID, err)
	}
	return orders, nil
}

// GetForUser retrieves an order by database id or order number, scoped to the
// owning user.
func (r *GORMOrderRepository) GetForUser(idOrNumber, userID string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").
		Where("user_id = ? AND (id = ? OR order_number = ?)", userID, idOrNumber, idOrNumber).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", idOrNumber)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", idOrNumber, err)
	}
	return &order, nil
}

// FindByNumber retrieves the first order matching the id or order number.
func (r *GORMOrderRepository) FindByNumber(idOrNumber string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").
		Where("id = ? OR order_number = ?", idOrNumber, idOrNumber).
		First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order with ID %s not found", idOrNumber)
		}
		return nil, fmt.Errorf("failed to find order %s: %w", idOrNumber, err)
	}
	return &order, nil
}

// Create persists a new order with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// CreateWithOutbox persists the order and its outbox items atomically. A crash
// after commit leaves the pending items for the background processor; a crash
// before commit leaves nothing.
func (r *GORMOrderRepository) CreateWithOutbox(order *models.Order, items []models.OutboxItem) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if items[i].ID == "" {
				items[i].ID = uuid.New().String()
			}
			if items[i].Status == "" {
				items[i].Status = models.OutboxPending
			}
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order with outbox: %w", err)
	}
	return nil
}

// Update saves changed order fields (status, timestamps).
func (r *GORMOrderRepository) Update(order *models.Order) error {
	res := r.db.Omit("Items").Save(order)
	if res.Error != nil {
		return fmt.Errorf("failed to update order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	return nil
}

// HasDeliveredWithProduct checks for a delivered order of the user containing
// the product.
func (r *GORMOrderRepository) HasDeliveredWithProduct(userID, productID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Order{}).
		Joins("JOIN order_items ON order_items.order_id = orders.id").
		Where("orders.user_id = ? AND orders.status = ? AND order_items.product_id = ?",
			userID, models.StatusDelivered, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check delivered orders for user %s: %w", userID, err)
	}
	return count > 0, nil
}
