package repositories

import (
	"fmt"

	"brickmart/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartRepository defines the interface for cart line data access. Cart lines
// live in the secondary database, separate from the catalog and order store.
type CartRepository interface {
	ListByUser(userID string) ([]models.CartLine, error)
	GetByID(id string) (*models.CartLine, error)
	FindByUserProduct(userID, productID string) (*models.CartLine, error)
	Create(line *models.CartLine) error
	Update(line *models.CartLine) error
	Delete(id string) error
	DeleteByUser(userID string) error
	// DeleteByIDs removes the user's cart lines by row id; DeleteByProducts by
	// product id set. Both are used by the post-checkout cleanup.
	DeleteByIDs(userID string, ids []string) error
	DeleteByProducts(userID string, productIDs []string) error
}

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// ListByUser retrieves all cart lines belonging to the user.
func (r *GORMCartRepository) ListByUser(userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Where("user_id = ?", userID).Order("created_at asc").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart lines for user %s: %w", userID, err)
	}
	return lines, nil
}

// GetByID retrieves a single cart line by its row id.
func (r *GORMCartRepository) GetByID(id string) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.First(&line, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart line with ID %s not found", id)
		}
		return nil, fmt.Errorf("failed to get cart line %s: %w", id, err)
	}
	return &line, nil
}

// FindByUserProduct retrieves the user's cart line for a product, if any.
func (r *GORMCartRepository) FindByUserProduct(userID, productID string) (*models.CartLine, error) {
	var line models.CartLine
	err := r.db.First(&line, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart line for product %s not found", productID)
		}
		return nil, fmt.Errorf("failed to find cart line for product %s: %w", productID, err)
	}
	return &line, nil
}

// Create inserts a new cart line.
func (r *GORMCartRepository) Create(line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// Update saves a changed cart line.
func (r *GORMCartRepository) Update(line *models.CartLine) error {
	res := r.db.Save(line)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %s not found for update", line.ID)
	}
	return nil
}

// Delete removes a cart line by its row id.
func (r *GORMCartRepository) Delete(id string) error {
	res := r.db.Delete(&models.CartLine{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart line with ID %s not found for deletion", id)
	}
	return nil
}

// DeleteByUser removes all of the user's cart lines.
func (r *GORMCartRepository) DeleteByUser(userID string) error {
	if err := r.db.Delete(&models.CartLine{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to clear cart for user %s: %w", userID, err)
	}
	return nil
}

// DeleteByIDs removes the user's cart lines matching the row ids.
func (r *GORMCartRepository) DeleteByIDs(userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := r.db.Delete(&models.CartLine{}, "user_id = ? AND id IN ?", userID, ids).Error; err != nil {
		return fmt.Errorf("failed to delete cart lines by id for user %s: %w", userID, err)
	}
	return nil
}

// DeleteByProducts removes the user's cart lines matching the product ids.
func (r *GORMCartRepository) DeleteByProducts(userID string, productIDs []string) error {
	if len(productIDs) == 0 {
		return nil
	}
	if err := r.db.Delete(&models.CartLine{}, "user_id = ? AND product_id IN ?", userID, productIDs).Error; err != nil {
		return fmt.Errorf("failed to delete cart lines by product for user %s: %w", userID, err)
	}
	return nil
}
