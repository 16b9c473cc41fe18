package repositories

import (
	"brickmart/internal/models"
)

// OrderRepository defines the interface for order data access.
//
// Order numbers are caller-supplied and not unique; lookups by number return
// the first match, which is arbitrary when duplicates exist.
type OrderRepository interface {
	ListByUser(userID string) ([]models.Order, error)
	// GetForUser returns the order whose database id or order number matches
	// idOrNumber and which belongs to userID.
	GetForUser(idOrNumber, userID string) (*models.Order, error)
	// FindByNumber returns the first order matching the given database id or
	// order number, regardless of owner. Used by the admin status update.
	FindByNumber(idOrNumber string) (*models.Order, error)
	Create(order *models.Order) error
	// CreateWithOutbox persists the order and its pending side-effect items
	// in a single transaction.
	CreateWithOutbox(order *models.Order, items []models.OutboxItem) error
	Update(order *models.Order) error
	// HasDeliveredWithProduct reports whether the user has a delivered order
	// containing the product. Gates review creation.
	HasDeliveredWithProduct(userID, productID string) (bool, error)
}
