package repositories

import (
	"fmt"
	"sync"
	"time"

	"brickmart/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	outbox map[string]models.OutboxItem
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
		outbox: make(map[string]models.OutboxItem),
	}
}

// ListByUser returns all orders belonging to the user.
func (r *MockOrderRepository) ListByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0)
	for _, order := range r.orders {
		if order.UserID == userID {
			orderList = append(orderList, order)
		}
	}
	return orderList, nil
}

// GetForUser returns an order by id or order number, scoped to the user.
func (r *MockOrderRepository) GetForUser(idOrNumber, userID string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.UserID == userID && (order.ID == idOrNumber || order.OrderNumber == idOrNumber) {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order with ID %s not found", idOrNumber)
}

// FindByNumber returns the first order matching the id or order number.
func (r *MockOrderRepository) FindByNumber(idOrNumber string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.ID == idOrNumber || order.OrderNumber == idOrNumber {
			o := order
			return &o, nil
		}
	}
	return nil, fmt.Errorf("order with ID %s not found", idOrNumber)
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// CreateWithOutbox adds a new order together with its outbox items.
func (r *MockOrderRepository) CreateWithOutbox(order *models.Order, items []models.OutboxItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order

	for i := range items {
		items[i].OrderID = order.ID
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
		if items[i].Status == "" {
			items[i].Status = models.OutboxPending
		}
		r.outbox[items[i].ID] = items[i]
	}
	return nil
}

// Update replaces an existing order.
func (r *MockOrderRepository) Update(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.orders[order.ID]
	if !ok {
		return fmt.Errorf("order with ID %s not found for update", order.ID)
	}
	order.UpdatedAt = time.Now()
	r.orders[order.ID] = *order
	return nil
}

// HasDeliveredWithProduct reports whether a delivered order of the user
// contains the product.
func (r *MockOrderRepository) HasDeliveredWithProduct(userID, productID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.UserID != userID || order.Status != models.StatusDelivered {
			continue
		}
		for _, item := range order.Items {
			if item.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// OutboxItems returns the outbox items recorded for an order. Test helper.
func (r *MockOrderRepository) OutboxItems(orderID string) []models.OutboxItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]models.OutboxItem, 0)
	for _, item := range r.outbox {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items
}
