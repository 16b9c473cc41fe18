package services_test

import (
	"sync"
	"testing"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
	"brickmart/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

// fakeOutboxRepository is an in-memory implementation of
// repositories.OutboxRepository.
type fakeOutboxRepository struct {
	items map[string]*models.OutboxItem
	mu    sync.Mutex
}

func newFakeOutboxRepository() *fakeOutboxRepository {
	return &fakeOutboxRepository{items: make(map[string]*models.OutboxItem)}
}

func (r *fakeOutboxRepository) add(item models.OutboxItem) *models.OutboxItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = models.OutboxPending
	}
	stored := item
	r.items[stored.ID] = &stored
	return &stored
}

func (r *fakeOutboxRepository) ListPending(limit int) ([]models.OutboxItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.OutboxItem, 0)
	for _, item := range r.items {
		if item.Status == models.OutboxPending {
			out = append(out, *item)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeOutboxRepository) PendingForOrder(orderID string) ([]models.OutboxItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.OutboxItem, 0)
	for _, item := range r.items {
		if item.OrderID == orderID && item.Status == models.OutboxPending {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeOutboxRepository) MarkDone(item *models.OutboxItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.Status = models.OutboxDone
	item.Attempts++
	item.LastError = ""
	r.items[item.ID] = item
	return nil
}

func (r *fakeOutboxRepository) MarkFailed(item *models.OutboxItem, attemptErr error, maxAttempts int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item.Attempts++
	item.LastError = attemptErr.Error()
	if item.Attempts >= maxAttempts {
		item.Status = models.OutboxDead
	}
	r.items[item.ID] = item
	return nil
}

func (r *fakeOutboxRepository) get(id string) models.OutboxItem {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.items[id]
}

func TestOutboxProcessor_StockDecrementClampsAtZero(t *testing.T) {
	outboxRepo := newFakeOutboxRepository()
	productRepo := repositories.NewMockProductRepository()
	processor := services.NewOutboxProcessor(outboxRepo, productRepo, newFakeCartRepository(), repositories.NewMockOrderRepository(), nil)

	assert.NoError(t, productRepo.Create(&models.Product{ID: "prod-1", Name: "Small Tower", Price: 9.99, Stock: 1, Category: models.CategorySet}))

	item := outboxRepo.add(models.OutboxItem{
		OrderID: "order-1",
		Kind:    models.OutboxStockDecrement,
		Payload: datatypes.JSON([]byte(`{"lines":[{"product_id":"prod-1","quantity":3}]}`)),
	})

	assert.NoError(t, processor.DispatchForOrder("order-1"))

	// Ordering more than is in stock clamps at zero instead of failing.
	product, err := productRepo.GetByID("prod-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, product.Stock)
	assert.Equal(t, models.OutboxDone, outboxRepo.get(item.ID).Status)
}

func TestOutboxProcessor_StockDecrementSkipsMissingProduct(t *testing.T) {
	outboxRepo := newFakeOutboxRepository()
	productRepo := repositories.NewMockProductRepository()
	processor := services.NewOutboxProcessor(outboxRepo, productRepo, newFakeCartRepository(), repositories.NewMockOrderRepository(), nil)

	assert.NoError(t, productRepo.Create(&models.Product{ID: "prod-1", Name: "Small Tower", Price: 9.99, Stock: 5, Category: models.CategorySet}))

	item := outboxRepo.add(models.OutboxItem{
		OrderID: "order-1",
		Kind:    models.OutboxStockDecrement,
		Payload: datatypes.JSON([]byte(`{"lines":[{"product_id":"prod-gone","quantity":1},{"product_id":"prod-1","quantity":2}]}`)),
	})

	assert.NoError(t, processor.DispatchForOrder("order-1"))

	// The missing product is skipped; the surviving line still applies.
	product, _ := productRepo.GetByID("prod-1")
	assert.Equal(t, 3, product.Stock)
	assert.Equal(t, models.OutboxDone, outboxRepo.get(item.ID).Status)
}

func TestOutboxProcessor_CartCleanup(t *testing.T) {
	outboxRepo := newFakeOutboxRepository()
	cartRepo := newFakeCartRepository()
	processor := services.NewOutboxProcessor(outboxRepo, repositories.NewMockProductRepository(), cartRepo, repositories.NewMockOrderRepository(), nil)

	assert.NoError(t, cartRepo.Create(&models.CartLine{ID: "line-1", UserID: "user-1", ProductID: "prod-1", Quantity: 1}))
	assert.NoError(t, cartRepo.Create(&models.CartLine{ID: "line-2", UserID: "user-1", ProductID: "prod-2", Quantity: 1}))

	item := outboxRepo.add(models.OutboxItem{
		OrderID: "order-1",
		Kind:    models.OutboxCartCleanup,
		Payload: datatypes.JSON([]byte(`{"user_id":"user-1","cart_line_ids":["line-1"]}`)),
	})

	assert.NoError(t, processor.DispatchForOrder("order-1"))
	assert.Equal(t, models.OutboxDone, outboxRepo.get(item.ID).Status)

	lines, _ := cartRepo.ListByUser("user-1")
	assert.Len(t, lines, 1)
	assert.Equal(t, "line-2", lines[0].ID)
}

func TestOutboxProcessor_CartCleanupFallsBackToProducts(t *testing.T) {
	outboxRepo := newFakeOutboxRepository()
	cartRepo := newFakeCartRepository()
	processor := services.NewOutboxProcessor(outboxRepo, repositories.NewMockProductRepository(), cartRepo, repositories.NewMockOrderRepository(), nil)

	assert.NoError(t, cartRepo.Create(&models.CartLine{ID: "line-1", UserID: "user-1", ProductID: "prod-1", Quantity: 1}))

	// No cart line ids recorded; cleanup falls back to the product set.
	outboxRepo.add(models.OutboxItem{
		OrderID: "order-1",
		Kind:    models.OutboxCartCleanup,
		Payload: datatypes.JSON([]byte(`{"user_id":"user-1","product_ids":["prod-1"]}`)),
	})

	assert.NoError(t, processor.DispatchForOrder("order-1"))
	lines, _ := cartRepo.ListByUser("user-1")
	assert.Empty(t, lines)
}

func TestOutboxProcessor_DeadLetterAfterExhaustedAttempts(t *testing.T) {
	outboxRepo := newFakeOutboxRepository()
	cartRepo := newFakeCartRepository()
	cartRepo.failDeletes = true
	processor := services.NewOutboxProcessor(outboxRepo, repositories.NewMockProductRepository(), cartRepo, repositories.NewMockOrderRepository(), nil)

	item := outboxRepo.add(models.OutboxItem{
		OrderID: "order-1",
		Kind:    models.OutboxCartCleanup,
		Payload: datatypes.JSON([]byte(`{"user_id":"user-1","cart_line_ids":["line-1"]}`)),
	})

	for i := 0; i < 5; i++ {
		assert.NoError(t, processor.ProcessPending(10))
	}

	dead := outboxRepo.get(item.ID)
	assert.Equal(t, models.OutboxDead, dead.Status)
	assert.Equal(t, 5, dead.Attempts)
	assert.Contains(t, dead.LastError, "cart database is down")

	// Dead items are no longer picked up.
	pending, _ := outboxRepo.ListPending(10)
	assert.Empty(t, pending)
}

func TestOutboxProcessor_MalformedPayloadFails(t *testing.T) {
	outboxRepo := newFakeOutboxRepository()
	processor := services.NewOutboxProcessor(outboxRepo, repositories.NewMockProductRepository(), newFakeCartRepository(), repositories.NewMockOrderRepository(), nil)

	item := outboxRepo.add(models.OutboxItem{
		OrderID: "order-1",
		Kind:    models.OutboxStockDecrement,
		Payload: datatypes.JSON([]byte(`not-json`)),
	})

	assert.NoError(t, processor.DispatchForOrder("order-1"))
	failed := outboxRepo.get(item.ID)
	assert.Equal(t, models.OutboxPending, failed.Status)
	assert.Equal(t, 1, failed.Attempts)
	assert.Contains(t, failed.LastError, "malformed")
}

func TestOutboxProcessor_NotifyPlacedLooksUpOrder(t *testing.T) {
	outboxRepo := newFakeOutboxRepository()
	orderRepo := repositories.NewMockOrderRepository()
	processor := services.NewOutboxProcessor(outboxRepo, repositories.NewMockProductRepository(), newFakeCartRepository(), orderRepo, nil)

	order := &models.Order{OrderNumber: "ORD-1", UserID: "user-1", Status: models.StatusPending}
	assert.NoError(t, orderRepo.Create(order))

	item := outboxRepo.add(models.OutboxItem{
		OrderID: order.ID,
		Kind:    models.OutboxNotifyPlaced,
		Payload: datatypes.JSON([]byte(`{"user_id":"user-1","order_id":"` + order.ID + `"}`)),
	})

	assert.NoError(t, processor.DispatchForOrder(order.ID))
	assert.Equal(t, models.OutboxDone, outboxRepo.get(item.ID).Status)

	// A notify item for a vanished order keeps failing instead of silently
	// completing.
	ghost := outboxRepo.add(models.OutboxItem{
		OrderID: "order-ghost",
		Kind:    models.OutboxNotifyPlaced,
		Payload: datatypes.JSON([]byte(`{"user_id":"user-1","order_id":"order-ghost"}`)),
	})
	assert.NoError(t, processor.DispatchForOrder("order-ghost"))
	assert.Equal(t, models.OutboxPending, outboxRepo.get(ghost.ID).Status)
	assert.Contains(t, outboxRepo.get(ghost.ID).LastError, "not found")
}
