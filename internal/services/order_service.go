package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
	"brickmart/pkg/rabbitmq"

	"github.com/google/uuid"
)

// MessagePublisher publishes order events to the message broker.
// *rabbitmq.Client satisfies it.
type MessagePublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// OrderService handles the order workflow: checkout persists the order
// snapshot together with its pending side effects in one transaction, then
// dispatches the side effects best-effort. The caller sees the order as
// created as soon as the transaction commits; side-effect outcomes never
// change the response.
type OrderService struct {
	orderRepo repositories.OrderRepository
	processor *OutboxProcessor
	notifier  *NotificationService
	mqClient  MessagePublisher
}

// NewOrderService creates a new OrderService. The processor, notifier and
// mqClient may each be nil; the corresponding side effects are then skipped.
func NewOrderService(orderRepo repositories.OrderRepository, processor *OutboxProcessor, notifier *NotificationService, mqClient MessagePublisher) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		processor: processor,
		notifier:  notifier,
		mqClient:  mqClient,
	}
}

// CreateOrderInput carries a checkout request. Subtotal, shipping fee, tax and
// total are taken from the caller as-is; the server does not recompute or
// cross-check them. OrderNumber is the caller-supplied order id and is not
// checked for uniqueness against existing orders.
type CreateOrderInput struct {
	OrderNumber   string
	UserID        string
	Items         []models.OrderItem
	Shipping      models.ShippingDetails
	PaymentMethod string
	Subtotal      float64
	ShippingFee   float64
	Tax           float64
	Total         float64
}

// ListOrders retrieves the user's orders.
func (s *OrderService) ListOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}

// GetOrder retrieves one of the user's orders by id or order number.
func (s *OrderService) GetOrder(idOrNumber, userID string) (*models.Order, error) {
	return s.orderRepo.GetForUser(idOrNumber, userID)
}

// CreateOrder persists the order with status pending plus one outbox item per
// side effect (stock decrement, cart cleanup, order-placed notification),
// atomically, then dispatches the items. Dispatch failures are logged and
// retried by the background processor; they never fail the checkout.
func (s *OrderService) CreateOrder(input CreateOrderInput) (*models.Order, error) {
	order := &models.Order{
		ID:            uuid.New().String(),
		OrderNumber:   input.OrderNumber,
		UserID:        input.UserID,
		Items:         input.Items,
		Shipping:      input.Shipping,
		PaymentMethod: input.PaymentMethod,
		Subtotal:      input.Subtotal,
		ShippingFee:   input.ShippingFee,
		Tax:           input.Tax,
		Total:         input.Total,
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	outboxItems, err := buildOutboxItems(order)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.CreateWithOutbox(order, outboxItems); err != nil {
		return nil, fmt.Errorf("failed to create order in repository: %w", err)
	}

	if s.processor != nil {
		if err := s.processor.DispatchForOrder(order.ID); err != nil {
			log.Printf("Warning: outbox dispatch for order %s failed, background processor will retry: %v", order.ID, err)
		}
	}

	s.publishEvent("order.created", order, "")

	return order, nil
}

// buildOutboxItems derives the pending side effects from the order snapshot.
func buildOutboxItems(order *models.Order) ([]models.OutboxItem, error) {
	stockLines := make([]stockDecrementLine, 0, len(order.Items))
	cartLineIDs := make([]string, 0, len(order.Items))
	productIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		stockLines = append(stockLines, stockDecrementLine{ProductID: item.ProductID, Quantity: item.Quantity})
		productIDs = append(productIDs, item.ProductID)
		if item.CartLineID != "" {
			cartLineIDs = append(cartLineIDs, item.CartLineID)
		}
	}

	stockPayload, err := json.Marshal(stockDecrementPayload{Lines: stockLines})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal stock payload: %w", err)
	}
	cartPayload, err := json.Marshal(cartCleanupPayload{
		UserID:      order.UserID,
		CartLineIDs: cartLineIDs,
		ProductIDs:  productIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart payload: %w", err)
	}
	notifyPayload, err := json.Marshal(notifyPlacedPayload{UserID: order.UserID, OrderID: order.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notify payload: %w", err)
	}

	return []models.OutboxItem{
		{Kind: models.OutboxStockDecrement, Payload: stockPayload},
		{Kind: models.OutboxCartCleanup, Payload: cartPayload},
		{Kind: models.OutboxNotifyPlaced, Payload: notifyPayload},
	}, nil
}

// StatusUpdate is the outcome of an admin status transition.
type StatusUpdate struct {
	Order            *models.Order
	NotificationSent bool
	PreviousStatus   string
}

// UpdateOrderStatus overwrites the order's status. DeliveredAt and CancelledAt
// are stamped only on the first transition into their state; repeating a
// transition keeps the original timestamp. The transition receipt and push
// are each independently best-effort and never undo the committed write.
func (s *OrderService) UpdateOrderStatus(idOrNumber, status string) (*StatusUpdate, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}

	order, err := s.orderRepo.FindByNumber(idOrNumber)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	order.Status = status
	now := time.Now()
	if status == models.StatusDelivered && order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}
	if status == models.StatusCancelled && order.CancelledAt == nil {
		order.CancelledAt = &now
	}
	order.UpdatedAt = now

	if err := s.orderRepo.Update(order); err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", idOrNumber, err)
	}

	sent := false
	if s.notifier != nil {
		sent = s.notifier.NotifyOrderStatus(order, previous)
	}

	s.publishEvent("order.status_changed", order, previous)

	return &StatusUpdate{
		Order:            order,
		NotificationSent: sent,
		PreviousStatus:   previous,
	}, nil
}

// publishEvent emits an order event to the broker, best-effort. A missing
// client or a publish failure is logged and otherwise ignored.
func (s *OrderService) publishEvent(routingKey string, order *models.Order, previousStatus string) {
	if s.mqClient == nil {
		log.Println("Message broker client is not initialized. Skipping event publication.")
		return
	}

	event := map[string]interface{}{
		"orderID":     order.ID,
		"orderNumber": order.OrderNumber,
		"userID":      order.UserID,
		"status":      order.Status,
		"total":       order.Total,
	}
	if previousStatus != "" {
		event["previousStatus"] = previousStatus
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal order event: %v", err)
		return
	}
	if err := s.mqClient.Publish(rabbitmq.OrderExchange, routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", routingKey, order.ID, err)
	} else {
		log.Printf("Successfully published %s event for order %s", routingKey, order.ID)
	}
}
