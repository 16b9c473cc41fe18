package services

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
)

// defaultMaxAttempts is the dispatch budget per outbox item before it is
// dead-lettered.
const defaultMaxAttempts = 5

// Outbox payload shapes, one per item kind.
type stockDecrementLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type stockDecrementPayload struct {
	Lines []stockDecrementLine `json:"lines"`
}

type cartCleanupPayload struct {
	UserID      string   `json:"user_id"`
	CartLineIDs []string `json:"cart_line_ids,omitempty"`
	ProductIDs  []string `json:"product_ids,omitempty"`
}

type notifyPlacedPayload struct {
	UserID  string `json:"user_id"`
	OrderID string `json:"order_id"`
}

// OutboxProcessor dispatches the pending side effects recorded alongside each
// order: stock decrements, cart cleanup and the order-placed notification.
// Items are retried until they succeed or exhaust the attempt budget; a dead
// item stays queryable with its last error instead of being silently dropped.
type OutboxProcessor struct {
	outboxRepo  repositories.OutboxRepository
	productRepo repositories.ProductRepository
	cartRepo    repositories.CartRepository
	orderRepo   repositories.OrderRepository
	notifier    *NotificationService
	maxAttempts int
}

// NewOutboxProcessor creates a new OutboxProcessor.
func NewOutboxProcessor(
	outboxRepo repositories.OutboxRepository,
	productRepo repositories.ProductRepository,
	cartRepo repositories.CartRepository,
	orderRepo repositories.OrderRepository,
	notifier *NotificationService,
) *OutboxProcessor {
	return &OutboxProcessor{
		outboxRepo:  outboxRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
		orderRepo:   orderRepo,
		notifier:    notifier,
		maxAttempts: defaultMaxAttempts,
	}
}

// DispatchForOrder dispatches the pending items of one order, typically right
// after the order transaction commits. Failures are recorded on the item and
// left for the next ProcessPending pass.
func (p *OutboxProcessor) DispatchForOrder(orderID string) error {
	items, err := p.outboxRepo.PendingForOrder(orderID)
	if err != nil {
		return err
	}
	for i := range items {
		p.dispatch(&items[i])
	}
	return nil
}

// ProcessPending dispatches up to limit pending items across all orders. Run
// on a fixed interval from main.
func (p *OutboxProcessor) ProcessPending(limit int) error {
	items, err := p.outboxRepo.ListPending(limit)
	if err != nil {
		return err
	}
	for i := range items {
		p.dispatch(&items[i])
	}
	return nil
}

func (p *OutboxProcessor) dispatch(item *models.OutboxItem) {
	if err := p.apply(item); err != nil {
		log.Printf("Outbox item %s (%s) attempt %d failed: %v", item.ID, item.Kind, item.Attempts+1, err)
		if markErr := p.outboxRepo.MarkFailed(item, err, p.maxAttempts); markErr != nil {
			log.Printf("Failed to record outbox failure for item %s: %v", item.ID, markErr)
		}
		if item.Status == models.OutboxDead {
			log.Printf("Outbox item %s (%s) dead-lettered after %d attempts", item.ID, item.Kind, item.Attempts)
		}
		return
	}
	if err := p.outboxRepo.MarkDone(item); err != nil {
		log.Printf("Failed to mark outbox item %s done: %v", item.ID, err)
	}
}

func (p *OutboxProcessor) apply(item *models.OutboxItem) error {
	switch item.Kind {
	case models.OutboxStockDecrement:
		var payload stockDecrementPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return fmt.Errorf("malformed stock decrement payload: %w", err)
		}
		for _, line := range payload.Lines {
			if err := p.productRepo.DecrementStock(line.ProductID, line.Quantity); err != nil {
				if strings.Contains(err.Error(), "not found") {
					// Missing products are skipped, not failed.
					log.Printf("Skipping stock decrement for missing product %s", line.ProductID)
					continue
				}
				return err
			}
		}
		return nil

	case models.OutboxCartCleanup:
		var payload cartCleanupPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return fmt.Errorf("malformed cart cleanup payload: %w", err)
		}
		if len(payload.CartLineIDs) > 0 {
			return p.cartRepo.DeleteByIDs(payload.UserID, payload.CartLineIDs)
		}
		return p.cartRepo.DeleteByProducts(payload.UserID, payload.ProductIDs)

	case models.OutboxNotifyPlaced:
		var payload notifyPlacedPayload
		if err := json.Unmarshal(item.Payload, &payload); err != nil {
			return fmt.Errorf("malformed notify payload: %w", err)
		}
		order, err := p.orderRepo.FindByNumber(payload.OrderID)
		if err != nil {
			return err
		}
		if p.notifier != nil {
			// Push and receipt failures are caught inside the side channel;
			// dispatching is what this item guarantees.
			p.notifier.NotifyOrderPlaced(order)
		}
		return nil

	default:
		return fmt.Errorf("unknown outbox item kind %s", item.Kind)
	}
}
