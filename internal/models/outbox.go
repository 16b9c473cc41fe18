package models

import (
	"time"

	"gorm.io/datatypes"
)

// Outbox item kinds, one per order side effect.
const (
	OutboxStockDecrement = "stock.decrement"
	OutboxCartCleanup    = "cart.cleanup"
	OutboxNotifyPlaced   = "notify.order_placed"
)

// Outbox item statuses.
const (
	OutboxPending = "pending"
	OutboxDone    = "done"
	OutboxDead    = "dead"
)

// OutboxItem is a pending order side effect, written in the same transaction
// as the order itself so partial failure is observable and recoverable. Items
// are dispatched right after commit and retried by a background processor;
// after the attempt budget is exhausted they are marked dead.
type OutboxItem struct {
	ID        string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string         `json:"order_id" gorm:"index;type:varchar(36)"`
	Kind      string         `json:"kind" gorm:"type:varchar(32)"`
	Payload   datatypes.JSON `json:"payload" gorm:"type:json"`
	Status    string         `json:"status" gorm:"index;type:varchar(16);default:pending"`
	Attempts  int            `json:"attempts"`
	LastError string         `json:"last_error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
