package models

import "time"

// NotificationReceipt mirrors a notification attempt. Receipts are polled by
// clients as a fallback channel and are purely additive: the order workflow
// never reads them back for correctness.
type NotificationReceipt struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"user_id" gorm:"index;type:varchar(36)"`
	OrderID        string    `json:"order_id,omitempty" gorm:"type:varchar(36)"`
	ProductID      string    `json:"product_id,omitempty" gorm:"type:varchar(36)"`
	Status         string    `json:"status" gorm:"type:varchar(20)"`
	PreviousStatus string    `json:"previous_status,omitempty" gorm:"type:varchar(20)"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Read           bool      `json:"read"`
	ForceShow      bool      `json:"force_show"`
	DedupID        string    `json:"dedup_id" gorm:"type:varchar(64)"`
	CreatedAt      time.Time `json:"created_at"`
}
