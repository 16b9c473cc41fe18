package models

import "time"

// Order statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// ValidStatus reports whether status is one of the known order statuses.
// Any valid status may follow any other; there is no transition table.
func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// OrderItem represents a single line within an order. Price is the unit price
// at the time of order, supplied by the caller. CartLineID, when present,
// identifies the cart row this line came from and drives cart cleanup.
type OrderItem struct {
	ID         uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID    string  `json:"-" gorm:"index;type:varchar(36)"`
	ProductID  string  `json:"product_id" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gte=1"`
	Price      float64 `json:"price"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	CartLineID string  `json:"cart_line_id,omitempty" gorm:"type:varchar(36)"`
}

// ShippingDetails is the shipping snapshot captured at checkout.
type ShippingDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
}

// Order represents a customer order. OrderNumber is the caller-supplied order
// id; it is not enforced unique, so resubmitting the same number creates a
// second document with a distinct database ID. Subtotal, shipping fee, tax and
// total are stored exactly as supplied by the caller and never recomputed.
type Order struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber   string          `json:"order_number" gorm:"index;type:varchar(64)"`
	UserID        string          `json:"user_id" gorm:"index;type:varchar(36)"`
	Items         []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	Shipping      ShippingDetails `json:"shipping_details" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod string          `json:"payment_method" gorm:"type:varchar(50)"`
	Subtotal      float64         `json:"subtotal"`
	ShippingFee   float64         `json:"shipping"`
	Tax           float64         `json:"tax"`
	Total         float64         `json:"total"`
	Status        string          `json:"status" gorm:"type:varchar(20)"`
	DeliveredAt   *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
