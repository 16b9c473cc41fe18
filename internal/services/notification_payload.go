package services

import "fmt"

// NotificationPayload is the closed set of push payload shapes. Each variant
// carries only its own fields and is serialized uniformly at the gateway
// boundary; no call site attaches ad hoc fields.
type NotificationPayload interface {
	Kind() string
	Title() string
	Body() string
	Data() map[string]any
}

// OrderPlacedPayload announces a freshly created order to its owner.
type OrderPlacedPayload struct {
	OrderID     string
	OrderNumber string
	Total       float64
}

func (p OrderPlacedPayload) Kind() string  { return "order_placed" }
func (p OrderPlacedPayload) Title() string { return "Order placed" }
func (p OrderPlacedPayload) Body() string {
	return fmt.Sprintf("Your order %s has been placed. Total: %.2f", p.OrderNumber, p.Total)
}
func (p OrderPlacedPayload) Data() map[string]any {
	return map[string]any{
		"kind":         p.Kind(),
		"order_id":     p.OrderID,
		"order_number": p.OrderNumber,
	}
}

// OrderUpdatePayload announces a status transition to the order owner.
type OrderUpdatePayload struct {
	OrderID        string
	OrderNumber    string
	Status         string
	PreviousStatus string
}

func (p OrderUpdatePayload) Kind() string  { return "order_update" }
func (p OrderUpdatePayload) Title() string { return "Order update" }
func (p OrderUpdatePayload) Body() string {
	return fmt.Sprintf("Your order %s is now %s", p.OrderNumber, p.Status)
}
func (p OrderUpdatePayload) Data() map[string]any {
	return map[string]any{
		"kind":            p.Kind(),
		"order_id":        p.OrderID,
		"order_number":    p.OrderNumber,
		"status":          p.Status,
		"previous_status": p.PreviousStatus,
	}
}

// NewProductPayload announces a new catalog entry.
type NewProductPayload struct {
	ProductID string
	Name      string
	Price     float64
}

func (p NewProductPayload) Kind() string  { return "new_product" }
func (p NewProductPayload) Title() string { return "New in the store" }
func (p NewProductPayload) Body() string {
	return fmt.Sprintf("%s is now available for %.2f", p.Name, p.Price)
}
func (p NewProductPayload) Data() map[string]any {
	return map[string]any{
		"kind":       p.Kind(),
		"product_id": p.ProductID,
	}
}
