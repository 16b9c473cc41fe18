package repositories

import (
	"brickmart/internal/models"
)

// ProductFilter narrows and orders a catalog listing. Zero values mean "no
// constraint". SortBy is one of price, name, created_at; SortDir asc or desc.
type ProductFilter struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	SortDir  string
	Page     int
	Limit    int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// DecrementStock atomically subtracts qty from the product's stock,
	// clamping the result at zero. It never rejects a decrement that would
	// go below zero; it returns an error only when the product is missing.
	DecrementStock(id string, qty int) error
}
