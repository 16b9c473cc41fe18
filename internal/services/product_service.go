package services

import (
	"log"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
)

// ProductService handles business logic related to the catalog.
type ProductService struct {
	repo     repositories.ProductRepository
	notifier *NotificationService
}

// NewProductService creates a new ProductService. The notifier may be nil;
// new-product announcements are then skipped.
func NewProductService(repo repositories.ProductRepository, notifier *NotificationService) *ProductService {
	return &ProductService{
		repo:     repo,
		notifier: notifier,
	}
}

// ListProducts retrieves products matching the filter together with the total
// match count before pagination.
func (s *ProductService) ListProducts(filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.repo.List(filter)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product and announces it to users with
// registered devices, best-effort.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	if s.notifier != nil {
		if err := s.notifier.AnnounceProduct(product); err != nil {
			log.Printf("Warning: failed to announce product %s: %v", product.ID, err)
		}
	}
	return nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}
