package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
)

// CartService handles business logic for per-user cart lines. Every operation
// is scoped to the authenticated user; line identity for merge purposes is
// (user, product).
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListCart retrieves the user's cart lines.
func (s *CartService) ListCart(userID string) ([]models.CartLine, error) {
	return s.cartRepo.ListByUser(userID)
}

// AddItem adds a product to the user's cart. When a line for the product
// already exists the quantities are summed; otherwise a new line is created
// with name, price and first image denormalized from the catalog.
func (s *CartService) AddItem(userID, productID string, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.FindByUserProduct(userID, productID)
	if err == nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !strings.Contains(err.Error(), "not found") {
		return nil, err
	}

	line := &models.CartLine{
		UserID:    userID,
		ProductID: productID,
		Name:      product.Name,
		Price:     product.Price,
		Image:     firstImage(product),
		Quantity:  quantity,
	}
	if err := s.cartRepo.Create(line); err != nil {
		return nil, err
	}
	return line, nil
}

// firstImage extracts the first image URL from the product's image list.
func firstImage(product *models.Product) string {
	if len(product.Images) == 0 {
		return ""
	}
	var images []string
	if err := json.Unmarshal(product.Images, &images); err != nil || len(images) == 0 {
		return ""
	}
	return images[0]
}

// UpdateQuantity sets the quantity of one of the user's cart lines.
func (s *CartService) UpdateQuantity(userID, lineID string, quantity int) (*models.CartLine, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}

	line, err := s.cartRepo.GetByID(lineID)
	if err != nil {
		return nil, err
	}
	if line.UserID != userID {
		// Do not reveal other users' cart rows.
		return nil, fmt.Errorf("cart line with ID %s not found", lineID)
	}

	line.Quantity = quantity
	if err := s.cartRepo.Update(line); err != nil {
		return nil, err
	}
	return line, nil
}

// RemoveItem deletes one of the user's cart lines.
func (s *CartService) RemoveItem(userID, lineID string) error {
	line, err := s.cartRepo.GetByID(lineID)
	if err != nil {
		return err
	}
	if line.UserID != userID {
		return fmt.Errorf("cart line with ID %s not found", lineID)
	}
	return s.cartRepo.Delete(lineID)
}

// ClearCart deletes all of the user's cart lines.
func (s *CartService) ClearCart(userID string) error {
	return s.cartRepo.DeleteByUser(userID)
}
