package services

import (
	"errors"
	"fmt"
	"strings"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
)

// Review failure modes the handler maps to distinct status codes.
var (
	// ErrReviewNotAllowed means the user has no delivered order containing
	// the product.
	ErrReviewNotAllowed = errors.New("user has not purchased this product")
	// ErrReviewExists means the (user, product) pair already has a review;
	// the update endpoint should be used instead.
	ErrReviewExists = errors.New("review already exists for this product")
)

// ReviewService handles purchase-gated product reviews.
type ReviewService struct {
	reviewRepo repositories.ReviewRepository
	orderRepo  repositories.OrderRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviewRepo repositories.ReviewRepository, orderRepo repositories.OrderRepository) *ReviewService {
	return &ReviewService{
		reviewRepo: reviewRepo,
		orderRepo:  orderRepo,
	}
}

// CanReview reports whether the user may review the product: a delivered
// order of theirs must contain it.
func (s *ReviewService) CanReview(userID, productID string) (bool, error) {
	return s.orderRepo.HasDeliveredWithProduct(userID, productID)
}

// CreateReview stores a new review after checking the purchase gate and the
// one-review-per-(user, product) rule.
func (s *ReviewService) CreateReview(review *models.Review) error {
	allowed, err := s.orderRepo.HasDeliveredWithProduct(review.UserID, review.ProductID)
	if err != nil {
		return fmt.Errorf("failed to check purchase history: %w", err)
	}
	if !allowed {
		return ErrReviewNotAllowed
	}

	if existing, err := s.reviewRepo.FindByUserProduct(review.UserID, review.ProductID); err == nil && existing != nil {
		return ErrReviewExists
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// UpdateReview updates the rating and comment of one of the user's reviews.
func (s *ReviewService) UpdateReview(userID, reviewID string, rating int, comment string) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, fmt.Errorf("review with ID %s not found", reviewID)
	}

	review.Rating = rating
	review.Comment = comment
	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListProductReviews retrieves all reviews of a product.
func (s *ReviewService) ListProductReviews(productID string) ([]models.Review, error) {
	return s.reviewRepo.ListByProduct(productID)
}

// IsNotFound reports whether err is a repository not-found error.
func IsNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
