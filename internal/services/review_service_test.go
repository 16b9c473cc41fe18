package services_test

import (
	"testing"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
	"brickmart/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository is a mock implementation of repositories.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) GetByID(id string) (*models.Review, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByUserProduct(userID, productID string) (*models.Review, error) {
	args := m.Called(userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewRepository) ListByProduct(productID string) ([]models.Review, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewRepository) Create(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

func (m *MockReviewRepository) Update(review *models.Review) error {
	args := m.Called(review)
	return args.Error(0)
}

// deliveredOrderFixture seeds an order for user-1 containing prod-1 in the
// given status.
func deliveredOrderFixture(t *testing.T, orderRepo *repositories.MockOrderRepository, status string) {
	t.Helper()
	err := orderRepo.Create(&models.Order{
		OrderNumber: "ORD-R1",
		UserID:      "user-1",
		Status:      status,
		Items:       []models.OrderItem{{ProductID: "prod-1", Quantity: 1, Price: 10}},
	})
	assert.NoError(t, err)
}

func TestReviewService_CreateReviewGatedOnDelivery(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	orderRepo := repositories.NewMockOrderRepository()
	reviewService := services.NewReviewService(reviewRepo, orderRepo)

	// Order exists but is only shipped: not reviewable yet.
	deliveredOrderFixture(t, orderRepo, models.StatusShipped)

	review := &models.Review{UserID: "user-1", ProductID: "prod-1", Rating: 5, Comment: "Great set"}
	err := reviewService.CreateReview(review)
	assert.ErrorIs(t, err, services.ErrReviewNotAllowed)

	allowed, err := reviewService.CanReview("user-1", "prod-1")
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestReviewService_CreateReviewAfterDelivery(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	orderRepo := repositories.NewMockOrderRepository()
	reviewService := services.NewReviewService(reviewRepo, orderRepo)

	deliveredOrderFixture(t, orderRepo, models.StatusDelivered)

	allowed, err := reviewService.CanReview("user-1", "prod-1")
	assert.NoError(t, err)
	assert.True(t, allowed)

	reviewRepo.On("FindByUserProduct", "user-1", "prod-1").
		Return(nil, assert.AnError).Once()
	reviewRepo.On("Create", mock.AnythingOfType("*models.Review")).Return(nil).Once()

	review := &models.Review{UserID: "user-1", ProductID: "prod-1", Rating: 5, Comment: "Great set"}
	assert.NoError(t, reviewService.CreateReview(review))
	reviewRepo.AssertExpectations(t)

	// A second review of the same product is rejected.
	reviewRepo.On("FindByUserProduct", "user-1", "prod-1").
		Return(&models.Review{ID: "rev-1"}, nil).Once()
	err = reviewService.CreateReview(review)
	assert.ErrorIs(t, err, services.ErrReviewExists)
	reviewRepo.AssertExpectations(t)

	// The delivered order does not open other products for review.
	allowed, err = reviewService.CanReview("user-1", "prod-other")
	assert.NoError(t, err)
	assert.False(t, allowed)
}

func TestReviewService_UpdateReview(t *testing.T) {
	reviewRepo := new(MockReviewRepository)
	orderRepo := repositories.NewMockOrderRepository()
	reviewService := services.NewReviewService(reviewRepo, orderRepo)

	existing := &models.Review{ID: "rev-1", UserID: "user-1", ProductID: "prod-1", Rating: 3, Comment: "ok"}

	reviewRepo.On("GetByID", "rev-1").Return(existing, nil).Once()
	reviewRepo.On("Update", mock.MatchedBy(func(r *models.Review) bool {
		return r.Rating == 4 && r.Comment == "better than expected"
	})).Return(nil).Once()

	updated, err := reviewService.UpdateReview("user-1", "rev-1", 4, "better than expected")
	assert.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)
	reviewRepo.AssertExpectations(t)

	// Editing someone else's review reads as not found.
	reviewRepo.On("GetByID", "rev-1").Return(existing, nil).Once()
	_, err = reviewService.UpdateReview("user-2", "rev-1", 1, "nope")
	assert.Error(t, err)
	assert.True(t, services.IsNotFound(err))
	reviewRepo.AssertExpectations(t)
}
