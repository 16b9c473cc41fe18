package handlers

import (
	"errors"
	"log"

	"brickmart/internal/middleware"
	"brickmart/internal/models"
	"brickmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// ReviewHandler handles HTTP requests for product reviews.
type ReviewHandler struct {
	service  *services.ReviewService
	validate *validator.Validate
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the review routes with the Fiber app.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	reviewRoutes := router.Group("/reviews")
	reviewRoutes.Post("/create", h.HandleCreate)
	reviewRoutes.Put("/update/:reviewId", h.HandleUpdate)
	reviewRoutes.Get("/can-review/:productId", h.HandleCanReview)
	reviewRoutes.Get("/product/:productId", h.HandleListByProduct)
}

// CreateReviewRequest is the request body for a new review.
type CreateReviewRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   string `json:"comment" validate:"omitempty,max=1000"`
}

// HandleCreate creates a review after the purchase gate.
func (h *ReviewHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review create body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := middleware.UserID(c)
	review := &models.Review{
		ID:        uuid.New().String(),
		UserID:    userID,
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.service.CreateReview(review); err != nil {
		if errors.Is(err, services.ErrReviewNotAllowed) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "You can only review products from delivered orders",
			})
		}
		if errors.Is(err, services.ErrReviewExists) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "You have already reviewed this product",
			})
		}
		log.Printf("Error creating review for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create review",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Review created",
		"data":    review,
	})
}

// UpdateReviewRequest is the request body for editing a review.
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

// HandleUpdate edits one of the user's reviews.
func (h *ReviewHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing review update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := middleware.UserID(c)
	review, err := h.service.UpdateReview(userID, c.Params("reviewId"), req.Rating, req.Comment)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Review not found",
			})
		}
		log.Printf("Error updating review %s for user %s: %v", c.Params("reviewId"), userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update review",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Review updated",
		"data":    review,
	})
}

// HandleCanReview reports whether the current user may review the product.
func (h *ReviewHandler) HandleCanReview(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	allowed, err := h.service.CanReview(userID, c.Params("productId"))
	if err != nil {
		log.Printf("Error checking review eligibility for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not check review eligibility",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"canReview": allowed,
	})
}

// HandleListByProduct retrieves all reviews of a product.
func (h *ReviewHandler) HandleListByProduct(c *fiber.Ctx) error {
	reviews, err := h.service.ListProductReviews(c.Params("productId"))
	if err != nil {
		log.Printf("Error listing reviews for product %s: %v", c.Params("productId"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve reviews",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"data": reviews,
	})
}
