package handlers

import (
	"log"

	"brickmart/internal/middleware"
	"brickmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the current user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes with the Fiber app.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleList)
	cartRoutes.Post("/add", h.HandleAdd)
	cartRoutes.Put("/update/:id", h.HandleUpdate)
	cartRoutes.Delete("/remove/:id", h.HandleRemove)
	cartRoutes.Delete("/clear", h.HandleClear)
}

// HandleList retrieves the user's cart lines.
func (h *CartHandler) HandleList(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	lines, err := h.service.ListCart(userID)
	if err != nil {
		log.Printf("Error listing cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"data": lines,
	})
}

// AddCartRequest represents the request body for adding a product to the cart.
type AddCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// HandleAdd adds a product to the cart, merging quantities when a line for
// the product already exists.
func (h *CartHandler) HandleAdd(c *fiber.Ctx) error {
	var req AddCartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart add body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := middleware.UserID(c)
	line, err := h.service.AddItem(userID, req.ProductID, req.Quantity)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Product not found",
			})
		}
		log.Printf("Error adding to cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not add to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": line.Name + " added to cart",
		"data":    line,
	})
}

// UpdateCartRequest represents the request body for a quantity change.
type UpdateCartRequest struct {
	Quantity int `json:"quantity" validate:"required,gte=1"`
}

// HandleUpdate sets the quantity of a cart line.
func (h *CartHandler) HandleUpdate(c *fiber.Ctx) error {
	var req UpdateCartRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing cart update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := middleware.UserID(c)
	line, err := h.service.UpdateQuantity(userID, c.Params("id"), req.Quantity)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart line not found",
			})
		}
		log.Printf("Error updating cart line for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update cart line",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"data": line,
	})
}

// HandleRemove deletes a single cart line.
func (h *CartHandler) HandleRemove(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if err := h.service.RemoveItem(userID, c.Params("id")); err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Cart line not found",
			})
		}
		log.Printf("Error removing cart line for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not remove cart line",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart line removed",
	})
}

// HandleClear empties the user's cart.
func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if err := h.service.ClearCart(userID); err != nil {
		log.Printf("Error clearing cart for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not clear cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
	})
}
