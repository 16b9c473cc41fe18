package handlers

import (
	"log"
	"strings"

	"brickmart/internal/middleware"
	"brickmart/internal/models"
	"brickmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. The admin middleware guards the
// status transition route.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, admin fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleList)
	orderRoutes.Post("/create", h.HandleCreate)
	orderRoutes.Patch("/admin/status/:orderId", admin, h.HandleUpdateStatus)
	orderRoutes.Get("/:orderId", h.HandleGet)
}

// orderItemRequest is a single checkout line as sent by the client.
type orderItemRequest struct {
	ProductID  string  `json:"productId" validate:"required"`
	Quantity   int     `json:"quantity" validate:"required,gte=1"`
	Price      float64 `json:"price"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	CartLineID string  `json:"cartLineId"`
}

// CreateOrderRequest is the checkout request body. The money fields are
// pointers so that an explicit zero passes the required check.
type CreateOrderRequest struct {
	OrderID       string                 `json:"orderId" validate:"required"`
	Items         []orderItemRequest     `json:"items" validate:"required,min=1,dive"`
	Shipping      models.ShippingDetails `json:"shippingDetails"`
	PaymentMethod string                 `json:"paymentMethod" validate:"required"`
	Subtotal      *float64               `json:"subtotal" validate:"required"`
	ShippingFee   *float64               `json:"shipping" validate:"required"`
	Tax           *float64               `json:"tax" validate:"required"`
	Total         *float64               `json:"total" validate:"required"`
}

// HandleCreate performs checkout.
func (h *OrderHandler) HandleCreate(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order create body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := middleware.UserID(c)
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			Price:      item.Price,
			Name:       item.Name,
			Image:      item.Image,
			CartLineID: item.CartLineID,
		})
	}

	order, err := h.service.CreateOrder(services.CreateOrderInput{
		OrderNumber:   req.OrderID,
		UserID:        userID,
		Items:         items,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
		Subtotal:      *req.Subtotal,
		ShippingFee:   *req.ShippingFee,
		Tax:           *req.Tax,
		Total:         *req.Total,
	})
	if err != nil {
		log.Printf("Error creating order for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    order,
	})
}

// HandleList retrieves the user's orders.
func (h *OrderHandler) HandleList(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	orders, err := h.service.ListOrders(userID)
	if err != nil {
		log.Printf("Error listing orders for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"data": orders,
	})
}

// HandleGet retrieves one of the user's orders by id or order number.
func (h *OrderHandler) HandleGet(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	order, err := h.service.GetOrder(c.Params("orderId"), userID)
	if err != nil {
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error getting order %s for user %s: %v", c.Params("orderId"), userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"data": order,
	})
}

// UpdateStatusRequest is the admin status transition body.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus transitions an order's status (admin only).
func (h *OrderHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	update, err := h.service.UpdateOrderStatus(c.Params("orderId"), req.Status)
	if err != nil {
		if strings.Contains(err.Error(), "invalid order status") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": err.Error(),
			})
		}
		if services.IsNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "Order not found",
			})
		}
		log.Printf("Error updating status for order %s: %v", c.Params("orderId"), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":          true,
		"data":             update.Order,
		"notificationSent": update.NotificationSent,
		"previousStatus":   update.PreviousStatus,
		"newStatus":        update.Order.Status,
	})
}
