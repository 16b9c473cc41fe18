package handlers

import (
	"log"
	"strconv"
	"time"

	"brickmart/internal/middleware"
	"brickmart/internal/models"
	"brickmart/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// NotificationHandler handles HTTP requests for notification receipts.
type NotificationHandler struct {
	service  *services.NotificationService
	validate *validator.Validate
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Post("/receipt", h.HandleCreateReceipt)
	notificationRoutes.Get("/receipts", h.HandleListReceipts)
}

// CreateReceiptRequest is a client-submitted receipt.
type CreateReceiptRequest struct {
	OrderID        string `json:"order_id"`
	ProductID      string `json:"product_id"`
	Status         string `json:"status" validate:"required"`
	PreviousStatus string `json:"previous_status"`
	Title          string `json:"title" validate:"required"`
	Body           string `json:"body" validate:"required"`
}

// HandleCreateReceipt stores a receipt posted by the client itself, e.g. for a
// notification rendered from a foreground push.
func (h *NotificationHandler) HandleCreateReceipt(c *fiber.Ctx) error {
	var req CreateReceiptRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing receipt body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return validationErrorResponse(c, err)
	}

	userID := middleware.UserID(c)
	receipt := &models.NotificationReceipt{
		ID:             uuid.New().String(),
		UserID:         userID,
		OrderID:        req.OrderID,
		ProductID:      req.ProductID,
		Status:         req.Status,
		PreviousStatus: req.PreviousStatus,
		Title:          req.Title,
		Body:           req.Body,
	}
	if err := h.service.CreateReceipt(receipt); err != nil {
		log.Printf("Error creating receipt for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create receipt",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": receipt,
	})
}

// parseSince accepts RFC3339 or unix milliseconds; zero when absent or
// unparseable.
func parseSince(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms)
	}
	return time.Time{}
}

// HandleListReceipts retrieves the user's receipts, optionally only those
// created after ?since= and optionally marking them read.
func (h *NotificationHandler) HandleListReceipts(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	since := parseSince(c.Query("since"))
	markAsRead := c.Query("markAsRead") == "true"

	receipts, err := h.service.ListReceipts(userID, since, markAsRead)
	if err != nil {
		log.Printf("Error listing receipts for user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve receipts",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"data": receipts,
	})
}
