package services

import (
	"fmt"
	"log"
	"time"

	"brickmart/internal/models"
	"brickmart/internal/repositories"
	"brickmart/pkg/expopush"

	"github.com/google/uuid"
)

// Pusher sends batches of push messages to the external gateway.
// *expopush.Client satisfies it.
type Pusher interface {
	Send(messages []expopush.Message) (*expopush.Result, error)
}

// NotificationService is the notification side channel: it turns a payload
// variant into a push message addressed to the owner's most recently used
// device token, and independently persists a receipt for polling clients.
// Push failures and receipt failures are each caught and logged; neither is
// ever surfaced to the triggering workflow.
type NotificationService struct {
	userRepo    repositories.UserRepository
	receiptRepo repositories.ReceiptRepository
	pusher      Pusher
}

// NewNotificationService creates a new NotificationService. The pusher may be
// nil; sends are then skipped and only receipts are written.
func NewNotificationService(userRepo repositories.UserRepository, receiptRepo repositories.ReceiptRepository, pusher Pusher) *NotificationService {
	return &NotificationService{
		userRepo:    userRepo,
		receiptRepo: receiptRepo,
		pusher:      pusher,
	}
}

// newDedupID builds the unique id embedded in every payload so the gateway
// does not coalesce repeated identical notifications.
func newDedupID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}

// NotifyOrderPlaced pushes an "order placed" notification to the order owner
// and records a receipt. Returns whether a push was actually dispatched.
func (s *NotificationService) NotifyOrderPlaced(order *models.Order) bool {
	payload := OrderPlacedPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Total:       order.Total,
	}
	receipt := models.NotificationReceipt{
		UserID:  order.UserID,
		OrderID: order.ID,
		Status:  order.Status,
	}
	return s.notify(order.UserID, payload, receipt)
}

// NotifyOrderStatus pushes a status transition notification to the order
// owner and records a receipt capturing both statuses.
func (s *NotificationService) NotifyOrderStatus(order *models.Order, previousStatus string) bool {
	payload := OrderUpdatePayload{
		OrderID:        order.ID,
		OrderNumber:    order.OrderNumber,
		Status:         order.Status,
		PreviousStatus: previousStatus,
	}
	receipt := models.NotificationReceipt{
		UserID:         order.UserID,
		OrderID:        order.ID,
		Status:         order.Status,
		PreviousStatus: previousStatus,
	}
	return s.notify(order.UserID, payload, receipt)
}

// notify resolves the user's most recently used push token, sends the payload
// when one exists, and persists the receipt either way. The receipt's
// ForceShow flag is set only when a push was attempted, so users without
// devices never get force-shown receipts.
func (s *NotificationService) notify(userID string, payload NotificationPayload, receipt models.NotificationReceipt) bool {
	dedupID := newDedupID()

	token, err := s.userRepo.LatestPushToken(userID)
	if err != nil {
		log.Printf("Push token lookup for user %s failed: %v", userID, err)
		token = nil
	}

	sent := false
	attempted := false
	if token == nil {
		log.Printf("User %s has no push tokens registered, skipping %s push", userID, payload.Kind())
	} else if s.pusher != nil {
		attempted = true
		data := payload.Data()
		data["dedup_id"] = dedupID
		result, err := s.pusher.Send([]expopush.Message{{
			To:    token.Token,
			Title: payload.Title(),
			Body:  payload.Body(),
			Sound: "default",
			Data:  data,
		}})
		if err != nil {
			log.Printf("Push send for user %s failed: %v", userID, err)
		} else {
			log.Printf("Push send for user %s finished with status %s", userID, result.Status)
			sent = result.Status != expopush.StatusError
		}
	}

	receipt.Title = payload.Title()
	receipt.Body = payload.Body()
	receipt.DedupID = dedupID
	receipt.ForceShow = attempted
	if err := s.receiptRepo.Create(&receipt); err != nil {
		log.Printf("Failed to persist notification receipt for user %s: %v", userID, err)
	}

	return sent
}

// AnnounceProduct pushes a new-product notification to every user with a
// registered device and records one receipt per recipient.
func (s *NotificationService) AnnounceProduct(product *models.Product) error {
	tokens, err := s.userRepo.AllLatestPushTokens()
	if err != nil {
		return fmt.Errorf("failed to resolve announcement recipients: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	payload := NewProductPayload{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
	}

	messages := make([]expopush.Message, 0, len(tokens))
	for _, token := range tokens {
		dedupID := newDedupID()
		data := payload.Data()
		data["dedup_id"] = dedupID
		messages = append(messages, expopush.Message{
			To:    token.Token,
			Title: payload.Title(),
			Body:  payload.Body(),
			Sound: "default",
			Data:  data,
		})

		receipt := models.NotificationReceipt{
			UserID:    token.UserID,
			ProductID: product.ID,
			Status:    "new",
			Title:     payload.Title(),
			Body:      payload.Body(),
			DedupID:   dedupID,
			ForceShow: s.pusher != nil,
		}
		if err := s.receiptRepo.Create(&receipt); err != nil {
			log.Printf("Failed to persist announcement receipt for user %s: %v", token.UserID, err)
		}
	}

	if s.pusher == nil {
		return nil
	}
	result, err := s.pusher.Send(messages)
	if err != nil {
		return fmt.Errorf("announcement push failed: %w", err)
	}
	log.Printf("Announcement push for product %s finished with status %s", product.ID, result.Status)
	return nil
}

// CreateReceipt persists a client-submitted receipt.
func (s *NotificationService) CreateReceipt(receipt *models.NotificationReceipt) error {
	if receipt.DedupID == "" {
		receipt.DedupID = newDedupID()
	}
	return s.receiptRepo.Create(receipt)
}

// ListReceipts returns the user's receipts created after since (all when since
// is zero). With markAsRead the returned receipts are flagged read afterwards;
// the returned records still carry their pre-marking read state.
func (s *NotificationService) ListReceipts(userID string, since time.Time, markAsRead bool) ([]models.NotificationReceipt, error) {
	receipts, err := s.receiptRepo.ListByUserSince(userID, since)
	if err != nil {
		return nil, err
	}
	if markAsRead && len(receipts) > 0 {
		ids := make([]string, 0, len(receipts))
		for _, receipt := range receipts {
			if !receipt.Read {
				ids = append(ids, receipt.ID)
			}
		}
		if err := s.receiptRepo.MarkRead(userID, ids); err != nil {
			log.Printf("Failed to mark receipts read for user %s: %v", userID, err)
		}
	}
	return receipts, nil
}
