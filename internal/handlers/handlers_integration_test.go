package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"brickmart/internal/handlers"
	"brickmart/internal/middleware"
	"brickmart/internal/models"
	"brickmart/internal/repositories"
	"brickmart/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testDBCounter int

// testEnv bundles the app with the primary store the tests poke at directly.
type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

// setupApp sets up a Fiber app for testing with two in-memory SQLite databases
// and the full handler/service stack. The push gateway is absent, so order
// notifications only write receipts.
func setupApp(t *testing.T) *testEnv {
	t.Helper()
	testDBCounter++

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:handlers_primary_%d?mode=memory&cache=shared", testDBCounter)), &gorm.Config{})
	assert.NoError(t, err)
	err = db.AutoMigrate(
		&models.User{},
		&models.PushToken{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.NotificationReceipt{},
		&models.OutboxItem{},
	)
	assert.NoError(t, err)

	cartDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:handlers_cart_%d?mode=memory&cache=shared", testDBCounter)), &gorm.Config{})
	assert.NoError(t, err)
	assert.NoError(t, cartDB.AutoMigrate(&models.CartLine{}, &models.Session{}))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	reviewRepo := repositories.NewGORMReviewRepository(db)
	receiptRepo := repositories.NewGORMReceiptRepository(db)
	outboxRepo := repositories.NewGORMOutboxRepository(db)
	cartRepo := repositories.NewGORMCartRepository(cartDB)
	sessionRepo := repositories.NewGORMSessionRepository(cartDB)

	notificationService := services.NewNotificationService(userRepo, receiptRepo, nil)
	outboxProcessor := services.NewOutboxProcessor(outboxRepo, productRepo, cartRepo, orderRepo, notificationService)

	authService := services.NewAuthService(userRepo, sessionRepo, "test_jwt_secret")
	productService := services.NewProductService(productRepo, notificationService)
	cartService := services.NewCartService(cartRepo, productRepo)
	reviewService := services.NewReviewService(reviewRepo, orderRepo)
	orderService := services.NewOrderService(orderRepo, outboxProcessor, notificationService, nil)

	authHandler := handlers.NewAuthHandler(authService, userRepo)
	productHandler := handlers.NewProductHandler(productService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	app := fiber.New()
	api := app.Group("/api")
	authHandler.RegisterPublicRoutes(api)

	authRequired := middleware.AuthRequired(authService)
	adminRequired := middleware.AdminRequired()
	protected := api.Group("", authRequired)
	authHandler.RegisterProtectedRoutes(protected)
	productHandler.RegisterRoutes(protected, adminRequired)
	cartHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected, adminRequired)
	reviewHandler.RegisterRoutes(protected)
	notificationHandler.RegisterRoutes(protected)

	return &testEnv{
		app: app,
		db:  db,
	}
}

// doJSON issues a request against the test app with an optional bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerAndLogin creates a fresh user and returns their token and id.
func registerAndLogin(t *testing.T, app *fiber.App, username, email string) (string, string) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    email,
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]any
	decodeBody(t, resp, &loginResp)
	token, _ := loginResp["token"].(string)
	userID, _ := loginResp["userId"].(string)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)
	return token, userID
}

// promoteToAdmin flips the user's role directly in the database.
func promoteToAdmin(t *testing.T, db *gorm.DB, userID string) {
	t.Helper()
	err := db.Model(&models.User{}).Where("id = ?", userID).Update("role", models.RoleAdmin).Error
	assert.NoError(t, err)
}

// seedProduct creates a product directly through the repository.
func seedProduct(t *testing.T, db *gorm.DB, id, name string, price float64, stock int) {
	t.Helper()
	repo := repositories.NewGORMProductRepository(db)
	err := repo.Create(&models.Product{
		ID: id, Name: name, Price: price, Stock: stock, Category: models.CategorySet,
	})
	assert.NoError(t, err)
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	env := setupApp(t)

	token, _ := registerAndLogin(t, env.app, "testuser", "test@example.com")

	// Duplicate registration
	resp := doJSON(t, env.app, http.MethodPost, "/api/register", "", map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The token opens protected routes
	resp = doJSON(t, env.app, http.MethodGet, "/api/orders", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// No token, no entry
	resp = doJSON(t, env.app, http.MethodGet, "/api/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Logout revokes the token even though its signature still verifies
	resp = doJSON(t, env.app, http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/orders", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Logging back in issues a fresh working token
	resp = doJSON(t, env.app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]any
	decodeBody(t, resp, &loginResp)
	resp = doJSON(t, env.app, http.MethodGet, "/api/orders", loginResp["token"].(string), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestProductAdminGuard(t *testing.T) {
	env := setupApp(t)
	token, userID := registerAndLogin(t, env.app, "shopper", "shopper@example.com")

	newProduct := map[string]any{
		"name":     "Moon Base",
		"price":    129.99,
		"stock":    3,
		"category": models.CategorySet,
	}

	// Regular users cannot touch the catalog
	resp := doJSON(t, env.app, http.MethodPost, "/api/products", token, newProduct)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	promoteToAdmin(t, env.db, userID)
	adminToken := token // Role is read from the session claims on next login
	resp = doJSON(t, env.app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "shopper@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]any
	decodeBody(t, resp, &loginResp)
	adminToken = loginResp["token"].(string)
	assert.Equal(t, models.RoleAdmin, loginResp["role"])

	resp = doJSON(t, env.app, http.MethodPost, "/api/products", adminToken, newProduct)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)

	// Unknown category is rejected at the boundary
	resp = doJSON(t, env.app, http.MethodPost, "/api/products", adminToken, map[string]any{
		"name":     "Mystery Box",
		"price":    9.99,
		"stock":    1,
		"category": "Spaceship",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/products/category/Spaceship", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Listing and search see the new product
	resp = doJSON(t, env.app, http.MethodGet, "/api/products/search/moon", adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var searchResp struct {
		Data  []models.Product `json:"data"`
		Total int64            `json:"total"`
	}
	decodeBody(t, resp, &searchResp)
	assert.Equal(t, int64(1), searchResp.Total)
}

func TestCartMergeOnAdd(t *testing.T) {
	env := setupApp(t)
	token, _ := registerAndLogin(t, env.app, "cartuser", "cart@example.com")
	seedProduct(t, env.db, "prod-ship", "Pirate Ship", 49.99, 10)

	resp := doJSON(t, env.app, http.MethodPost, "/api/cart/add", token, map[string]any{
		"product_id": "prod-ship",
		"quantity":   2,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var addResp struct {
		Data models.CartLine `json:"data"`
	}
	decodeBody(t, resp, &addResp)
	assert.Equal(t, 2, addResp.Data.Quantity)
	assert.Equal(t, "Pirate Ship", addResp.Data.Name)
	lineID := addResp.Data.ID

	// Adding the same product merges quantities into the existing line
	resp = doJSON(t, env.app, http.MethodPost, "/api/cart/add", token, map[string]any{
		"product_id": "prod-ship",
		"quantity":   3,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	decodeBody(t, resp, &addResp)
	assert.Equal(t, lineID, addResp.Data.ID)
	assert.Equal(t, 5, addResp.Data.Quantity)

	resp = doJSON(t, env.app, http.MethodGet, "/api/cart", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var listResp struct {
		Data []models.CartLine `json:"data"`
	}
	decodeBody(t, resp, &listResp)
	assert.Len(t, listResp.Data, 1)

	// Unknown product
	resp = doJSON(t, env.app, http.MethodPost, "/api/cart/add", token, map[string]any{
		"product_id": "prod-missing",
		"quantity":   1,
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// checkoutBody builds an order create request for one product line.
func checkoutBody(orderID, productID, cartLineID string, quantity int, total float64) map[string]any {
	return map[string]any{
		"orderId": orderID,
		"items": []map[string]any{{
			"productId":  productID,
			"quantity":   quantity,
			"price":      49.99,
			"name":       "Pirate Ship",
			"cartLineId": cartLineID,
		}},
		"shippingDetails": map[string]any{
			"name":    "Test Buyer",
			"email":   "buyer@example.com",
			"address": "1 Brick Road",
		},
		"paymentMethod": "card",
		"subtotal":      49.99,
		"shipping":      5.00,
		"tax":           4.50,
		"total":         total,
	}
}

func TestCheckoutFlow(t *testing.T) {
	env := setupApp(t)
	token, _ := registerAndLogin(t, env.app, "buyer", "buyer@example.com")
	seedProduct(t, env.db, "prod-ship", "Pirate Ship", 49.99, 3)

	resp := doJSON(t, env.app, http.MethodPost, "/api/cart/add", token, map[string]any{
		"product_id": "prod-ship",
		"quantity":   5,
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var addResp struct {
		Data models.CartLine `json:"data"`
	}
	decodeBody(t, resp, &addResp)

	// The total deliberately disagrees with subtotal+shipping+tax; the server
	// must store it untouched.
	resp = doJSON(t, env.app, http.MethodPost, "/api/orders/create", token,
		checkoutBody("ORD-1001", "prod-ship", addResp.Data.ID, 5, 999.99))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var createResp struct {
		Success bool         `json:"success"`
		Data    models.Order `json:"data"`
	}
	decodeBody(t, resp, &createResp)
	assert.True(t, createResp.Success)
	assert.Equal(t, models.StatusPending, createResp.Data.Status)
	assert.Equal(t, 999.99, createResp.Data.Total)
	assert.Equal(t, "ORD-1001", createResp.Data.OrderNumber)

	// Ordering 5 of 3 in stock clamps the stock at zero
	var product models.Product
	assert.NoError(t, env.db.First(&product, "id = ?", "prod-ship").Error)
	assert.Equal(t, 0, product.Stock)

	// The ordered cart line is gone
	resp = doJSON(t, env.app, http.MethodGet, "/api/cart", token, nil)
	var cartResp struct {
		Data []models.CartLine `json:"data"`
	}
	decodeBody(t, resp, &cartResp)
	assert.Empty(t, cartResp.Data)

	// A receipt was written even though no push token is registered, and it is
	// not force-shown
	resp = doJSON(t, env.app, http.MethodGet, "/api/notifications/receipts", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var receiptsResp struct {
		Data []models.NotificationReceipt `json:"data"`
	}
	decodeBody(t, resp, &receiptsResp)
	assert.Len(t, receiptsResp.Data, 1)
	assert.False(t, receiptsResp.Data[0].ForceShow)
	assert.Equal(t, createResp.Data.ID, receiptsResp.Data[0].OrderID)

	// The order is retrievable by its order number
	resp = doJSON(t, env.app, http.MethodGet, "/api/orders/ORD-1001", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var getResp struct {
		Data models.Order `json:"data"`
	}
	decodeBody(t, resp, &getResp)
	assert.Equal(t, createResp.Data.ID, getResp.Data.ID)
	assert.Len(t, getResp.Data.Items, 1)

	// Resubmitting the same order id creates a second order document
	resp = doJSON(t, env.app, http.MethodPost, "/api/orders/create", token,
		checkoutBody("ORD-1001", "prod-ship", "", 1, 59.49))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/orders", token, nil)
	var ordersResp struct {
		Data []models.Order `json:"data"`
	}
	decodeBody(t, resp, &ordersResp)
	assert.Len(t, ordersResp.Data, 2)
}

func TestOrderStatusTransitions(t *testing.T) {
	env := setupApp(t)
	token, _ := registerAndLogin(t, env.app, "buyer", "buyer2@example.com")
	adminToken, adminID := registerAndLogin(t, env.app, "boss", "boss@example.com")
	promoteToAdmin(t, env.db, adminID)
	resp := doJSON(t, env.app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "boss@example.com",
		"password": "password123",
	})
	var loginResp map[string]any
	decodeBody(t, resp, &loginResp)
	adminToken = loginResp["token"].(string)

	seedProduct(t, env.db, "prod-ship", "Pirate Ship", 49.99, 10)
	resp = doJSON(t, env.app, http.MethodPost, "/api/orders/create", token,
		checkoutBody("ORD-2001", "prod-ship", "", 1, 59.49))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Non-admins cannot transition orders
	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-2001", token,
		map[string]string{"status": models.StatusShipped})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// Unknown status
	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-2001", adminToken,
		map[string]string{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Unknown order
	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-MISSING", adminToken,
		map[string]string{"status": models.StatusShipped})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	type statusResp struct {
		Success          bool         `json:"success"`
		Data             models.Order `json:"data"`
		NotificationSent bool         `json:"notificationSent"`
		PreviousStatus   string       `json:"previousStatus"`
		NewStatus        string       `json:"newStatus"`
	}

	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-2001", adminToken,
		map[string]string{"status": models.StatusShipped})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var update statusResp
	decodeBody(t, resp, &update)
	assert.True(t, update.Success)
	assert.Equal(t, models.StatusPending, update.PreviousStatus)
	assert.Equal(t, models.StatusShipped, update.NewStatus)
	// The buyer has no push token, so nothing was dispatched
	assert.False(t, update.NotificationSent)
	assert.Nil(t, update.Data.DeliveredAt)

	// First transition into delivered stamps the timestamp
	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-2001", adminToken,
		map[string]string{"status": models.StatusDelivered})
	decodeBody(t, resp, &update)
	assert.NotNil(t, update.Data.DeliveredAt)
	firstStamp := *update.Data.DeliveredAt

	// Bounce away and back; the original stamp survives
	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-2001", adminToken,
		map[string]string{"status": models.StatusProcessing})
	decodeBody(t, resp, &update)
	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-2001", adminToken,
		map[string]string{"status": models.StatusDelivered})
	decodeBody(t, resp, &update)
	assert.NotNil(t, update.Data.DeliveredAt)
	assert.True(t, firstStamp.Equal(*update.Data.DeliveredAt))

	// Each transition wrote the buyer a receipt (plus the order-placed one)
	resp = doJSON(t, env.app, http.MethodGet, "/api/notifications/receipts", token, nil)
	var receiptsResp struct {
		Data []models.NotificationReceipt `json:"data"`
	}
	decodeBody(t, resp, &receiptsResp)
	assert.Len(t, receiptsResp.Data, 5)
	redelivered := false
	for _, receipt := range receiptsResp.Data {
		if receipt.Status == models.StatusDelivered && receipt.PreviousStatus == models.StatusProcessing {
			redelivered = true
		}
	}
	assert.True(t, redelivered)
}

func TestReviewGating(t *testing.T) {
	env := setupApp(t)
	token, _ := registerAndLogin(t, env.app, "reviewer", "reviewer@example.com")
	adminToken, adminID := registerAndLogin(t, env.app, "boss", "boss2@example.com")
	promoteToAdmin(t, env.db, adminID)
	resp := doJSON(t, env.app, http.MethodPost, "/api/login", "", map[string]string{
		"email":    "boss2@example.com",
		"password": "password123",
	})
	var loginResp map[string]any
	decodeBody(t, resp, &loginResp)
	adminToken = loginResp["token"].(string)

	seedProduct(t, env.db, "prod-ship", "Pirate Ship", 49.99, 10)

	reviewBody := map[string]any{
		"product_id": "prod-ship",
		"rating":     5,
		"comment":    "Sturdy hull, great minifigs",
	}

	// No order at all: forbidden
	resp = doJSON(t, env.app, http.MethodPost, "/api/reviews/create", token, reviewBody)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodPost, "/api/orders/create", token,
		checkoutBody("ORD-3001", "prod-ship", "", 1, 59.49))
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Ordered but not delivered: still forbidden
	resp = doJSON(t, env.app, http.MethodGet, "/api/reviews/can-review/prod-ship", token, nil)
	var canResp map[string]bool
	decodeBody(t, resp, &canResp)
	assert.False(t, canResp["canReview"])

	resp = doJSON(t, env.app, http.MethodPatch, "/api/orders/admin/status/ORD-3001", adminToken,
		map[string]string{"status": models.StatusDelivered})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/reviews/can-review/prod-ship", token, nil)
	decodeBody(t, resp, &canResp)
	assert.True(t, canResp["canReview"])

	resp = doJSON(t, env.app, http.MethodPost, "/api/reviews/create", token, reviewBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var createResp struct {
		Data models.Review `json:"data"`
	}
	decodeBody(t, resp, &createResp)
	reviewID := createResp.Data.ID

	// One review per (user, product)
	resp = doJSON(t, env.app, http.MethodPost, "/api/reviews/create", token, reviewBody)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Edits go through the update endpoint
	resp = doJSON(t, env.app, http.MethodPut, "/api/reviews/update/"+reviewID, token, map[string]any{
		"rating":  4,
		"comment": "One sail ripped after a week",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodGet, "/api/reviews/product/prod-ship", token, nil)
	var listResp struct {
		Data []models.Review `json:"data"`
	}
	decodeBody(t, resp, &listResp)
	assert.Len(t, listResp.Data, 1)
	assert.Equal(t, 4, listResp.Data[0].Rating)

	// Out-of-range rating never reaches the service
	resp = doJSON(t, env.app, http.MethodPost, "/api/reviews/create", token, map[string]any{
		"product_id": "prod-ship",
		"rating":     6,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestPushTokenRegistration(t *testing.T) {
	env := setupApp(t)
	token, userID := registerAndLogin(t, env.app, "devices", "devices@example.com")

	resp := doJSON(t, env.app, http.MethodPost, "/api/users/push-token", token, map[string]string{
		"token": "ExponentPushToken[abc]",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Re-registering the same token refreshes instead of duplicating
	resp = doJSON(t, env.app, http.MethodPost, "/api/users/push-token", token, map[string]string{
		"token": "ExponentPushToken[abc]",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	var count int64
	assert.NoError(t, env.db.Model(&models.PushToken{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	resp = doJSON(t, env.app, http.MethodDelete, "/api/users/push-token", token, map[string]string{
		"token": "ExponentPushToken[abc]",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, env.app, http.MethodDelete, "/api/users/push-token", token, map[string]string{
		"token": "ExponentPushToken[abc]",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestReceiptPollingMarkAsRead(t *testing.T) {
	env := setupApp(t)
	token, _ := registerAndLogin(t, env.app, "poller", "poller@example.com")

	resp := doJSON(t, env.app, http.MethodPost, "/api/notifications/receipt", token, map[string]any{
		"status": models.StatusShipped,
		"title":  "Order shipped",
		"body":   "Your bricks are on the way",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Polled with markAsRead: returned unread, flagged afterwards
	resp = doJSON(t, env.app, http.MethodGet, "/api/notifications/receipts?markAsRead=true", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var receiptsResp struct {
		Data []models.NotificationReceipt `json:"data"`
	}
	decodeBody(t, resp, &receiptsResp)
	assert.Len(t, receiptsResp.Data, 1)
	assert.False(t, receiptsResp.Data[0].Read)
	assert.NotEmpty(t, receiptsResp.Data[0].DedupID)

	resp = doJSON(t, env.app, http.MethodGet, "/api/notifications/receipts", token, nil)
	decodeBody(t, resp, &receiptsResp)
	assert.True(t, receiptsResp.Data[0].Read)

	// A future since cutoff filters everything out
	resp = doJSON(t, env.app, http.MethodGet, "/api/notifications/receipts?since=2099-01-01T00:00:00Z", token, nil)
	decodeBody(t, resp, &receiptsResp)
	assert.Empty(t, receiptsResp.Data)
}
