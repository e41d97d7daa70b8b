package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicehut/storefront/internal/config"
	"github.com/spicehut/storefront/internal/dto"
	"github.com/spicehut/storefront/internal/handlers"
	"github.com/spicehut/storefront/internal/kvstore"
	"github.com/spicehut/storefront/internal/routes"
	"github.com/spicehut/storefront/internal/store"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   time.Hour,
		TaxRate:           0.05,
		DeliveryFee:       40,
		FreeDeliveryOver:  500,
		OrderContactPhone: "911234567890",
	}
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := testConfig()
	kv := kvstore.NewMemoryStore()
	sessions := store.NewSessionStore(kv)
	cart := store.NewCartStore(kv, store.PricingFromConfig(cfg))
	ledger := store.NewOrderLedger(kv)
	checkout := store.NewCheckout(cart, ledger)

	app := fiber.New()
	routes.Setup(app, cfg,
		handlers.NewAuthHandler(sessions, cfg),
		handlers.NewCartHandler(cart),
		handlers.NewOrderHandler(checkout, ledger, cfg),
		handlers.NewHealthHandler(nil),
	)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func register(t *testing.T, app *fiber.App) dto.AuthResponse {
	t.Helper()
	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210", Password: "secret-1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var auth dto.AuthResponse
	decode(t, resp, &auth)
	require.NotEmpty(t, auth.AccessToken)
	return auth
}

func TestRegisterAndDuplicate(t *testing.T) {
	app := setupApp(t)

	auth := register(t, app)
	assert.Equal(t, "asha@example.com", auth.User.Email)

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Asha Again", Email: "asha@example.com", Phone: "1", Password: "secret-2",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	app := setupApp(t)
	register(t, app)

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "asha@example.com", Password: "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "asha@example.com", Password: "secret-1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var auth dto.AuthResponse
	decode(t, resp, &auth)
	assert.NotEmpty(t, auth.AccessToken)
}

func TestResetPasswordFlow(t *testing.T) {
	app := setupApp(t)
	register(t, app)

	resp := doJSON(t, app, fiber.MethodPost, "/api/auth/reset-password", "", dto.ResetPasswordRequest{
		Email: "nobody@example.com", NewPassword: "new-secret",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/reset-password", "", dto.ResetPasswordRequest{
		Email: "asha@example.com", NewPassword: "new-secret",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/auth/login", "", dto.LoginRequest{
		Email: "asha@example.com", Password: "new-secret",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCartRequiresToken(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/cart/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	app := setupApp(t)
	token := register(t, app).AccessToken

	resp := doJSON(t, app, fiber.MethodPost, "/api/cart/items", token, dto.AddItemRequest{
		ItemID: "paneer-tikka", Name: "Paneer Tikka", UnitPrice: 200, Quantity: 2,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/cart/items", token, dto.AddItemRequest{
		ItemID: "garlic-naan", Name: "Garlic Naan", UnitPrice: 150,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var cart dto.CartResponse
	decode(t, resp, &cart)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 3, cart.Count)
	assert.InDelta(t, 550, cart.Totals.Subtotal, 1e-9)
	assert.InDelta(t, 577.5, cart.Totals.Total, 1e-9)

	resp = doJSON(t, app, fiber.MethodPost, "/api/checkout", token, dto.CheckoutRequest{
		Name: "Asha", Phone: "9876543210", Address: "12 Lake Road", PaymentMethod: "upi",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var placed dto.CheckoutResponse
	decode(t, resp, &placed)
	assert.NotEmpty(t, placed.Order.ID)
	assert.InDelta(t, 577.5, placed.Order.Total, 1e-9)
	assert.Contains(t, placed.Summary, "Paneer Tikka x 2")
	assert.Contains(t, placed.MessageURL, "https://wa.me/911234567890?text=")

	resp = doJSON(t, app, fiber.MethodGet, "/api/cart/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	decode(t, resp, &cart)
	assert.Empty(t, cart.Lines, "cart must be empty after checkout")

	resp = doJSON(t, app, fiber.MethodGet, "/api/orders", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var orders dto.OrdersResponse
	decode(t, resp, &orders)
	require.Len(t, orders.Orders, 1)
	assert.Equal(t, placed.Order.ID, orders.Orders[0].ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	app := setupApp(t)
	token := register(t, app).AccessToken

	resp := doJSON(t, app, fiber.MethodPost, "/api/checkout", token, dto.CheckoutRequest{
		Name: "Asha", Phone: "9876543210", Address: "12 Lake Road", PaymentMethod: "cod",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestCheckoutValidation(t *testing.T) {
	app := setupApp(t)
	token := register(t, app).AccessToken

	resp := doJSON(t, app, fiber.MethodPost, "/api/cart/items", token, dto.AddItemRequest{
		ItemID: "a", Name: "A", UnitPrice: 100, Quantity: 1,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/checkout", token, dto.CheckoutRequest{
		Phone: "9876543210", Address: "12 Lake Road", PaymentMethod: "cod",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, fiber.MethodPost, "/api/checkout", token, dto.CheckoutRequest{
		Name: "Asha", Phone: "9876543210", Address: "12 Lake Road", PaymentMethod: "cheque",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, fiber.MethodGet, "/api/health", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var health dto.HealthResponse
	decode(t, resp, &health)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "in-memory", health.DB)
}
