package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockGateway is a mock implementation of payment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Charge(ctx context.Context, amount int64, currency, source string) (*payment.Charge, error) {
	args := m.Called(ctx, amount, currency, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Charge), args.Error(1)
}

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		AppPort:     ":0",
		FrontendURL: "http://localhost:7777",
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		},
		Auth: config.AuthConfig{
			JWTSecret:     "test_jwt_secret",
			TokenTTL:      time.Hour,
			ResetTokenTTL: time.Hour,
			DefaultPermissions: []models.Permission{
				models.PermissionUser, models.PermissionItemCreate,
				models.PermissionItemUpdate, models.PermissionItemDelete,
			},
			RatePerMinute: 1000,
		},
		Payment:  config.PaymentConfig{Currency: "USD", Timeout: time.Second},
		Checkout: config.CheckoutConfig{LockTTL: time.Minute, AllowEmptyCart: true},
	}
}

func newTestApp(t *testing.T, gateway payment.Gateway) *fiber.App {
	t.Helper()
	cfg := testConfig()

	db, err := database.Open(context.Background(), cfg.Database)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	app, cleanup := NewApp(cfg, db, AppDeps{
		Gateway:  gateway,
		Notifier: notify.NewLogNotifier(slog.Default()),
		Registry: prometheus.NewRegistry(),
	})
	t.Cleanup(cleanup)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestHealthCheck(t *testing.T) {
	app := newTestApp(t, new(MockGateway))

	resp := doJSON(t, app, http.MethodGet, "/health", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	bodyBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(bodyBytes), `"status":"healthy"`)
	assert.Contains(t, string(bodyBytes), `"database":"up"`)
}

func TestUnauthenticatedMutationsAreRejected(t *testing.T) {
	app := newTestApp(t, new(MockGateway))

	resp := doJSON(t, app, http.MethodPost, "/api/v1/items", "", map[string]any{"title": "lamp", "price": 100})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", "not-a-token", map[string]any{"token": "tok_visa"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_AUTHENTICATED", body["code"])
}

func TestCheckoutIsCountedInMetrics(t *testing.T) {
	gateway := new(MockGateway)
	app := newTestApp(t, gateway)

	resp := doJSON(t, app, http.MethodPost, "/api/v1/auth/signup", "", map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&session))
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/items", session.Token, map[string]any{"title": "lamp", "price": 650})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item models.Item
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&item))
	resp.Body.Close()

	for i := 0; i < 2; i++ {
		resp = doJSON(t, app, http.MethodPost, "/api/v1/cart/"+item.ID, session.Token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	gateway.On("Charge", mock.Anything, int64(1300), "USD", "tok_visa").
		Return(&payment.Charge{ID: "ch_main", Amount: 1300, Currency: "USD"}, nil).Once()

	resp = doJSON(t, app, http.MethodPost, "/api/v1/checkout", session.Token, map[string]string{"token": "tok_visa"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	scrape, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(scrape), `storefront_checkouts_total{outcome="success"} 1`)
	assert.Contains(t, string(scrape), `storefront_charged_minor_units_total 1300`)

	gateway.AssertExpectations(t)
}
