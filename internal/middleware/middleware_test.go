package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubIdentifier map[string]models.AuthContext

func (s stubIdentifier) Identify(_ context.Context, token string) (models.AuthContext, error) {
	ac, ok := s[token]
	if !ok {
		return models.AuthContext{}, errors.New("invalid token")
	}
	return ac, nil
}

func whoAmIApp(id Identifier) *fiber.App {
	app := fiber.New()
	app.Use(Identify(id))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(AuthFrom(c).UserID)
	})
	return app
}

func TestIdentify(t *testing.T) {
	app := whoAmIApp(stubIdentifier{
		"good": {UserID: "u1", User: &models.User{ID: "u1"}},
	})

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{name: "cookie", cookie: "good", want: "u1"},
		{name: "bearer header", header: "Bearer good", want: "u1"},
		{name: "invalid token is anonymous", cookie: "bad", want: ""},
		{name: "no token is anonymous", want: ""},
		{name: "malformed header", header: "good", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			body := make([]byte, 16)
			n, _ := resp.Body.Read(body)
			assert.Equal(t, tt.want, string(body[:n]))
		})
	}
}

func TestRateLimiter_Returns429WhenLimitExceeded(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 2, CleanupInterval: time.Minute})
	defer rl.Stop()

	app := fiber.New()
	app.Use(rl.Handler())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "request %d", i)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
	assert.Equal(t, 1, rl.Count())
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, CleanupInterval: time.Hour})
	defer rl.Stop()

	rl.limiterFor("10.0.0.1")
	rl.limiterFor("10.0.0.2")
	require.Equal(t, 2, rl.Count())

	rl.cleanup(time.Now())
	assert.Equal(t, 2, rl.Count())

	rl.cleanup(time.Now().Add(3 * time.Hour))
	assert.Equal(t, 0, rl.Count())
}
