package middleware

import (
	"context"
	"log/slog"
	"strings"

	"storefront/internal/models"

	"github.com/gofiber/fiber/v2"
)

// TokenCookie is the cookie carrying the session JWT.
const TokenCookie = "token"

const authContextKey = "auth"

// Identifier resolves a session token to an AuthContext.
type Identifier interface {
	Identify(ctx context.Context, token string) (models.AuthContext, error)
}

// Identify attaches the caller's AuthContext to every request. A missing or
// invalid token yields an anonymous context; rejecting anonymous callers is
// left to the operations themselves.
func Identify(identifier Identifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac := models.AuthContext{}

		if token := tokenFromRequest(c); token != "" {
			resolved, err := identifier.Identify(c.UserContext(), token)
			if err != nil {
				slog.Debug("ignoring invalid session token",
					slog.String("path", c.Path()),
					slog.String("error", err.Error()),
				)
			} else {
				ac = resolved
			}
		}

		c.Locals(authContextKey, ac)
		return c.Next()
	}
}

// AuthFrom returns the AuthContext stored by Identify, or an anonymous one.
func AuthFrom(c *fiber.Ctx) models.AuthContext {
	ac, _ := c.Locals(authContextKey).(models.AuthContext)
	return ac
}

// tokenFromRequest prefers the session cookie and falls back to a Bearer
// Authorization header.
func tokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies(TokenCookie); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
