package handlers

import (
	"time"

	"storefront/internal/guards"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService  *services.AuthService
	validate     *validator.Validate
	tokenTTL     time.Duration
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokenTTL time.Duration, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		validate:     validator.New(),
		tokenTTL:     tokenTTL,
		cookieSecure: cookieSecure,
	}
}

// RegisterRoutes registers the authentication routes. limit, when non-nil,
// guards the credential endpoints.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, limit fiber.Handler) {
	authRoutes := router.Group("/auth")
	if limit != nil {
		authRoutes.Use(limit)
	}
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/signin", h.HandleSignin)
	authRoutes.Post("/signout", h.HandleSignout)
	authRoutes.Post("/request-reset", h.HandleRequestReset)
	authRoutes.Post("/reset", h.HandleResetPassword)

	router.Get("/me", h.HandleMe)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SigninRequest represents the request body for signin.
type SigninRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	ResetToken      string `json:"reset_token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

// sessionCookie builds the session cookie. Clearing must use the same path
// and flags or browsers keep the original.
func (h *AuthHandler) sessionCookie(token string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  expires,
	}
}

func (h *AuthHandler) setSession(c *fiber.Ctx, token string) {
	c.Cookie(h.sessionCookie(token, time.Now().Add(h.tokenTTL)))
}

func sessionResponse(user *models.User, token string) fiber.Map {
	return fiber.Map{
		"user":  user,
		"token": token,
	}
}

// HandleSignup creates an account and starts a session for it.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, token, err := h.authService.Signup(c.UserContext(), req.Name, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	h.setSession(c, token)
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(user, token))
}

// HandleSignin checks credentials and issues a session token.
func (h *AuthHandler) HandleSignin(c *fiber.Ctx) error {
	var req SigninRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, token, err := h.authService.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	h.setSession(c, token)
	return c.JSON(sessionResponse(user, token))
}

// HandleSignout clears the session cookie. It always succeeds.
func (h *AuthHandler) HandleSignout(c *fiber.Ctx) error {
	cleared := h.sessionCookie("", time.Unix(0, 0))
	cleared.MaxAge = -1
	c.Cookie(cleared)
	return c.JSON(fiber.Map{"message": "Goodbye!"})
}

func (h *AuthHandler) HandleRequestReset(c *fiber.Ctx) error {
	var req RequestResetRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	if err := h.authService.RequestReset(c.UserContext(), req.Email); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Thanks! A reset link is on its way."})
}

func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, token, err := h.authService.ResetPassword(c.UserContext(), req.ResetToken, req.Password, req.ConfirmPassword)
	if err != nil {
		return respondError(c, err)
	}
	h.setSession(c, token)
	return c.JSON(sessionResponse(user, token))
}

// HandleMe returns the signed-in user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	ac := middleware.AuthFrom(c)
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return respondError(c, err)
	}
	return c.JSON(ac.User)
}
