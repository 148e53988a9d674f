package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Put("/:id/permissions", h.HandleUpdatePermissions)
}

// UpdatePermissionsRequest replaces the user's permission set.
type UpdatePermissionsRequest struct {
	Permissions []models.Permission `json:"permissions" validate:"required,dive,required"`
}

func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	users, err := h.service.ListUsers(c.UserContext(), middleware.AuthFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) HandleUpdatePermissions(c *fiber.Ctx) error {
	var req UpdatePermissionsRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.service.UpdatePermissions(c.UserContext(), middleware.AuthFrom(c), c.Params("id"), req.Permissions)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}
