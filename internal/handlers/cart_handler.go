package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	service *services.CartService
}

func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{service: service}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/:itemId", h.HandleAddToCart)
	cartRoutes.Delete("/:id", h.HandleRemoveFromCart)
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, total, err := h.service.GetCart(c.UserContext(), middleware.AuthFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": cart,
		"total": total,
	})
}

// HandleAddToCart adds one unit of the item and returns the cart row.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	ci, err := h.service.AddToCart(c.UserContext(), middleware.AuthFrom(c), c.Params("itemId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ci)
}

func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	ci, err := h.service.RemoveFromCart(c.UserContext(), middleware.AuthFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(ci)
}
