package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and checkout.
type OrderHandler struct {
	orders   *services.OrderService
	checkout *services.CheckoutService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, checkout *services.CheckoutService) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		checkout: checkout,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/checkout", h.HandleCheckout)

	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)

	router.Get("/admin/charges/unreconciled", h.HandleUnreconciledCharges)
}

// CheckoutRequest carries the payment source token from the client.
type CheckoutRequest struct {
	Token string `json:"token" validate:"required"`
}

// HandleCheckout charges the caller's cart and returns the new order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	order, err := h.checkout.Checkout(c.UserContext(), middleware.AuthFrom(c), req.Token)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the caller's own orders.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.orders.GetMyOrders(c.UserContext(), middleware.AuthFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.orders.GetOrderByID(c.UserContext(), middleware.AuthFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}

func (h *OrderHandler) HandleUnreconciledCharges(c *fiber.Ctx) error {
	charges, err := h.orders.UnreconciledCharges(c.UserContext(), middleware.AuthFrom(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(charges)
}
