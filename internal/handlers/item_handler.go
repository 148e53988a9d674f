package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ItemHandler handles HTTP requests for items.
type ItemHandler struct {
	service  *services.ItemService
	validate *validator.Validate
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(service *services.ItemService) *ItemHandler {
	return &ItemHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the item routes with the Fiber app.
func (h *ItemHandler) RegisterRoutes(router fiber.Router) {
	itemRoutes := router.Group("/items")
	itemRoutes.Get("/", h.HandleGetItems)
	itemRoutes.Get("/:id", h.HandleGetItemByID)
	itemRoutes.Post("/", h.HandleCreateItem)
	itemRoutes.Patch("/:id", h.HandleUpdateItem)
	itemRoutes.Delete("/:id", h.HandleDeleteItem)
}

// CreateItemRequest represents the request body for listing an item.
type CreateItemRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description"`
	Image       string `json:"image" validate:"omitempty,url"`
	LargeImage  string `json:"large_image" validate:"omitempty,url"`
	Price       int64  `json:"price" validate:"gte=0,lte=1000000000"`
}

// UpdateItemRequest carries a partial update; absent fields are unchanged.
type UpdateItemRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image" validate:"omitempty,url"`
	LargeImage  *string `json:"large_image" validate:"omitempty,url"`
	Price       *int64  `json:"price" validate:"omitempty,gte=0,lte=1000000000"`
}

func (h *ItemHandler) HandleGetItems(c *fiber.Ctx) error {
	items, err := h.service.GetAllItems(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *ItemHandler) HandleGetItemByID(c *fiber.Ctx) error {
	item, err := h.service.GetItemByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleCreateItem lists a new item owned by the caller.
func (h *ItemHandler) HandleCreateItem(c *fiber.Ctx) error {
	var req CreateItemRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	item, err := h.service.CreateItem(c.UserContext(), middleware.AuthFrom(c), services.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		Price:       req.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *ItemHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	item, err := h.service.UpdateItem(c.UserContext(), middleware.AuthFrom(c), c.Params("id"), services.ItemUpdate{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		LargeImage:  req.LargeImage,
		Price:       req.Price,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// HandleDeleteItem removes an item and echoes it back.
func (h *ItemHandler) HandleDeleteItem(c *fiber.Ctx) error {
	item, err := h.service.DeleteItem(c.UserContext(), middleware.AuthFrom(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}
