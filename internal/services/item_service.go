package services

import (
	"context"
	"fmt"
	"log/slog"

	"storefront/internal/guards"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// Sanitizer cleans user supplied text before it is stored.
type Sanitizer interface {
	Sanitize(raw string) string
}

// ItemInput is the payload for creating an item.
type ItemInput struct {
	Title       string
	Description string
	Image       string
	LargeImage  string
	Price       int64
}

// ItemUpdate carries the fields to change; nil fields are left alone.
type ItemUpdate struct {
	Title       *string
	Description *string
	Image       *string
	LargeImage  *string
	Price       *int64
}

// ItemService handles business logic related to items.
type ItemService struct {
	repo      repositories.ItemRepository
	sanitizer Sanitizer
}

// NewItemService creates a new ItemService.
func NewItemService(repo repositories.ItemRepository, sanitizer Sanitizer) *ItemService {
	return &ItemService{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// GetAllItems retrieves all items.
func (s *ItemService) GetAllItems(ctx context.Context) ([]models.Item, error) {
	return s.repo.GetAll(ctx)
}

// GetItemByID retrieves a single item by its ID.
func (s *ItemService) GetItemByID(ctx context.Context, id string) (*models.Item, error) {
	return s.repo.GetByID(ctx, id)
}

// CreateItem lists a new item owned by the caller.
func (s *ItemService) CreateItem(ctx context.Context, ac models.AuthContext, in ItemInput) (*models.Item, error) {
	if err := guards.RequirePermissions(ac, models.PermissionAdmin, models.PermissionItemCreate).Err(); err != nil {
		return nil, err
	}

	item := &models.Item{
		Title:       s.sanitizer.Sanitize(in.Title),
		Description: s.sanitizer.Sanitize(in.Description),
		Image:       in.Image,
		LargeImage:  in.LargeImage,
		Price:       in.Price,
		UserID:      ac.UserID,
	}
	if item.Title == "" {
		return nil, models.NewError(models.KindValidation, "title is required", nil)
	}
	if err := checkPrice(item.Price); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "item created", slog.String("item_id", item.ID), slog.String("user_id", ac.UserID))
	return item, nil
}

// authorizeMutation re-fetches the item and runs the ownership then
// permission guards for perm.
func (s *ItemService) authorizeMutation(ctx context.Context, ac models.AuthContext, id string, perm models.Permission) (*models.Item, error) {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return nil, err
	}
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guards.CheckOwnershipOrAdmin(ac, item.UserID).Err(); err != nil {
		return nil, err
	}
	if err := guards.RequirePermissions(ac, models.PermissionAdmin, perm).Err(); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies a partial update to an item the caller owns.
func (s *ItemService) UpdateItem(ctx context.Context, ac models.AuthContext, id string, upd ItemUpdate) (*models.Item, error) {
	item, err := s.authorizeMutation(ctx, ac, id, models.PermissionItemUpdate)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := s.sanitizer.Sanitize(*upd.Title)
		if title == "" {
			return nil, models.NewError(models.KindValidation, "title cannot be empty", nil)
		}
		item.Title = title
	}
	if upd.Description != nil {
		item.Description = s.sanitizer.Sanitize(*upd.Description)
	}
	if upd.Image != nil {
		item.Image = *upd.Image
	}
	if upd.LargeImage != nil {
		item.LargeImage = *upd.LargeImage
	}
	if upd.Price != nil {
		if err := checkPrice(*upd.Price); err != nil {
			return nil, err
		}
		item.Price = *upd.Price
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteItem removes an item the caller owns and returns what was deleted.
func (s *ItemService) DeleteItem(ctx context.Context, ac models.AuthContext, id string) (*models.Item, error) {
	item, err := s.authorizeMutation(ctx, ac, id, models.PermissionItemDelete)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "item deleted", slog.String("item_id", id), slog.String("user_id", ac.UserID))
	return item, nil
}

func checkPrice(price int64) error {
	switch {
	case price < 0:
		return models.NewError(models.KindValidation, "price cannot be negative", nil)
	case price > models.MaxItemPrice:
		return models.NewError(models.KindValidation,
			fmt.Sprintf("price cannot exceed %d", models.MaxItemPrice), nil)
	}
	return nil
}
