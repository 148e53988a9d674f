package repositories

import (
	"context"

	"storefront/internal/models"
)

// ItemRepository defines the interface for item data access.
type ItemRepository interface {
	GetAll(ctx context.Context) ([]models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Update(ctx context.Context, item *models.Item) error
	// Delete removes the item and any cart rows that reference it.
	Delete(ctx context.Context, id string) error
}
