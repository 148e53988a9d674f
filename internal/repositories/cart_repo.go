package repositories

import (
	"context"

	"storefront/internal/models"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// Increment adds one unit of itemID to the user's cart, creating the row
	// with quantity 1 if it does not exist. It is a single atomic statement.
	Increment(ctx context.Context, userID, itemID string) (*models.CartItem, error)
	GetByID(ctx context.Context, id string) (*models.CartItem, error)
	// ListByUser returns the user's cart with each Item loaded.
	ListByUser(ctx context.Context, userID string) ([]models.CartItem, error)
	Delete(ctx context.Context, id string) error
}
