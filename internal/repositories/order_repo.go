package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// CreateFromCheckout persists order with its items, takes the paid
	// quantities out of the order user's cart and marks the order's charge as
	// recorded. All three happen in one transaction. paid maps a cart row ID
	// to the quantity that was charged for it: a row still at that quantity
	// is deleted, a row that grew since keeps the difference.
	CreateFromCheckout(ctx context.Context, order *models.Order, paid map[string]int) error
}
