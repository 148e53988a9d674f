package repositories

import (
	"context"
	"time"

	"storefront/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByResetToken returns the user holding token only if it expires after now.
	GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePermissions(ctx context.Context, id string, perms []models.Permission) error
	List(ctx context.Context) ([]models.User, error)
}
