package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create inserts a user. A taken email surfaces as models.ErrConflict.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewError(models.KindConflict, fmt.Sprintf("email %s is already registered", user.Email), err)
		}
		return models.PersistenceErr("failed to create user", err)
	}
	return nil
}

func (r *GORMUserRepository) first(ctx context.Context, notFound string, query string, args ...any) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("%s", notFound)
		}
		return nil, models.PersistenceErr("failed to get user", err)
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.first(ctx, fmt.Sprintf("user with ID %s not found", id), "id = ?", id)
}

// GetByEmail retrieves a user by their (already normalized) email.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, fmt.Sprintf("no such user found for email %s", email), "email = ?", email)
}

func (r *GORMUserRepository) GetByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	return r.first(ctx, "reset token not found", "reset_token = ? AND reset_token_expiry > ?", token, now.UTC())
}

// Update saves every column of user, including cleared reset fields.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Save(user)
	if res.Error != nil {
		return models.PersistenceErr("failed to update user", res.Error)
	}
	return nil
}

// UpdatePermissions replaces the user's permission set.
func (r *GORMUserRepository) UpdatePermissions(ctx context.Context, id string, perms []models.Permission) error {
	res := r.db.WithContext(ctx).Model(&models.User{ID: id}).Select("permissions").Updates(&models.User{Permissions: perms})
	if res.Error != nil {
		return models.PersistenceErr("failed to update permissions", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFoundf("user with ID %s not found", id)
	}
	return nil
}

func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, models.PersistenceErr("failed to list users", err)
	}
	return users, nil
}
