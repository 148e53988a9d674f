package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// Increment upserts on the (user_id, item_id) unique index so two concurrent
// adds can never produce two rows.
func (r *GORMCartRepository) Increment(ctx context.Context, userID, itemID string) (*models.CartItem, error) {
	db := r.db.WithContext(ctx)

	row := models.CartItem{
		ID:       uuid.New().String(),
		UserID:   userID,
		ItemID:   itemID,
		Quantity: 1,
	}
	err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + 1"),
			"updated_at": db.NowFunc(),
		}),
	}).Create(&row).Error
	if err != nil {
		return nil, models.PersistenceErr("failed to add item to cart", err)
	}

	var saved models.CartItem
	err = db.Preload("Item").
		Where("user_id = ? AND item_id = ?", userID, itemID).
		First(&saved).Error
	if err != nil {
		return nil, models.PersistenceErr("failed to reload cart item", err)
	}
	return &saved, nil
}

func (r *GORMCartRepository) GetByID(ctx context.Context, id string) (*models.CartItem, error) {
	var ci models.CartItem
	if err := r.db.WithContext(ctx).Preload("Item").First(&ci, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("no cart item found for ID %s", id)
		}
		return nil, models.PersistenceErr("failed to get cart item", err)
	}
	return &ci, nil
}

func (r *GORMCartRepository) ListByUser(ctx context.Context, userID string) ([]models.CartItem, error) {
	var cart []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Item").
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&cart).Error
	if err != nil {
		return nil, models.PersistenceErr("failed to load cart", err)
	}
	return cart, nil
}

func (r *GORMCartRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id)
	if res.Error != nil {
		return models.PersistenceErr("failed to delete cart item", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFoundf("no cart item found for ID %s", id)
	}
	return nil
}
