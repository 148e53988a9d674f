package repositories

import (
	"context"
	"errors"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMItemRepository is a GORM implementation of ItemRepository.
type GORMItemRepository struct {
	db *gorm.DB
}

// NewGORMItemRepository creates a new instance of GORMItemRepository.
func NewGORMItemRepository(db *gorm.DB) *GORMItemRepository {
	return &GORMItemRepository{
		db: db,
	}
}

// GetAll retrieves all items, newest first.
func (r *GORMItemRepository) GetAll(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, models.PersistenceErr("failed to get all items", err)
	}
	return items, nil
}

// GetByID retrieves a single item by its ID from the database.
func (r *GORMItemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("item with ID %s not found", id)
		}
		return nil, models.PersistenceErr("failed to get item", err)
	}
	return &item, nil
}

// Create creates a new item in the database.
func (r *GORMItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return models.PersistenceErr("failed to create item", err)
	}
	return nil
}

// Update writes the editable columns of item. Ownership is never changed here.
func (r *GORMItemRepository) Update(ctx context.Context, item *models.Item) error {
	res := r.db.WithContext(ctx).Model(&models.Item{ID: item.ID}).
		Select("title", "description", "image", "large_image", "price").
		Updates(item)
	if res.Error != nil {
		return models.PersistenceErr("failed to update item", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NotFoundf("item with ID %s not found for update", item.ID)
	}
	return nil
}

// Delete deletes an item and the cart rows pointing at it in one transaction.
func (r *GORMItemRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return models.PersistenceErr("failed to remove item from carts", err)
		}
		res := tx.Delete(&models.Item{}, "id = ?", id)
		if res.Error != nil {
			return models.PersistenceErr("failed to delete item", res.Error)
		}
		if res.RowsAffected == 0 {
			return models.NotFoundf("item with ID %s not found for deletion", id)
		}
		return nil
	})
}
