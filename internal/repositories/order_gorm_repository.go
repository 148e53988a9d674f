package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, models.PersistenceErr("failed to list orders", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NotFoundf("order with ID %s not found", id)
		}
		return nil, models.PersistenceErr("failed to get order", err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) CreateFromCheckout(ctx context.Context, order *models.Order, paid map[string]int) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.New().String()
		order.Items[i].OrderID = order.ID
		order.Items[i].UserID = order.UserID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for id, qty := range paid {
			if err := consumeCartRow(tx, order.UserID, id, qty); err != nil {
				return fmt.Errorf("clear cart: %w", err)
			}
		}

		res := tx.Model(&models.ChargeRecord{}).
			Where("charge_id = ? AND status = ?", order.Charge, models.ChargeCaptured).
			Updates(map[string]any{"status": models.ChargeRecorded, "order_id": order.ID})
		if res.Error != nil {
			return fmt.Errorf("mark charge recorded: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("mark charge recorded: no captured charge %s", order.Charge)
		}
		return nil
	})
}

// consumeCartRow removes qty units from a cart row. Units added after the
// charge stay in the cart; a row that is already gone is left alone.
func consumeCartRow(tx *gorm.DB, userID, id string, qty int) error {
	res := tx.Where("id = ? AND user_id = ? AND quantity <= ?", id, userID, qty).
		Delete(&models.CartItem{})
	if res.Error != nil || res.RowsAffected > 0 {
		return res.Error
	}
	return tx.Model(&models.CartItem{}).
		Where("id = ? AND user_id = ? AND quantity > ?", id, userID, qty).
		Update("quantity", gorm.Expr("quantity - ?", qty)).Error
}
