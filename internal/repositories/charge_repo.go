package repositories

import (
	"context"
	"errors"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChargeRepository stores the reconciliation ledger.
type ChargeRepository interface {
	Record(ctx context.Context, charge *models.ChargeRecord) error
	ListByStatus(ctx context.Context, status models.ChargeStatus) ([]models.ChargeRecord, error)
}

// CheckoutLockRepository hands out per-user checkout leases.
type CheckoutLockRepository interface {
	// Acquire returns a lease token, or models.ErrCheckoutInProgress while
	// another unexpired lease exists for the user.
	Acquire(ctx context.Context, userID string, ttl time.Duration) (string, error)
	Release(ctx context.Context, userID, token string) error
}

type GORMChargeRepository struct {
	db *gorm.DB
}

func NewGORMChargeRepository(db *gorm.DB) *GORMChargeRepository {
	return &GORMChargeRepository{db: db}
}

func (r *GORMChargeRepository) Record(ctx context.Context, charge *models.ChargeRecord) error {
	if err := r.db.WithContext(ctx).Create(charge).Error; err != nil {
		return models.PersistenceErr("failed to record charge", err)
	}
	return nil
}

func (r *GORMChargeRepository) ListByStatus(ctx context.Context, status models.ChargeStatus) ([]models.ChargeRecord, error) {
	var charges []models.ChargeRecord
	if err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at").Find(&charges).Error; err != nil {
		return nil, models.PersistenceErr("failed to list charges", err)
	}
	return charges, nil
}

type GORMCheckoutLockRepository struct {
	db *gorm.DB
}

func NewGORMCheckoutLockRepository(db *gorm.DB) *GORMCheckoutLockRepository {
	return &GORMCheckoutLockRepository{db: db}
}

func (r *GORMCheckoutLockRepository) Acquire(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	db := r.db.WithContext(ctx)
	now := db.NowFunc()

	// Take over a lease left behind by a crashed checkout.
	if err := db.Where("user_id = ? AND expires_at <= ?", userID, now).Delete(&models.CheckoutLock{}).Error; err != nil {
		return "", models.PersistenceErr("failed to expire checkout lock", err)
	}

	lock := models.CheckoutLock{
		UserID:    userID,
		Token:     uuid.New().String(),
		ExpiresAt: now.Add(ttl),
	}
	if err := db.Create(&lock).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", models.ErrCheckoutInProgress
		}
		return "", models.PersistenceErr("failed to acquire checkout lock", err)
	}
	return lock.Token, nil
}

// Release deletes the lease only if it is still ours.
func (r *GORMCheckoutLockRepository) Release(ctx context.Context, userID, token string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.CheckoutLock{}).Error
	if err != nil {
		return models.PersistenceErr("failed to release checkout lock", err)
	}
	return nil
}
