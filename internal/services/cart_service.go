package services

import (
	"context"

	"storefront/internal/guards"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

type CartService struct {
	cartRepo repositories.CartRepository
	itemRepo repositories.ItemRepository
}

func NewCartService(cartRepo repositories.CartRepository, itemRepo repositories.ItemRepository) *CartService {
	return &CartService{cartRepo: cartRepo, itemRepo: itemRepo}
}

// AddToCart adds one unit of itemID to the caller's cart.
func (s *CartService) AddToCart(ctx context.Context, ac models.AuthContext, itemID string) (*models.CartItem, error) {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return nil, err
	}
	if _, err := s.itemRepo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return s.cartRepo.Increment(ctx, ac.UserID, itemID)
}

// RemoveFromCart deletes a cart row the caller owns and returns it.
func (s *CartService) RemoveFromCart(ctx context.Context, ac models.AuthContext, cartItemID string) (*models.CartItem, error) {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return nil, err
	}
	ci, err := s.cartRepo.GetByID(ctx, cartItemID)
	if err != nil {
		return nil, err
	}
	if err := guards.CheckOwnership(ci.UserID, ac.UserID).Err(); err != nil {
		return nil, err
	}
	if err := s.cartRepo.Delete(ctx, ci.ID); err != nil {
		return nil, err
	}
	return ci, nil
}

// GetCart returns the caller's cart and its current total.
func (s *CartService) GetCart(ctx context.Context, ac models.AuthContext) ([]models.CartItem, int64, error) {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return nil, 0, err
	}
	cart, err := s.cartRepo.ListByUser(ctx, ac.UserID)
	if err != nil {
		return nil, 0, err
	}
	total, _ := AggregateCart(cart)
	return cart, total, nil
}
