package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"storefront/internal/guards"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

// OrderService handles read access to orders and the charge ledger.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	chargeRepo repositories.ChargeRepository
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, chargeRepo repositories.ChargeRepository) *OrderService {
	return &OrderService{
		orderRepo:  orderRepo,
		chargeRepo: chargeRepo,
	}
}

// GetMyOrders retrieves the caller's orders, newest first.
func (s *OrderService) GetMyOrders(ctx context.Context, ac models.AuthContext) ([]models.Order, error) {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return nil, err
	}
	return s.orderRepo.ListByUser(ctx, ac.UserID)
}

// GetOrderByID retrieves a single order the caller owns (or any order for an admin).
func (s *OrderService) GetOrderByID(ctx context.Context, ac models.AuthContext, id string) (*models.Order, error) {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return nil, err
	}
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guards.CheckOwnershipOrAdmin(ac, order.UserID).Err(); err != nil {
		return nil, err
	}
	return order, nil
}

// UnreconciledCharges lists charges that were captured but never attached
// to an order.
func (s *OrderService) UnreconciledCharges(ctx context.Context, ac models.AuthContext) ([]models.ChargeRecord, error) {
	if err := guards.RequirePermissions(ac, models.PermissionAdmin).Err(); err != nil {
		return nil, err
	}
	return s.chargeRepo.ListByStatus(ctx, models.ChargeCaptured)
}

// HandleOrderEvent consumes an order.created message. Fulfilment lives
// outside this service, so the event is only logged.
func HandleOrderEvent(ctx context.Context, body []byte) error {
	var evt models.OrderCreatedEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	if evt.OrderID == "" {
		return fmt.Errorf("order event without order_id")
	}
	slog.InfoContext(ctx, "order event received",
		slog.String("order_id", evt.OrderID),
		slog.String("user_id", evt.UserID),
		slog.String("charge_id", evt.ChargeID),
		slog.Int64("total", evt.Total),
	)
	return nil
}
