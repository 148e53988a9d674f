package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"storefront/internal/config"
	"storefront/internal/guards"
	"storefront/internal/metrics"
	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/repositories"
	"storefront/pkg/rabbitmq"
)

// EventPublisher is the subset of the RabbitMQ client used for order events.
type EventPublisher interface {
	PublishJSON(ctx context.Context, queue string, payload any) error
}

// CheckoutDeps groups the collaborators of CheckoutService.
type CheckoutDeps struct {
	Carts   repositories.CartRepository
	Orders  repositories.OrderRepository
	Charges repositories.ChargeRepository
	Locks   repositories.CheckoutLockRepository
	Gateway payment.Gateway
	// Events may be nil, in which case no order.created event is sent.
	Events  EventPublisher
	Metrics metrics.Recorder
}

// CheckoutService turns a user's cart into a paid order.
type CheckoutService struct {
	deps           CheckoutDeps
	cfg            config.CheckoutConfig
	currency       string
	paymentTimeout time.Duration
}

func NewCheckoutService(deps CheckoutDeps, cfg config.CheckoutConfig, pay config.PaymentConfig) *CheckoutService {
	if deps.Metrics == nil {
		deps.Metrics = metrics.Nop{}
	}
	return &CheckoutService{
		deps:           deps,
		cfg:            cfg,
		currency:       pay.Currency,
		paymentTimeout: pay.Timeout,
	}
}

// Checkout charges source for the caller's cart and records the order.
//
// The charge is attempted exactly once. Failures before it leave no trace;
// failures after it return KindUnreconciledCharge with the charge id, and a
// captured ChargeRecord is left for reconciliation whenever the ledger write
// itself succeeded.
func (s *CheckoutService) Checkout(ctx context.Context, ac models.AuthContext, source string) (*models.Order, error) {
	start := time.Now()
	order, outcome, err := s.checkout(ctx, ac, source)
	s.deps.Metrics.RecordCheckout(outcome, time.Since(start))
	return order, err
}

func (s *CheckoutService) checkout(ctx context.Context, ac models.AuthContext, source string) (*models.Order, string, error) {
	if err := guards.RequireIdentity(ac).Err(); err != nil {
		return nil, metrics.OutcomeRejected, err
	}
	if strings.TrimSpace(source) == "" {
		return nil, metrics.OutcomeRejected, models.NewError(models.KindValidation, "payment token is required", nil)
	}

	// From here on a client disconnect must not abandon a half-finished
	// checkout; only the payment timeout bounds the gateway call.
	ctx = context.WithoutCancel(ctx)
	log := slog.With(slog.String("user_id", ac.UserID))

	lease, err := s.deps.Locks.Acquire(ctx, ac.UserID, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, models.ErrCheckoutInProgress) {
			return nil, metrics.OutcomeInProgress, err
		}
		return nil, metrics.OutcomeRejected, err
	}
	defer func() {
		if err := s.deps.Locks.Release(ctx, ac.UserID, lease); err != nil {
			log.Error("failed to release checkout lock", slog.String("error", err.Error()))
		}
	}()

	cart, err := s.deps.Carts.ListByUser(ctx, ac.UserID)
	if err != nil {
		return nil, metrics.OutcomeRejected, err
	}
	if len(cart) == 0 && !s.cfg.AllowEmptyCart {
		return nil, metrics.OutcomeEmptyCart, models.ErrEmptyCart
	}
	total, lines := AggregateCart(cart)
	paid := make(map[string]int, len(cart))
	for _, ci := range cart {
		paid[ci.ID] = ci.Quantity
	}

	charge, err := s.charge(ctx, total, source)
	if err != nil {
		if errors.Is(err, models.ErrPaymentTimeout) {
			log.Warn("payment timed out, charge outcome unknown", slog.Int64("amount", total))
			return nil, metrics.OutcomePaymentTimeout, err
		}
		log.Info("payment failed", slog.Int64("amount", total), slog.String("error", err.Error()))
		return nil, metrics.OutcomePaymentFailed, err
	}

	log = log.With(slog.String("charge_id", charge.ID))
	log.Info("charge captured", slog.Int64("amount", charge.Amount))
	s.deps.Metrics.RecordCharged(charge.Amount)

	currency := charge.Currency
	if currency == "" {
		currency = s.currency
	}

	ledger := &models.ChargeRecord{
		ChargeID: charge.ID,
		UserID:   ac.UserID,
		Amount:   charge.Amount,
		Currency: currency,
		Status:   models.ChargeCaptured,
	}
	if err := s.deps.Charges.Record(ctx, ledger); err != nil {
		log.Error("failed to record captured charge", slog.String("error", err.Error()))
		return nil, metrics.OutcomeUnreconciled, unreconciled(charge.ID, "charge captured but could not be recorded", err)
	}

	if charge.Amount != total {
		log.Error("confirmed charge amount differs from cart total",
			slog.Int64("amount", charge.Amount),
			slog.Int64("cart_total", total),
		)
		return nil, metrics.OutcomeUnreconciled, unreconciled(charge.ID, "confirmed charge amount differs from cart total", nil)
	}

	order := &models.Order{
		UserID:   ac.UserID,
		Total:    charge.Amount,
		Currency: currency,
		Charge:   charge.ID,
		Items:    lines,
	}
	if err := s.deps.Orders.CreateFromCheckout(ctx, order, paid); err != nil {
		log.Error("order not persisted after charge", slog.String("error", err.Error()))
		return nil, metrics.OutcomeUnreconciled, unreconciled(charge.ID, "charge captured but order could not be saved", err)
	}

	log.Info("order created", slog.String("order_id", order.ID), slog.Int("items", len(order.Items)))
	s.publishCreated(ctx, order)
	return order, metrics.OutcomeSuccess, nil
}

// charge makes the single gateway call under the payment timeout.
func (s *CheckoutService) charge(ctx context.Context, amount int64, source string) (*payment.Charge, error) {
	chargeCtx, cancel := context.WithTimeout(ctx, s.paymentTimeout)
	defer cancel()

	charge, err := s.deps.Gateway.Charge(chargeCtx, amount, s.currency, source)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(chargeCtx.Err(), context.DeadlineExceeded) {
			return nil, models.NewError(models.KindPaymentTimeout, "payment gateway timed out; the charge may still complete", err)
		}
		return nil, models.NewError(models.KindPaymentFailed, "payment failed", err)
	}
	if charge == nil || charge.ID == "" {
		return nil, models.NewError(models.KindPaymentFailed, "payment gateway returned no charge", nil)
	}
	return charge, nil
}

func (s *CheckoutService) publishCreated(ctx context.Context, order *models.Order) {
	if s.deps.Events == nil {
		return
	}
	evt := models.OrderCreatedEvent{
		OrderID:  order.ID,
		UserID:   order.UserID,
		Total:    order.Total,
		Currency: order.Currency,
		ChargeID: order.Charge,
		Items:    len(order.Items),
		At:       order.CreatedAt,
	}
	if err := s.deps.Events.PublishJSON(ctx, rabbitmq.OrderEventsQueue, evt); err != nil {
		slog.Warn("failed to publish order created event",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}
}

func unreconciled(chargeID, message string, err error) *models.AppError {
	return &models.AppError{
		Kind:     models.KindUnreconciledCharge,
		Message:  message,
		ChargeID: chargeID,
		Err:      err,
	}
}
