// Package service holds the business logic of the order pipeline. The
// checkout service is the single entry point for placing an order; it owns
// the ordering contract between persistence, notification, and inventory
// reconciliation.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ivkovb/printstudio/internal/domain"
	"github.com/ivkovb/printstudio/internal/store"
	"github.com/ivkovb/printstudio/internal/telemetry"
)

// UserIdentity carries the signed-in account attached to an order, if any.
// Guest checkouts leave all fields empty.
type UserIdentity struct {
	ID    string
	Name  string
	Email string
}

// PlaceOrderParams contains everything one checkout attempt submits.
type PlaceOrderParams struct {
	Cart     *domain.Cart
	Shipping domain.ShippingSelection
	Customer domain.CustomerInfo
	Identity UserIdentity
}

// CheckoutService provides business logic for checkout operations
type CheckoutService interface {
	// PlaceOrder runs one checkout attempt end to end and returns the new
	// order id.
	//
	// Flow:
	// 1. Validate cart and customer input (no side effects on failure)
	// 2. Persist the order snapshot (failure here is fatal and retryable)
	// 3. Enqueue the notification job (best-effort, never blocks)
	// 4. Decrement inventory per line item (best-effort, per-item isolation)
	// 5. Clear the cart and report success
	//
	// Once step 2 succeeds the order exists unconditionally; failures in
	// steps 3-4 are logged and never surface to the caller.
	PlaceOrder(ctx context.Context, params PlaceOrderParams) (string, error)
}

// OrderNotifier enqueues the post-checkout notification job.
type OrderNotifier interface {
	PublishOrderPlaced(ctx context.Context, orderID string, order domain.Order) error
}

// StockDecrementer applies one transactional stock decrement.
type StockDecrementer interface {
	DecrementStock(ctx context.Context, productID, color string, quantity int) error
}

type checkoutService struct {
	orders   store.OrderStore
	ledger   StockDecrementer
	notifier OrderNotifier
	validate *validator.Validate
	metrics  *telemetry.BusinessMetrics
	logger   *slog.Logger
}

// NewCheckoutService creates a new CheckoutService instance.
// notifier may be nil when no message bus is configured; notification is
// then skipped rather than failed.
func NewCheckoutService(
	orders store.OrderStore,
	ledger StockDecrementer,
	notifier OrderNotifier,
	metrics *telemetry.BusinessMetrics,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutService{
		orders:   orders,
		ledger:   ledger,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		metrics:  metrics,
		logger:   logger,
	}
}

func (s *checkoutService) PlaceOrder(ctx context.Context, params PlaceOrderParams) (string, error) {
	const op = "checkout.place_order"

	// Step 1: validate. Rejections here have no side effects.
	if err := s.validateInput(params); err != nil {
		s.metrics.RecordCheckoutRejected("validation")
		return "", err
	}

	order := s.buildOrder(params)

	// Step 2: persist. Failure is fatal to this attempt; nothing was
	// decremented and no notification was sent, so retrying is safe.
	orderID, err := s.orders.InsertOrder(ctx, &order)
	if err != nil {
		s.metrics.RecordCheckoutRejected("persistence")
		s.logger.ErrorContext(ctx, "failed to persist order",
			"op", op,
			"error", err,
		)
		return "", ErrOrderNotPersisted
	}
	order.ID = orderID

	s.logger.InfoContext(ctx, "order persisted",
		"order_id", orderID,
		"total", order.Total,
		"items", len(order.Items),
	)

	// Steps 3-4 are housekeeping. The order is already real, so their
	// failures are contained here and never roll anything back.
	s.notify(ctx, orderID, order)
	s.decrementInventory(ctx, orderID, order.Items)

	// Step 5: complete.
	params.Cart.Clear()
	s.metrics.RecordOrderCreated(order.Total)

	return orderID, nil
}

func (s *checkoutService) validateInput(params PlaceOrderParams) error {
	if params.Cart == nil || params.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	if params.Shipping.ID == "" {
		return ErrMissingShippingMethod
	}

	if err := s.validate.Struct(params.Customer); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			var verr error
			for _, fe := range fieldErrs {
				field := strings.ToLower(fe.Field())
				msg := "This field is required"
				if fe.Tag() == "email" {
					msg = "Must be a valid email address"
				}
				if verr == nil {
					verr = domain.NewValidationError("checkout.place_order", field, msg)
				} else {
					verr = domain.AddFieldError(verr, field, msg)
				}
			}
			return verr
		}
		return domain.Invalid("checkout.place_order", "Invalid customer information")
	}

	return nil
}

// buildOrder freezes the checkout input into an order snapshot. Line totals
// are re-derived from unit prices so a stale client copy cannot smuggle in
// an inconsistent total.
func (s *checkoutService) buildOrder(params PlaceOrderParams) domain.Order {
	items := make([]domain.LineItem, len(params.Cart.Items))
	copy(items, params.Cart.Items)
	for i := range items {
		items[i].Normalize()
	}

	subtotal := 0.0
	for _, item := range items {
		subtotal += item.TotalPrice
	}

	return domain.Order{
		Items:          items,
		ShippingMethod: params.Shipping,
		Total:          domain.Round2(subtotal + params.Shipping.Price),
		CustomerInfo:   params.Customer,
		Status:         domain.StatusPending,
		UserID:         params.Identity.ID,
		UserName:       params.Identity.Name,
		UserEmail:      params.Identity.Email,
		CreatedAt:      time.Now().UTC(),
	}
}

func (s *checkoutService) notify(ctx context.Context, orderID string, order domain.Order) {
	if s.notifier == nil {
		s.logger.DebugContext(ctx, "no notifier configured, skipping order notification",
			"order_id", orderID,
		)
		return
	}

	if err := s.notifier.PublishOrderPlaced(ctx, orderID, order); err != nil {
		s.logger.ErrorContext(ctx, "failed to enqueue order notification",
			"order_id", orderID,
			"error", err,
		)
	}
}

func (s *checkoutService) decrementInventory(ctx context.Context, orderID string, items []domain.LineItem) {
	for _, item := range items {
		err := s.ledger.DecrementStock(ctx, item.ProductID, item.SelectedColor, item.Quantity)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to decrement stock",
				"order_id", orderID,
				"product_id", item.ProductID,
				"color", item.SelectedColor,
				"quantity", item.Quantity,
				"error", err,
			)
		}
	}
}
