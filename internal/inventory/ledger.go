// Package inventory maintains per-color stock counts as orders are
// fulfilled. All mutation goes through the store's atomic read-modify-write
// primitive; a plain read-then-write path does not exist.
package inventory

import (
	"context"
	"log/slog"

	"github.com/ivkovb/printstudio/internal/domain"
	"github.com/ivkovb/printstudio/internal/store"
	"github.com/ivkovb/printstudio/internal/telemetry"
)

// Ledger applies stock decrements for confirmed orders.
type Ledger struct {
	inventory store.InventoryStore
	logger    *slog.Logger
	metrics   *telemetry.BusinessMetrics
}

// NewLedger creates a ledger over the given inventory store.
func NewLedger(inventory store.InventoryStore, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *Ledger {
	return &Ledger{
		inventory: inventory,
		logger:    logger,
		metrics:   metrics,
	}
}

// DecrementStock reduces stock for one order line item.
//
// The decrement runs as a single atomic transaction against the backing
// store: the current document state is re-read inside the transaction, the
// matching color's stock is clamped at 0 (entries are never removed; a
// sold-out color stays visible), the aggregate stock is recomputed from
// the per-color counts, and both are committed together with an update
// timestamp.
//
// A missing inventory record is a logged no-op: the order is already
// persisted and is never rolled back because a product was renamed or
// removed. Conflict exhaustion and network errors are returned for the
// caller to log; they must not abort decrements of sibling line items.
func (l *Ledger) DecrementStock(ctx context.Context, productID, color string, quantity int) error {
	const op = "inventory.decrement"

	if quantity < 1 {
		return domain.Errorf(domain.EINVALID, op, "quantity must be at least 1, got %d", quantity)
	}

	err := l.inventory.Mutate(ctx, productID, func(p *domain.Product) bool {
		if color != "" {
			if cs := p.FindColor(color); cs != nil {
				cs.Stock -= quantity
				if cs.Stock < 0 {
					cs.Stock = 0
				}
			} else {
				l.logger.Warn("order references unknown color, only aggregate recomputed",
					slog.String("product_id", productID),
					slog.String("color", color),
				)
			}
			p.Stock = p.AggregateStock()
			return true
		}

		// No color on the line item. Products tracked per color still get
		// their aggregate re-derived; colorless records decrement the
		// aggregate directly.
		if len(p.ColorStock) > 0 {
			p.Stock = p.AggregateStock()
			return true
		}
		p.Stock -= quantity
		if p.Stock < 0 {
			p.Stock = 0
		}
		return true
	})

	if err != nil {
		if domain.IsCode(err, domain.ENOTFOUND) {
			l.logger.Info("inventory record missing, decrement skipped",
				slog.String("product_id", productID),
			)
			l.metrics.RecordDecrementSkipped()
			return nil
		}
		l.metrics.RecordDecrementFailed(domain.ErrorCode(err))
		return domain.WrapError(err, domain.EUNAVAILABLE, op, "stock decrement not committed")
	}

	l.metrics.RecordDecrement()
	l.logger.Debug("stock decremented",
		slog.String("product_id", productID),
		slog.String("color", color),
		slog.Int("quantity", quantity),
	)
	return nil
}
