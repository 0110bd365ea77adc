// Package jobs defines the background job types exchanged over the message
// bus and the publisher side of the pipeline. Jobs are JSON-encoded and
// carry everything the consumer needs, so workers never reach back into
// the request that produced them.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ivkovb/printstudio/internal/domain"
	"github.com/ivkovb/printstudio/internal/telemetry"
)

// Subject constants for order jobs.
const (
	SubjectOrderPlaced = "orders.placed"
)

// OrderPlacedPayload represents the payload for an order placed job.
// The full order snapshot is embedded so the notification worker can
// compose emails without a store round trip.
type OrderPlacedPayload struct {
	OrderID    string       `json:"order_id"`
	Order      domain.Order `json:"order"`
	EnqueuedAt time.Time    `json:"enqueued_at"`
}

// Publisher enqueues jobs onto the message bus.
type Publisher struct {
	conn    *nats.Conn
	logger  *slog.Logger
	metrics *telemetry.BusinessMetrics
}

// NewPublisher creates a job publisher over an established bus connection.
func NewPublisher(conn *nats.Conn, logger *slog.Logger, metrics *telemetry.BusinessMetrics) *Publisher {
	return &Publisher{
		conn:    conn,
		logger:  logger,
		metrics: metrics,
	}
}

// PublishOrderPlaced enqueues a notification job for a newly placed order.
// Delivery is at-most-once; the caller treats failure as non-fatal.
func (p *Publisher) PublishOrderPlaced(ctx context.Context, orderID string, order domain.Order) error {
	payload := OrderPlacedPayload{
		OrderID:    orderID,
		Order:      order,
		EnqueuedAt: time.Now().UTC(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		p.metrics.RecordJobPublished(err)
		return fmt.Errorf("failed to marshal order placed payload: %w", err)
	}

	if err := p.conn.Publish(SubjectOrderPlaced, data); err != nil {
		p.metrics.RecordJobPublished(err)
		return fmt.Errorf("failed to publish order placed job: %w", err)
	}

	p.metrics.RecordJobPublished(nil)
	p.logger.InfoContext(ctx, "order placed job published",
		"order_id", orderID,
		"subject", SubjectOrderPlaced,
	)

	return nil
}
