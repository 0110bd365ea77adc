// Package worker runs the background notification consumer. It subscribes
// to order jobs on the message bus and dispatches the customer and admin
// emails for each one.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/ivkovb/printstudio/internal/email"
	"github.com/ivkovb/printstudio/internal/jobs"
	"github.com/ivkovb/printstudio/internal/telemetry"
)

// Config holds worker configuration
type Config struct {
	// WorkerID uniquely identifies this worker instance
	WorkerID string

	// QueueGroup is the bus queue group name. Workers in the same group
	// share the subscription, so each job is delivered to one of them.
	QueueGroup string

	// SendTimeout bounds the email dispatch for a single job
	SendTimeout time.Duration
}

// Worker consumes order jobs and sends the notification emails
type Worker struct {
	config       Config
	conn         *nats.Conn
	emailService *email.Service
	metrics      *telemetry.BusinessMetrics
	logger       *slog.Logger
}

// NewWorker creates a new notification worker
func NewWorker(
	conn *nats.Conn,
	emailService *email.Service,
	metrics *telemetry.BusinessMetrics,
	config Config,
	logger *slog.Logger,
) *Worker {
	// Set defaults
	if config.WorkerID == "" {
		config.WorkerID = fmt.Sprintf("worker-%s", uuid.New().String()[:8])
	}
	if config.QueueGroup == "" {
		config.QueueGroup = "notifications"
	}
	if config.SendTimeout == 0 {
		config.SendTimeout = 30 * time.Second
	}

	return &Worker{
		config:       config,
		conn:         conn,
		emailService: emailService,
		metrics:      metrics,
		logger:       logger,
	}
}

// Run subscribes to order jobs and processes them until the context is
// cancelled. The subscription is drained on shutdown so in-flight jobs
// finish before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("worker starting",
		"worker_id", w.config.WorkerID,
		"subject", jobs.SubjectOrderPlaced,
		"queue_group", w.config.QueueGroup,
	)

	sub, err := w.conn.QueueSubscribe(jobs.SubjectOrderPlaced, w.config.QueueGroup, func(msg *nats.Msg) {
		w.handleOrderPlaced(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", jobs.SubjectOrderPlaced, err)
	}

	<-ctx.Done()

	w.logger.Info("worker shutting down", "worker_id", w.config.WorkerID)
	if err := sub.Drain(); err != nil {
		w.logger.Error("failed to drain subscription", "error", err)
	}

	return ctx.Err()
}

// handleOrderPlaced processes a single order placed job.
func (w *Worker) handleOrderPlaced(ctx context.Context, msg *nats.Msg) {
	var payload jobs.OrderPlacedPayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		w.metrics.RecordJobProcessed(err)
		w.logger.Error("failed to unmarshal order placed job",
			"worker_id", w.config.WorkerID,
			"error", err,
		)
		return
	}

	w.logger.Info("processing job",
		"worker_id", w.config.WorkerID,
		"order_id", payload.OrderID,
	)

	// An accepted job keeps its full send window even when the run
	// context is already cancelled, so jobs delivered during drain still
	// go out.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.config.SendTimeout)
	defer cancel()

	data := email.OrderEmailData{
		OrderID: payload.OrderID,
		Order:   payload.Order,
	}

	var failed bool
	if err := w.emailService.SendOrderConfirmation(sendCtx, data); err != nil {
		failed = true
		w.metrics.RecordEmail("order_confirmation", err)
		w.logger.Error("failed to send order confirmation",
			"order_id", payload.OrderID,
			"error", err,
		)
	} else {
		w.metrics.RecordEmail("order_confirmation", nil)
	}

	if err := w.emailService.SendAdminNotification(sendCtx, data); err != nil {
		failed = true
		w.metrics.RecordEmail("admin_notification", err)
		w.logger.Error("failed to send admin notification",
			"order_id", payload.OrderID,
			"error", err,
		)
	} else {
		w.metrics.RecordEmail("admin_notification", nil)
	}

	if failed {
		w.metrics.RecordJobProcessed(fmt.Errorf("one or more notifications failed for order %s", payload.OrderID))
		return
	}

	w.metrics.RecordJobProcessed(nil)
	w.logger.Info("job processed",
		"worker_id", w.config.WorkerID,
		"order_id", payload.OrderID,
	)
}
