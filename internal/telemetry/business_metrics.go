package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability
// of the order pipeline. A nil *BusinessMetrics is valid and records
// nothing, so pure unit tests can pass a zero value.
type BusinessMetrics struct {
	// Checkout
	OrdersCreated    prometheus.Counter
	OrderValue       prometheus.Histogram
	CheckoutRejected *prometheus.CounterVec

	// Inventory reconciliation
	InventoryDecrements       prometheus.Counter
	InventoryDecrementFailed  *prometheus.CounterVec
	InventoryDecrementSkipped prometheus.Counter

	// Notification pipeline
	JobsPublished     prometheus.Counter
	JobsPublishFailed prometheus.Counter
	JobsProcessed     prometheus.Counter
	JobsFailed        prometheus.Counter
	EmailSent         *prometheus.CounterVec
	EmailFailed       *prometheus.CounterVec
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "printstudio"
	}

	subsystem := "business"

	return &BusinessMetrics{
		OrdersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "orders_created_total",
			Help:      "Total orders persisted by checkout",
		}),
		OrderValue: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "order_value",
			Help:      "Distribution of order totals, including shipping",
			Buckets:   []float64{5, 10, 20, 50, 100, 200, 500},
		}),
		CheckoutRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkout_rejected_total",
			Help:      "Total rejected checkout attempts",
		}, []string{"reason"}), // reason: validation, persistence

		InventoryDecrements: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inventory_decrements_total",
			Help:      "Total committed stock decrements",
		}),
		InventoryDecrementFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inventory_decrement_failed_total",
			Help:      "Total stock decrements that could not be committed",
		}, []string{"code"}),
		InventoryDecrementSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "inventory_decrement_skipped_total",
			Help:      "Total decrements skipped because the record vanished",
		}),

		JobsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_published_total",
			Help:      "Total notification jobs published to the queue",
		}),
		JobsPublishFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_publish_failed_total",
			Help:      "Total notification jobs that failed to publish",
		}),
		JobsProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_processed_total",
			Help:      "Total notification jobs consumed by the worker",
		}),
		JobsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_failed_total",
			Help:      "Total notification jobs the worker could not deliver",
		}),
		EmailSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "email_sent_total",
			Help:      "Total emails accepted by the email API",
		}, []string{"template"}),
		EmailFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "email_failed_total",
			Help:      "Total emails the email API rejected",
		}, []string{"template"}),
	}
}

// Nil-safe recording helpers. Business code calls these without checking
// whether metrics are wired.

func (m *BusinessMetrics) RecordOrderCreated(total float64) {
	if m == nil {
		return
	}
	m.OrdersCreated.Inc()
	m.OrderValue.Observe(total)
}

func (m *BusinessMetrics) RecordCheckoutRejected(reason string) {
	if m == nil {
		return
	}
	m.CheckoutRejected.WithLabelValues(reason).Inc()
}

func (m *BusinessMetrics) RecordDecrement() {
	if m == nil {
		return
	}
	m.InventoryDecrements.Inc()
}

func (m *BusinessMetrics) RecordDecrementFailed(code string) {
	if m == nil {
		return
	}
	m.InventoryDecrementFailed.WithLabelValues(code).Inc()
}

func (m *BusinessMetrics) RecordDecrementSkipped() {
	if m == nil {
		return
	}
	m.InventoryDecrementSkipped.Inc()
}

func (m *BusinessMetrics) RecordJobPublished(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.JobsPublishFailed.Inc()
		return
	}
	m.JobsPublished.Inc()
}

func (m *BusinessMetrics) RecordJobProcessed(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.JobsFailed.Inc()
		return
	}
	m.JobsProcessed.Inc()
}

func (m *BusinessMetrics) RecordEmail(template string, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.EmailFailed.WithLabelValues(template).Inc()
		return
	}
	m.EmailSent.WithLabelValues(template).Inc()
}
