// Package store is the document-store boundary of the order core. It
// exposes the three operations the business logic depends on: point lookup
// by product id, transactional read-modify-write of a single inventory
// document, and insert of a new order with a generated id. Query-by-filter
// subscriptions for display components live outside this package.
package store

import (
	"context"

	"github.com/ivkovb/printstudio/internal/domain"
)

// OrderStore persists order snapshots.
type OrderStore interface {
	// InsertOrder writes a new order document and returns its generated id.
	InsertOrder(ctx context.Context, order *domain.Order) (string, error)
}

// InventoryStore reads and atomically mutates inventory records.
type InventoryStore interface {
	// GetByProductID returns the inventory record for productID.
	// Returns a domain error with code ENOTFOUND when no record exists.
	GetByProductID(ctx context.Context, productID string) (*domain.Product, error)

	// Mutate applies fn to the inventory record for productID as a single
	// atomic read-modify-write. fn receives a freshly-read copy of the
	// document on every attempt; a stale read is retried, never committed.
	// Returning false from fn skips the write. Concurrent Mutate calls
	// against the same document are serialized: one of them observes the
	// other's committed state.
	Mutate(ctx context.Context, productID string, fn func(*domain.Product) bool) error
}
