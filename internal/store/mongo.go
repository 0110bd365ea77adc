package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ivkovb/printstudio/internal/domain"
)

const (
	ordersCollection    = "orders"
	inventoryCollection = "inventory"

	// mutateAttempts bounds the optimistic retry loop. Contention on a
	// single product document is short-lived; five attempts with backoff
	// outlasts any realistic burst of simultaneous checkouts.
	mutateAttempts = 5
	mutateBackoff  = 25 * time.Millisecond
)

// Mongo implements OrderStore and InventoryStore against MongoDB.
//
// Single-document write atomicity is MongoDB's native guarantee; the
// read-modify-write cycle on inventory records is serialized with an
// optimistic version check so a stale in-memory copy is never committed.
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

var (
	_ OrderStore     = (*Mongo)(nil)
	_ InventoryStore = (*Mongo)(nil)
)

// NewMongo connects to the document store and verifies the connection.
func NewMongo(ctx context.Context, uri, database string, logger *slog.Logger) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, domain.Internal(err, "store.connect", "failed to connect to document store")
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, domain.Unavailable(err, "store.connect", "document store unreachable")
	}

	return &Mongo{
		client: client,
		db:     client.Database(database),
		logger: logger,
	}, nil
}

// Close releases the underlying connection pool.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// InsertOrder writes a new order document and returns its generated id.
func (m *Mongo) InsertOrder(ctx context.Context, order *domain.Order) (string, error) {
	const op = "store.insert_order"

	if order.Status == "" {
		order.Status = domain.StatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}

	res, err := m.db.Collection(ordersCollection).InsertOne(ctx, newOrderDocument(order))
	if err != nil {
		return "", domain.Internal(err, op, "failed to insert order")
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", domain.Errorf(domain.EINTERNAL, op, "unexpected inserted id type %T", res.InsertedID)
	}

	order.ID = oid.Hex()
	return order.ID, nil
}

// GetOrder fetches one order by its generated id.
func (m *Mongo) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	const op = "store.get_order"

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.Invalid(op, "malformed order id")
	}

	var doc orderDocument
	err = m.db.Collection(ordersCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NotFound(op, "order", id)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load order")
	}

	return doc.toDomain(), nil
}

// GetByProductID returns the inventory record for productID.
func (m *Mongo) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	const op = "store.get_inventory"

	var doc inventoryDocument
	err := m.db.Collection(inventoryCollection).FindOne(ctx, bson.M{"productId": productID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NotFound(op, "inventory record", productID)
	}
	if err != nil {
		return nil, domain.Internal(err, op, "failed to load inventory record")
	}

	return doc.toDomain(), nil
}

// Mutate atomically applies fn to the inventory record for productID.
//
// Each attempt re-reads the document, applies fn to the fresh copy, and
// commits with an update filtered on the document's version. A concurrent
// writer bumps the version first, the filter matches nothing, and the
// attempt is retried against the new state, so a lost update cannot be
// committed. ENOTFOUND propagates so callers can decide whether a missing
// record is fatal.
func (m *Mongo) Mutate(ctx context.Context, productID string, fn func(*domain.Product) bool) error {
	const op = "store.mutate_inventory"

	coll := m.db.Collection(inventoryCollection)

	for attempt := 1; attempt <= mutateAttempts; attempt++ {
		var doc inventoryDocument
		err := coll.FindOne(ctx, bson.M{"productId": productID}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.NotFound(op, "inventory record", productID)
		}
		if err != nil {
			return domain.Internal(err, op, "failed to read inventory record")
		}

		product := doc.toDomain()
		if !fn(product) {
			return nil
		}

		now := time.Now().UTC()
		res, err := coll.UpdateOne(ctx, casFilter(doc), casUpdate(product, doc.Version, now))
		if err != nil {
			return domain.Unavailable(err, op, "failed to commit inventory update")
		}

		if res.MatchedCount == 1 {
			return nil
		}

		// Version moved under us; back off briefly and retry on fresh state.
		m.logger.Debug("inventory version conflict, retrying",
			slog.String("product_id", productID),
			slog.Int("attempt", attempt),
		)

		select {
		case <-ctx.Done():
			return domain.Unavailable(ctx.Err(), op, "context cancelled during inventory update")
		case <-time.After(mutateBackoff * time.Duration(attempt)):
		}
	}

	return domain.Errorf(domain.EUNAVAILABLE, op,
		"inventory update for %s abandoned after %d version conflicts", productID, mutateAttempts)
}

// casFilter pins the update to the exact revision the read observed.
// Records written before versioning carry no version field; an equality
// match on nil covers both a missing field and an explicit null, which a
// match on 0 would not.
func casFilter(doc inventoryDocument) bson.M {
	if doc.Version == nil {
		return bson.M{"_id": doc.ID, "version": nil}
	}
	return bson.M{"_id": doc.ID, "version": *doc.Version}
}

// casUpdate builds the commit for one Mutate attempt. Versioned records
// take $inc; unversioned ones get the field stamped directly, since $inc
// rejects an explicit null.
func casUpdate(product *domain.Product, readVersion *int64, now time.Time) bson.M {
	set := bson.M{
		"colorStock":   product.ColorStock,
		"stock":        product.Stock,
		"reorderLevel": product.ReorderLevel,
		"promo":        product.Promo,
		"updatedAt":    now,
	}
	if readVersion == nil {
		set["version"] = int64(1)
		return bson.M{"$set": set}
	}
	return bson.M{"$set": set, "$inc": bson.M{"version": 1}}
}
