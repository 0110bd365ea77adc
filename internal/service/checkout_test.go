package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivkovb/printstudio/internal/domain"
)

// mockOrderStore implements store.OrderStore for testing
type mockOrderStore struct {
	InsertOrderFunc func(ctx context.Context, order *domain.Order) (string, error)
	inserted        []domain.Order
}

func (m *mockOrderStore) InsertOrder(ctx context.Context, order *domain.Order) (string, error) {
	m.inserted = append(m.inserted, *order)
	if m.InsertOrderFunc != nil {
		return m.InsertOrderFunc(ctx, order)
	}
	return "order-123", nil
}

// mockLedger implements StockDecrementer for testing
type mockLedger struct {
	DecrementStockFunc func(ctx context.Context, productID, color string, quantity int) error
	calls              []decrementCall
}

type decrementCall struct {
	productID string
	color     string
	quantity  int
}

func (m *mockLedger) DecrementStock(ctx context.Context, productID, color string, quantity int) error {
	m.calls = append(m.calls, decrementCall{productID: productID, color: color, quantity: quantity})
	if m.DecrementStockFunc != nil {
		return m.DecrementStockFunc(ctx, productID, color, quantity)
	}
	return nil
}

// mockNotifier implements OrderNotifier for testing
type mockNotifier struct {
	PublishFunc func(ctx context.Context, orderID string, order domain.Order) error
	published   []string
}

func (m *mockNotifier) PublishOrderPlaced(ctx context.Context, orderID string, order domain.Order) error {
	m.published = append(m.published, orderID)
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, orderID, order)
	}
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func testCustomer() domain.CustomerInfo {
	return domain.CustomerInfo{
		Name:    "Иван Петров",
		Email:   "ivan@example.com",
		Phone:   "0888123456",
		Address: "ул. Витоша 15",
		City:    "София",
	}
}

func keychainCart() *domain.Cart {
	cart := &domain.Cart{}
	item := domain.LineItem{
		ProductID:     "keychain-001",
		Name:          "Ключодържател Дракон",
		BasePrice:     12.00,
		SelectedColor: "Черен",
		MaterialPrice: 2.00,
		Quantity:      2,
		Category:      domain.CategoryKeychains,
	}
	item.Recompute(item.BasePrice)
	cart.AddItem(item)
	return cart
}

func TestPlaceOrder(t *testing.T) {
	orders := &mockOrderStore{}
	ledger := &mockLedger{}
	notifier := &mockNotifier{}
	svc := NewCheckoutService(orders, ledger, notifier, nil, testLogger())

	cart := keychainCart()
	require.InDelta(t, 28.00, cart.Subtotal(), 0.001)

	orderID, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     cart,
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: testCustomer(),
	})
	require.NoError(t, err)
	assert.Equal(t, "order-123", orderID)

	// Order snapshot
	require.Len(t, orders.inserted, 1)
	order := orders.inserted[0]
	assert.InDelta(t, 32.00, order.Total, 0.001)
	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.InDelta(t, 14.00, order.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 28.00, order.Items[0].TotalPrice, 0.001)

	// Notification enqueued for the new order
	assert.Equal(t, []string{"order-123"}, notifier.published)

	// One decrement per line item with the order's quantities
	require.Len(t, ledger.calls, 1)
	assert.Equal(t, decrementCall{productID: "keychain-001", color: "Черен", quantity: 2}, ledger.calls[0])

	// Cart cleared on completion
	assert.True(t, cart.IsEmpty())
}

func TestPlaceOrderWithPromotionPricing(t *testing.T) {
	orders := &mockOrderStore{}
	svc := NewCheckoutService(orders, &mockLedger{}, &mockNotifier{}, nil, testLogger())

	// Product at 12.00 with an active 25% promotion is carted at the
	// effective price of 9.00.
	cart := &domain.Cart{}
	item := domain.LineItem{
		ProductID: "figure-cat",
		Name:      "Фигурка Котка",
		BasePrice: 12.00,
		Quantity:  1,
		Category:  domain.CategoryFigures,
	}
	item.Recompute(9.00)
	cart.AddItem(item)
	require.InDelta(t, 9.00, cart.Subtotal(), 0.001)

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     cart,
		Shipping: domain.ShippingSelection{ID: "pickup", Name: "Лично вземане", Price: 0},
		Customer: testCustomer(),
	})
	require.NoError(t, err)

	require.Len(t, orders.inserted, 1)
	assert.InDelta(t, 9.00, orders.inserted[0].Total, 0.001)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	orders := &mockOrderStore{}
	ledger := &mockLedger{}
	svc := NewCheckoutService(orders, ledger, &mockNotifier{}, nil, testLogger())

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     &domain.Cart{},
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: testCustomer(),
	})
	require.ErrorIs(t, err, ErrEmptyCart)

	// Rejection before any side effect
	assert.Empty(t, orders.inserted)
	assert.Empty(t, ledger.calls)
}

func TestPlaceOrderMissingCustomerFields(t *testing.T) {
	orders := &mockOrderStore{}
	svc := NewCheckoutService(orders, &mockLedger{}, &mockNotifier{}, nil, testLogger())

	customer := testCustomer()
	customer.Phone = ""
	customer.Email = "not-an-email"

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     keychainCart(),
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: customer,
	})
	require.Error(t, err)
	require.True(t, domain.IsValidationError(err))

	fields := domain.GetValidationFields(err)
	assert.Contains(t, fields, "phone")
	assert.Contains(t, fields, "email")
	assert.Empty(t, orders.inserted)
}

func TestPlaceOrderMissingShippingMethod(t *testing.T) {
	orders := &mockOrderStore{}
	svc := NewCheckoutService(orders, &mockLedger{}, &mockNotifier{}, nil, testLogger())

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     keychainCart(),
		Customer: testCustomer(),
	})
	require.ErrorIs(t, err, ErrMissingShippingMethod)
	assert.Empty(t, orders.inserted)
}

func TestPlaceOrderPersistenceFailure(t *testing.T) {
	orders := &mockOrderStore{
		InsertOrderFunc: func(ctx context.Context, order *domain.Order) (string, error) {
			return "", errors.New("write concern timeout")
		},
	}
	ledger := &mockLedger{}
	notifier := &mockNotifier{}
	svc := NewCheckoutService(orders, ledger, notifier, nil, testLogger())

	cart := keychainCart()
	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     cart,
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: testCustomer(),
	})
	require.ErrorIs(t, err, ErrOrderNotPersisted)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(err))

	// Nothing downstream runs and the cart survives for a retry
	assert.Empty(t, notifier.published)
	assert.Empty(t, ledger.calls)
	assert.False(t, cart.IsEmpty())
}

func TestPlaceOrderNotificationFailureDoesNotBlock(t *testing.T) {
	notifier := &mockNotifier{
		PublishFunc: func(ctx context.Context, orderID string, order domain.Order) error {
			return errors.New("bus unavailable")
		},
	}
	ledger := &mockLedger{}
	svc := NewCheckoutService(&mockOrderStore{}, ledger, notifier, nil, testLogger())

	cart := keychainCart()
	orderID, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     cart,
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: testCustomer(),
	})
	require.NoError(t, err)
	assert.Equal(t, "order-123", orderID)

	// Inventory still reconciled and cart still cleared
	assert.Len(t, ledger.calls, 1)
	assert.True(t, cart.IsEmpty())
}

func TestPlaceOrderDecrementFailureDoesNotBlock(t *testing.T) {
	ledger := &mockLedger{
		DecrementStockFunc: func(ctx context.Context, productID, color string, quantity int) error {
			if productID == "keychain-001" {
				return errors.New("transaction exhausted retries")
			}
			return nil
		},
	}
	svc := NewCheckoutService(&mockOrderStore{}, ledger, &mockNotifier{}, nil, testLogger())

	cart := keychainCart()
	cart.AddItem(domain.LineItem{
		ProductID: "organizer-desk",
		Name:      "Органайзер за бюро",
		UnitPrice: 22.50,
		Quantity:  1,
		Category:  domain.CategoryOrganizers,
	})

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     cart,
		Shipping: domain.ShippingSelection{ID: "speedy", Name: "Спиди", Price: 5.20},
		Customer: testCustomer(),
	})
	require.NoError(t, err)

	// The failed item does not abort the loop; every line item is attempted
	require.Len(t, ledger.calls, 2)
	assert.Equal(t, "keychain-001", ledger.calls[0].productID)
	assert.Equal(t, "organizer-desk", ledger.calls[1].productID)
	assert.True(t, cart.IsEmpty())
}

func TestPlaceOrderNilNotifier(t *testing.T) {
	orders := &mockOrderStore{}
	svc := NewCheckoutService(orders, &mockLedger{}, nil, nil, testLogger())

	orderID, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     keychainCart(),
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: testCustomer(),
	})
	require.NoError(t, err)
	assert.Equal(t, "order-123", orderID)
}

func TestPlaceOrderNormalizesStaleLineTotals(t *testing.T) {
	orders := &mockOrderStore{}
	svc := NewCheckoutService(orders, &mockLedger{}, &mockNotifier{}, nil, testLogger())

	// A stale client copy where quantity was bumped without updating the
	// line total. The snapshot must re-derive TotalPrice from UnitPrice.
	cart := &domain.Cart{Items: []domain.LineItem{{
		ProductID:  "keychain-001",
		Name:       "Ключодържател Дракон",
		UnitPrice:  14.00,
		Quantity:   2,
		TotalPrice: 14.00,
		Category:   domain.CategoryKeychains,
	}}}

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     cart,
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: testCustomer(),
	})
	require.NoError(t, err)

	require.Len(t, orders.inserted, 1)
	assert.InDelta(t, 28.00, orders.inserted[0].Items[0].TotalPrice, 0.001)
	assert.InDelta(t, 32.00, orders.inserted[0].Total, 0.001)
}

func TestPlaceOrderCarriesUserIdentity(t *testing.T) {
	orders := &mockOrderStore{}
	svc := NewCheckoutService(orders, &mockLedger{}, &mockNotifier{}, nil, testLogger())

	_, err := svc.PlaceOrder(context.Background(), PlaceOrderParams{
		Cart:     keychainCart(),
		Shipping: domain.ShippingSelection{ID: "econt", Name: "Еконт", Price: 4.00},
		Customer: testCustomer(),
		Identity: UserIdentity{ID: "user-42", Name: "Ivan P", Email: "account@example.com"},
	})
	require.NoError(t, err)

	require.Len(t, orders.inserted, 1)
	assert.Equal(t, "user-42", orders.inserted[0].UserID)
	assert.Equal(t, "account@example.com", orders.inserted[0].UserEmail)
}
