package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivkovb/printstudio/internal/domain"
	"github.com/ivkovb/printstudio/internal/shipping"
)

// mockInventoryStore implements store.InventoryStore for testing
type mockInventoryStore struct {
	products map[string]*domain.Product
}

func (m *mockInventoryStore) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, domain.NotFound("store.get_inventory", "inventory record", productID)
	}
	clone := *p
	return &clone, nil
}

func (m *mockInventoryStore) Mutate(ctx context.Context, productID string, fn func(*domain.Product) bool) error {
	p, ok := m.products[productID]
	if !ok {
		return domain.NotFound("store.mutate_inventory", "inventory record", productID)
	}
	fn(p)
	return nil
}

func keychainProduct() *domain.Product {
	return &domain.Product{
		ProductID: "keychain-001",
		Name:      "Ключодържател Дракон",
		BasePrice: 12.00,
		Category:  domain.CategoryKeychains,
		ColorStock: []domain.ColorStock{
			{Color: "Черен", Stock: 5},
			{Color: "Бял", Stock: 0},
		},
		Stock:        5,
		ReorderLevel: 2,
	}
}

func newStorefront(products ...*domain.Product) StorefrontService {
	inv := &mockInventoryStore{products: map[string]*domain.Product{}}
	for _, p := range products {
		inv.products[p.ProductID] = p
	}
	return NewStorefrontService(inv, shipping.NewCalculator("София"), testLogger())
}

func TestGetProductDisplay(t *testing.T) {
	svc := newStorefront(keychainProduct())

	display, err := svc.GetProductDisplay(context.Background(), "keychain-001")
	require.NoError(t, err)

	assert.InDelta(t, 12.00, display.EffectivePrice, 0.001)
	assert.False(t, display.OnPromotion)
	assert.False(t, display.LowStock)
}

func TestGetProductDisplayWithPromotion(t *testing.T) {
	product := keychainProduct()
	product.Promo = &domain.Promotion{Active: true, Type: domain.PromoPercent, Value: 25}
	svc := newStorefront(product)

	display, err := svc.GetProductDisplay(context.Background(), "keychain-001")
	require.NoError(t, err)

	assert.InDelta(t, 9.00, display.EffectivePrice, 0.001)
	assert.True(t, display.OnPromotion)
}

func TestGetProductDisplayNotFound(t *testing.T) {
	svc := newStorefront()

	_, err := svc.GetProductDisplay(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestAddToCart(t *testing.T) {
	svc := newStorefront(keychainProduct())
	cart := &domain.Cart{}

	err := svc.AddToCart(context.Background(), cart, CartSelection{
		ProductID: "keychain-001",
		Color:     "Черен",
		Material:  "PETG",
		Quantity:  2,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	item := cart.Items[0]
	assert.Equal(t, "Ключодържател Дракон", item.Name)
	assert.InDelta(t, 2.00, item.MaterialPrice, 0.001)
	assert.InDelta(t, 14.00, item.UnitPrice, 0.001)
	assert.InDelta(t, 28.00, item.TotalPrice, 0.001)
	assert.Equal(t, domain.CategoryKeychains, item.Category)
}

func TestAddToCartMaterialSurchargeFromCatalog(t *testing.T) {
	svc := newStorefront(keychainProduct())
	cart := &domain.Cart{}

	// PLA carries no surcharge regardless of what a client submits.
	err := svc.AddToCart(context.Background(), cart, CartSelection{
		ProductID: "keychain-001",
		Color:     "Черен",
		Material:  "PLA",
		Quantity:  1,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 0.00, cart.Items[0].MaterialPrice, 0.001)
	assert.InDelta(t, 12.00, cart.Items[0].UnitPrice, 0.001)
}

func TestAddToCartUsesPromotionalPrice(t *testing.T) {
	product := keychainProduct()
	product.Promo = &domain.Promotion{Active: true, Type: domain.PromoPercent, Value: 25}
	svc := newStorefront(product)
	cart := &domain.Cart{}

	err := svc.AddToCart(context.Background(), cart, CartSelection{
		ProductID: "keychain-001",
		Color:     "Черен",
		Quantity:  1,
	})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.InDelta(t, 9.00, cart.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 12.00, cart.Items[0].BasePrice, 0.001)
}

func TestAddToCartRejections(t *testing.T) {
	svc := newStorefront(keychainProduct())

	tests := []struct {
		name     string
		sel      CartSelection
		wantCode string
	}{
		{
			name:     "unknown product",
			sel:      CartSelection{ProductID: "missing", Quantity: 1},
			wantCode: domain.ENOTFOUND,
		},
		{
			name:     "unknown color",
			sel:      CartSelection{ProductID: "keychain-001", Color: "Зелен", Quantity: 1},
			wantCode: domain.EINVALID,
		},
		{
			name:     "sold out color",
			sel:      CartSelection{ProductID: "keychain-001", Color: "Бял", Quantity: 1},
			wantCode: domain.ECONFLICT,
		},
		{
			name:     "zero quantity",
			sel:      CartSelection{ProductID: "keychain-001", Color: "Черен", Quantity: 0},
			wantCode: domain.EINVALID,
		},
		{
			name:     "unknown material",
			sel:      CartSelection{ProductID: "keychain-001", Color: "Черен", Material: "ABS", Quantity: 1},
			wantCode: domain.EINVALID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cart := &domain.Cart{}
			err := svc.AddToCart(context.Background(), cart, tt.sel)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, domain.ErrorCode(err))
			assert.True(t, cart.IsEmpty())
		})
	}
}

func TestShippingOptions(t *testing.T) {
	svc := newStorefront()

	items := []domain.LineItem{{
		Category:   domain.CategoryKeychains,
		Quantity:   2,
		TotalPrice: 28.00,
	}}

	options := svc.ShippingOptions(items, "София")
	require.Len(t, options, 3)

	byID := map[string]ShippingOption{}
	for _, o := range options {
		byID[o.Method.ID] = o
	}

	assert.InDelta(t, 0, byID[shipping.MethodPickup].Quote.Price, 0.001)
	assert.InDelta(t, 4.00, byID[shipping.MethodEcont].Quote.Price, 0.001)
	assert.InDelta(t, 4.50, byID[shipping.MethodSpeedy].Quote.Price, 0.001)

	sel := byID[shipping.MethodEcont].Selection()
	assert.Equal(t, shipping.MethodEcont, sel.ID)
	assert.InDelta(t, 4.00, sel.Price, 0.001)
}
