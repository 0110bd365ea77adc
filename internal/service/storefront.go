package service

import (
	"context"
	"log/slog"

	"github.com/ivkovb/printstudio/internal/domain"
	"github.com/ivkovb/printstudio/internal/promotion"
	"github.com/ivkovb/printstudio/internal/shipping"
	"github.com/ivkovb/printstudio/internal/store"
)

// StorefrontService provides the display-time operations the shop surface
// calls before checkout: promotional pricing, cart building, and shipping
// quotes. Prices computed here flow unchanged into the order record.
type StorefrontService interface {
	// GetProductDisplay returns a product with its current effective price.
	GetProductDisplay(ctx context.Context, productID string) (*ProductDisplay, error)

	// AddToCart prices one selection against the live product record and
	// appends it to the cart.
	AddToCart(ctx context.Context, cart *domain.Cart, sel CartSelection) error

	// ShippingOptions quotes every catalog method for the cart and
	// destination.
	ShippingOptions(items []domain.LineItem, city string) []ShippingOption
}

// ProductDisplay is a product joined with its promotion-adjusted price.
type ProductDisplay struct {
	Product        domain.Product
	EffectivePrice float64
	OnPromotion    bool
	LowStock       bool
}

// CartSelection is one add-to-cart submission. The material surcharge is
// resolved server-side from the catalog, never taken from the caller.
type CartSelection struct {
	ProductID  string
	Color      string
	Material   string
	CustomText string
	Quantity   int
}

// Material is a print material option with its per-unit surcharge.
type Material struct {
	ID    string
	Price float64
}

// Materials returns the print material catalog.
func Materials() []Material {
	return []Material{
		{ID: "PLA", Price: 0},
		{ID: "PETG", Price: 2.00},
	}
}

// MaterialByID looks up one material from the catalog.
func MaterialByID(id string) (Material, bool) {
	for _, m := range Materials() {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}

// ShippingOption pairs a catalog method with its quote for the current
// cart.
type ShippingOption struct {
	Method shipping.Method
	Quote  shipping.Quote
}

// Selection converts the chosen option into the descriptor frozen into an
// order.
func (o ShippingOption) Selection() domain.ShippingSelection {
	return domain.ShippingSelection{
		ID:    o.Method.ID,
		Name:  o.Method.Name,
		Price: o.Quote.Price,
	}
}

type storefrontService struct {
	inventory  store.InventoryStore
	calculator *shipping.Calculator
	logger     *slog.Logger
}

// NewStorefrontService creates a new StorefrontService instance.
func NewStorefrontService(inventory store.InventoryStore, calculator *shipping.Calculator, logger *slog.Logger) StorefrontService {
	return &storefrontService{
		inventory:  inventory,
		calculator: calculator,
		logger:     logger,
	}
}

func (s *storefrontService) GetProductDisplay(ctx context.Context, productID string) (*ProductDisplay, error) {
	product, err := s.inventory.GetByProductID(ctx, productID)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}

	effective := promotion.EffectivePrice(product.BasePrice, product.Promo)

	return &ProductDisplay{
		Product:        *product,
		EffectivePrice: effective,
		OnPromotion:    effective < product.BasePrice,
		LowStock:       product.LowStock(),
	}, nil
}

func (s *storefrontService) AddToCart(ctx context.Context, cart *domain.Cart, sel CartSelection) error {
	const op = "storefront.add_to_cart"

	if sel.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}

	product, err := s.inventory.GetByProductID(ctx, sel.ProductID)
	if err != nil {
		if domain.ErrorCode(err) == domain.ENOTFOUND {
			return domain.ErrProductNotFound
		}
		return err
	}

	if sel.Color != "" {
		cs := product.FindColor(sel.Color)
		if cs == nil {
			return domain.Invalid(op, "Unknown color for this product")
		}
		if cs.Stock == 0 {
			return domain.Conflict(op, "Selected color is sold out")
		}
	}

	var materialPrice float64
	if sel.Material != "" {
		mat, ok := MaterialByID(sel.Material)
		if !ok {
			return domain.Invalid(op, "Unknown material")
		}
		materialPrice = mat.Price
	}

	item := domain.LineItem{
		ProductID:     product.ProductID,
		Name:          product.Name,
		BasePrice:     product.BasePrice,
		SelectedColor: sel.Color,
		Material:      sel.Material,
		MaterialPrice: materialPrice,
		CustomText:    sel.CustomText,
		Quantity:      sel.Quantity,
		WeightGrams:   product.WeightGrams,
		Category:      product.Category,
	}
	item.Recompute(promotion.EffectivePrice(product.BasePrice, product.Promo))
	cart.AddItem(item)

	s.logger.DebugContext(ctx, "item added to cart",
		"product_id", product.ProductID,
		"color", sel.Color,
		"quantity", sel.Quantity,
		"unit_price", item.UnitPrice,
	)

	return nil
}

func (s *storefrontService) ShippingOptions(items []domain.LineItem, city string) []ShippingOption {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.TotalPrice
	}
	subtotal = domain.Round2(subtotal)

	methods := shipping.Methods()
	options := make([]ShippingOption, len(methods))
	for i, m := range methods {
		options[i] = ShippingOption{
			Method: m,
			Quote:  s.calculator.Quote(m.ID, items, city, subtotal),
		}
	}
	return options
}
