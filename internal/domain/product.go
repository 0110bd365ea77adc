package domain

import "time"

// Product-related domain errors.
var (
	ErrProductNotFound = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrDuplicateColor  = &Error{Code: EINVALID, Message: "Color names must be unique within a product"}
)

// Category identifies a product line. Unknown categories are tolerated by
// the shipping calculator, which falls back to a default weight.
type Category string

const (
	CategoryKeychains  Category = "keychains"
	CategoryFigures    Category = "figures"
	CategoryParts      Category = "parts"
	CategoryOrganizers Category = "organizers"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryKeychains, CategoryFigures, CategoryParts, CategoryOrganizers:
		return true
	}
	return false
}

// PromoType discriminates how a promotion discounts the base price.
type PromoType string

const (
	PromoPercent PromoType = "percent"
	PromoAmount  PromoType = "amount"
)

// Promotion is a time-bounded discount embedded in a product.
// A promotion applies only when Active is true and the current time falls
// within [Start, End]; a nil bound leaves that side open.
type Promotion struct {
	Active bool       `bson:"active" json:"active"`
	Type   PromoType  `bson:"type" json:"type"`
	Value  float64    `bson:"value" json:"value"`
	Start  *time.Time `bson:"start,omitempty" json:"start,omitempty"`
	End    *time.Time `bson:"end,omitempty" json:"end,omitempty"`
}

// ColorStock tracks remaining stock for one color of a product.
// Entries are never removed when stock reaches 0; a sold-out color stays
// visible to shoppers as sold out.
type ColorStock struct {
	Color string `bson:"color" json:"color"`
	Stock int    `bson:"stock" json:"stock"`
}

// Product represents one sellable product line together with its inventory
// record. The aggregate Stock field must always equal the sum of
// ColorStock stocks; every writer that mutates ColorStock recomputes and
// persists the sum in the same write.
type Product struct {
	ID           string       `bson:"_id,omitempty" json:"id,omitempty"`
	ProductID    string       `bson:"productId" json:"productId"`
	Name         string       `bson:"productName" json:"productName"`
	BasePrice    float64      `bson:"basePrice" json:"basePrice"`
	WeightGrams  int          `bson:"weightGrams,omitempty" json:"weightGrams,omitempty"`
	Category     Category     `bson:"category" json:"category"`
	ReorderLevel int          `bson:"reorderLevel" json:"reorderLevel"`
	ColorStock   []ColorStock `bson:"colorStock" json:"colorStock"`
	Stock        int          `bson:"stock" json:"stock"`
	Promo        *Promotion   `bson:"promo,omitempty" json:"promo,omitempty"`

	// Version supports the store's optimistic compare-and-swap; it is owned
	// by the store layer and opaque to business logic.
	Version   int64     `bson:"version" json:"-"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// AggregateStock returns the sum of all per-color stocks.
func (p *Product) AggregateStock() int {
	total := 0
	for _, cs := range p.ColorStock {
		total += cs.Stock
	}
	return total
}

// FindColor returns a pointer to the ColorStock entry for color, or nil.
func (p *Product) FindColor(color string) *ColorStock {
	for i := range p.ColorStock {
		if p.ColorStock[i].Color == color {
			return &p.ColorStock[i]
		}
	}
	return nil
}

// LowStock reports whether the aggregate stock has fallen to or below the
// reorder threshold. Used by the back-office low-stock alert.
func (p *Product) LowStock() bool {
	return p.Stock <= p.ReorderLevel
}

// ValidateColors checks the uniqueness invariant on color names.
func (p *Product) ValidateColors() error {
	seen := make(map[string]struct{}, len(p.ColorStock))
	for _, cs := range p.ColorStock {
		if _, ok := seen[cs.Color]; ok {
			return ErrDuplicateColor
		}
		seen[cs.Color] = struct{}{}
	}
	return nil
}
