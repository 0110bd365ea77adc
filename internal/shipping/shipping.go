// Package shipping computes delivery prices and ETAs for the storefront's
// courier methods. Quotes are pure functions over cart contents,
// destination city, and subtotal; malformed input degrades to documented
// defaults instead of erroring.
package shipping

import "github.com/ivkovb/printstudio/internal/domain"

// Method ids understood by the calculator. Unrecognized ids fall back to
// the standard courier rate.
const (
	MethodPickup = "pickup"
	MethodEcont  = "econt"
	MethodSpeedy = "speedy"
)

// Method is one entry of the static shipping method catalog shown at
// checkout. BasePriceHint is the sub-0.5kg price used for display before a
// full quote is computed.
type Method struct {
	ID            string
	Name          string
	BasePriceHint float64
}

// Methods returns the storefront's shipping method catalog.
func Methods() []Method {
	return []Method{
		{ID: MethodEcont, Name: "Econt (24-48 часа)", BasePriceHint: 4.00},
		{ID: MethodSpeedy, Name: "Speedy (24-48 часа)", BasePriceHint: 4.50},
		{ID: MethodPickup, Name: "Лично вземане", BasePriceHint: 0},
	}
}

// MethodByID looks up a catalog entry. ok is false for unknown ids.
func MethodByID(id string) (Method, bool) {
	for _, m := range Methods() {
		if m.ID == id {
			return m, true
		}
	}
	return Method{}, false
}

// Breakdown itemizes how a quote's price was computed.
type Breakdown struct {
	Base             float64
	WeightFee        float64
	InsuranceFee     float64
	RemoteSurcharge  float64
	TotalWeightGrams int
	TotalWeightKg    float64
	MethodID         string
}

// Quote is the priced result of a shipping calculation.
type Quote struct {
	Price     float64
	ETA       string
	Breakdown Breakdown
}

// Default per-item weights in grams, keyed by category, for items missing
// an explicit weight.
var defaultCategoryWeights = map[domain.Category]int{
	domain.CategoryKeychains:  50,
	domain.CategoryFigures:    300,
	domain.CategoryParts:      200,
	domain.CategoryOrganizers: 400,
}

const defaultItemWeightGrams = 150

// ItemWeightGrams resolves the weight of one unit of item: the explicit
// WeightGrams when positive, else the category default.
func ItemWeightGrams(item domain.LineItem) int {
	if item.WeightGrams > 0 {
		return item.WeightGrams
	}
	if w, ok := defaultCategoryWeights[item.Category]; ok {
		return w
	}
	return defaultItemWeightGrams
}

// CartWeightGrams sums resolved item weights across the cart.
// Quantities below 1 count as 1.
func CartWeightGrams(items []domain.LineItem) int {
	total := 0
	for _, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		total += ItemWeightGrams(item) * qty
	}
	return total
}
