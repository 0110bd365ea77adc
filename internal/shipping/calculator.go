package shipping

import (
	"math"
	"strings"

	"github.com/ivkovb/printstudio/internal/domain"
)

// rate defines a courier method's pricing: a base price covering the first
// 0.5kg and an increment for each additional 0.5kg block.
type rate struct {
	base      float64
	perHalfKg float64
}

const (
	insuranceThreshold = 50.0  // лв, exclusive
	insuranceRate      = 0.005 // 0.5% of subtotal
	remoteSurcharge    = 0.5   // flat, outside the local city, courier only

	etaPickup       = "Същия ден (по уговорка)"
	etaCourierLocal = "Следващ ден (24-48 часа)"
	etaCourierOther = "1-2 дни"
)

// Calculator prices shipments against a static rate table. It is safe for
// concurrent use; Quote performs no I/O.
type Calculator struct {
	localCity string
	rates     map[string]rate
}

// NewCalculator builds a calculator with the storefront's rate table.
// localCity is the courier hub; deliveries elsewhere pay the remote
// surcharge and get the longer ETA.
func NewCalculator(localCity string) *Calculator {
	return &Calculator{
		localCity: normalizeCity(localCity),
		rates: map[string]rate{
			MethodPickup: {base: 0, perHalfKg: 0},
			MethodEcont:  {base: 4.00, perHalfKg: 0.80},
			MethodSpeedy: {base: 4.50, perHalfKg: 0.70},
		},
	}
}

// Quote computes the shipping price and ETA for a cart.
//
// Price = method base + per-half-kg weight fee + insurance (0.5% of
// subtotal above the 50 threshold, exclusive) + flat remote surcharge for
// courier deliveries outside the local city, rounded to 2 decimals.
// Pickup is always free and same-day. Unknown method ids fall back to the
// standard courier rate.
func (c *Calculator) Quote(methodID string, items []domain.LineItem, city string, subtotal float64) Quote {
	grams := CartWeightGrams(items)
	kg := float64(grams) / 1000

	local := c.IsLocal(city)

	// Pickup is free regardless of weight, destination, or subtotal.
	if methodID == MethodPickup {
		return Quote{
			Price: 0,
			ETA:   etaPickup,
			Breakdown: Breakdown{
				TotalWeightGrams: grams,
				TotalWeightKg:    math.Round(kg*1000) / 1000,
				MethodID:         methodID,
			},
		}
	}

	insuranceFee := 0.0
	if subtotal > insuranceThreshold {
		insuranceFee = subtotal * insuranceRate
	}

	remote := 0.0
	if !local {
		remote = remoteSurcharge
	}

	r, known := c.rates[methodID]
	eta := etaCourierOther
	switch {
	case known && local:
		eta = etaCourierLocal
	case !known:
		// Unknown method: standard courier rate, conservative ETA.
		r = c.rates[MethodEcont]
	}

	halfKgBlocks := math.Ceil(math.Max(0, kg-0.5) / 0.5)
	weightFee := halfKgBlocks * r.perHalfKg

	price := domain.Round2(r.base + weightFee + insuranceFee + remote)

	return Quote{
		Price: price,
		ETA:   eta,
		Breakdown: Breakdown{
			Base:             r.base,
			WeightFee:        weightFee,
			InsuranceFee:     domain.Round2(insuranceFee),
			RemoteSurcharge:  remote,
			TotalWeightGrams: grams,
			TotalWeightKg:    math.Round(kg*1000) / 1000,
			MethodID:         methodID,
		},
	}
}

// IsLocal reports whether city matches the configured local city,
// ignoring case and surrounding whitespace. The Latin spelling "sofia" is
// accepted alongside the Cyrillic one.
func (c *Calculator) IsLocal(city string) bool {
	n := normalizeCity(city)
	if n == "" {
		return false
	}
	return n == c.localCity || (c.localCity == "софия" && n == "sofia")
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}
