// Package promotion computes effective product prices under time-windowed
// promotional discounts. All functions are pure; malformed promotion data
// degrades to the undiscounted base price rather than erroring.
package promotion

import (
	"math"
	"time"

	"github.com/ivkovb/printstudio/internal/domain"
)

// ActiveAt reports whether promo applies at instant now.
// A promotion is active only when its Active flag is set and now falls
// within [Start, End]; a nil bound leaves that side open. The boundary
// instants themselves are active.
func ActiveAt(promo *domain.Promotion, now time.Time) bool {
	if promo == nil || !promo.Active {
		return false
	}
	if promo.Start != nil && now.Before(*promo.Start) {
		return false
	}
	if promo.End != nil && now.After(*promo.End) {
		return false
	}
	return true
}

// IsActive reports whether promo applies right now.
func IsActive(promo *domain.Promotion) bool {
	return ActiveAt(promo, time.Now())
}

// EffectivePriceAt returns the price a shopper pays for basePrice at
// instant now:
//
//	percent: basePrice * (1 - clamp(value, 0, 100)/100)
//	amount:  basePrice - max(0, value)
//
// An inactive or absent promotion, an unknown type, or a non-finite value
// leaves the base price unchanged. The result is rounded to 2 decimal
// places and never negative.
func EffectivePriceAt(basePrice float64, promo *domain.Promotion, now time.Time) float64 {
	if !ActiveAt(promo, now) {
		return basePrice
	}
	if math.IsNaN(promo.Value) || math.IsInf(promo.Value, 0) {
		return basePrice
	}

	discounted := basePrice
	switch promo.Type {
	case domain.PromoPercent:
		pct := math.Min(100, math.Max(0, promo.Value))
		discounted = basePrice * (1 - pct/100)
	case domain.PromoAmount:
		discounted = basePrice - math.Max(0, promo.Value)
	default:
		return basePrice
	}

	return math.Max(0, domain.Round2(discounted))
}

// EffectivePrice returns the effective price against the wall clock.
func EffectivePrice(basePrice float64, promo *domain.Promotion) float64 {
	return EffectivePriceAt(basePrice, promo, time.Now())
}
