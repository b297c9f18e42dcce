// Package stock holds the numeric policy and low-stock derivation shared by
// every read and write path. The derived values are pure functions of the
// stored quantities and are never persisted, so they cannot go stale.
package stock

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// LowStockRatio is the fraction of the monthly requirement below which a
// component counts as low on stock.
const LowStockRatio = "0.2"

var lowStockRatio = decimal.RequireFromString(LowStockRatio)

// ToNumber coerces a raw value to a finite float64. Non-numeric, NaN, and
// infinite inputs normalize to 0; this is defensive normalization, not
// validation, and never errors.
func ToNumber(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return finiteOrZero(v)
	case float32:
		return finiteOrZero(float64(v))
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(parsed)
	default:
		return 0
	}
}

// PositiveOrZero coerces the value and clamps it to >= 0.
func PositiveOrZero(value any) float64 {
	num := ToNumber(value)
	if num < 0 {
		return 0
	}
	return num
}

// LowStockThreshold computes monthlyRequiredQty * LowStockRatio using decimal
// arithmetic so the exact ratio survives fractional requirements.
func LowStockThreshold(monthlyRequiredQty float64) float64 {
	monthly := decimal.NewFromFloat(ToNumber(monthlyRequiredQty))
	threshold, _ := monthly.Mul(lowStockRatio).Float64()
	return threshold
}

// IsLow reports whether the stock level sits below the derived threshold.
func IsLow(currentStockQty, monthlyRequiredQty float64) bool {
	stock := decimal.NewFromFloat(ToNumber(currentStockQty))
	monthly := decimal.NewFromFloat(ToNumber(monthlyRequiredQty))
	return stock.LessThan(monthly.Mul(lowStockRatio))
}

// Deduct subtracts requiredQty from currentStockQty exactly.
func Deduct(currentStockQty, requiredQty float64) float64 {
	next, _ := decimal.NewFromFloat(currentStockQty).
		Sub(decimal.NewFromFloat(requiredQty)).
		Float64()
	return next
}

// RequiredQty computes quantityPerComponent * quantityToProduce exactly.
func RequiredQty(quantityPerComponent, quantityToProduce float64) float64 {
	required, _ := decimal.NewFromFloat(ToNumber(quantityPerComponent)).
		Mul(decimal.NewFromFloat(ToNumber(quantityToProduce))).
		Float64()
	return required
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
