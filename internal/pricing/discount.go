package pricing

import (
	"fmt"
	"math"
)

// Discounted computes the discounted price the product form auto-fills.
// ok is false when the inputs give nothing to fill in, in which case the
// caller keeps whatever value the field already has.
func Discounted(original, percent float64) (price float64, ok bool) {
	switch {
	case original > 0 && percent > 0 && percent <= 100:
		return round2(original - original*percent/100), true
	case percent == 0 && original > 0:
		return round2(original), true
	default:
		return 0, false
	}
}

// Percentage is the inverse of Discounted, used when only the two prices are known
func Percentage(original, discounted float64) float64 {
	if original <= 0 || discounted >= original || discounted < 0 {
		return 0
	}
	return round2((original - discounted) * 100 / original)
}

// FormatINR renders an amount the way the product tables show prices
func FormatINR(amount float64) string {
	return fmt.Sprintf("₹%.2f", amount)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
