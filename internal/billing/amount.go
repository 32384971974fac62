package billing

import "math"

// Round rounds to the nearest whole dollar, halves away from zero. The
// engine uses this one rounding primitive everywhere so boundary values are
// consistent between the forward calculator, the reverse resolver and the
// tax aggregation.
func Round(x float64) float64 {
	if !isFinite(x) {
		return 0
	}
	return math.Round(x)
}

// Amount is the forward line calculation: hours times rate, rounded to a
// whole dollar. Non-finite input counts as zero.
func Amount(hours, rate float64) float64 {
	if !isFinite(hours) || !isFinite(rate) {
		return 0
	}
	return Round(hours * rate)
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
