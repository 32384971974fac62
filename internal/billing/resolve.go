package billing

import "math"

// Metrics is a consistent (hours, rate, amount) decomposition for a service
// item, produced by ResolveMetrics.
type Metrics struct {
	Hours  float64
	Rate   float64
	Amount float64
}

// ResolveMetrics reverse-engineers hours and rate from a target amount.
//
// For each allowed rate in ServiceRates order it computes the whole-hour
// count nearest target/rate (minimum 1), snaps the amount to Round(hours *
// rate), and keeps the candidate whose snapped amount lies closest to the
// target. Exact ties go to the earlier-listed rate; the comparison is a
// strict less-than on purpose, so the first best candidate is never
// displaced by an equally-good later one.
//
// The returned Amount is the snapped total and may differ from target.
// A zero (or degenerate) target short-circuits to hours 0 at the default
// rate without searching.
func ResolveMetrics(target float64) Metrics {
	if !isFinite(target) || target <= 0 {
		return Metrics{Hours: 0, Rate: DefaultServiceRate, Amount: 0}
	}

	var best Metrics
	bestDiff := math.Inf(1)
	for _, rate := range ServiceRates {
		hours := Round(target / rate)
		if hours < 1 {
			hours = 1
		}
		snapped := Amount(hours, rate)
		diff := math.Abs(snapped - target)
		if diff < bestDiff {
			best = Metrics{Hours: hours, Rate: rate, Amount: snapped}
			bestDiff = diff
		}
	}
	return best
}
