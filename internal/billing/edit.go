package billing

import "github.com/str8builders/invoice/pkg/models"

// Editing semantics: hours and rate edits recompute the amount immediately;
// a direct amount edit is two-phase. While the value is still being typed
// only the rate is back-derived (PreviewAmount), and the reverse resolver
// snaps service items once the edit is committed (CommitAmount). This keeps
// the row internally consistent mid-edit without disruptive snapping.

// SetHours applies an hours (or quantity) edit and recomputes the amount.
func SetHours(item *models.LineItem, hours float64) {
	if !isFinite(hours) || hours < 0 {
		hours = 0
	}
	item.Hours = hours
	item.Amount = Amount(item.Hours, item.Rate)
}

// SetRate applies a rate (or unit cost) edit and recomputes the amount.
func SetRate(item *models.LineItem, rate float64) {
	if !isFinite(rate) || rate < 0 {
		rate = 0
	}
	item.Rate = rate
	item.Amount = Amount(item.Hours, item.Rate)
}

// PreviewAmount applies an in-progress direct amount edit. The amount is
// authoritative; only the rate is back-derived from the current hours so the
// row stays consistent while typing. With zero hours the rate goes to zero
// rather than propagating a division by zero.
func PreviewAmount(item *models.LineItem, amount float64) {
	if !isFinite(amount) {
		amount = 0
	}
	item.Amount = amount
	if item.Hours > 0 {
		item.Rate = item.Amount / item.Hours
	} else {
		item.Rate = 0
	}
}

// CommitAmount finalizes a direct amount edit. Service items are snapped to
// the nearest whole-hour decomposition over the allowed charge-out rates;
// expense items keep the amount as entered.
func CommitAmount(item *models.LineItem) {
	if !item.IsService() {
		return
	}
	m := ResolveMetrics(item.Amount)
	item.Hours = m.Hours
	item.Rate = m.Rate
	item.Amount = m.Amount
}

// SwitchCategory reinterprets an item under the other category, preserving
// the total: to expense the row becomes one unit at cost equal to the
// amount; to service the hours carry over (minimum 1) and the rate is
// re-derived from them. The amount never changes here.
func SwitchCategory(item *models.LineItem, to models.Category) {
	if !to.Valid() || item.Category == to {
		return
	}
	switch to {
	case models.CategoryExpense:
		item.Category = to
		item.Hours = 1
		item.Rate = item.Amount
	case models.CategoryService:
		item.Category = to
		if item.Hours <= 0 {
			item.Hours = 1
		}
		item.Rate = item.Amount / item.Hours
	}
}
