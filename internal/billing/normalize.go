package billing

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/str8builders/invoice/pkg/models"
)

// RawRecord is one candidate row from an external producer (spreadsheet
// import, AI text analysis, PDF extraction): arbitrarily-named, arbitrarily-
// cased keys mapped to raw text values. Any subset of fields may be absent.
type RawRecord map[string]string

// Alias lists per logical field, in priority order. Lookup first requires an
// exact key match, then falls back to case-insensitive comparison.
var (
	descriptionAliases = []string{"description", "item", "details", "particulars", "notes"}
	dateAliases        = []string{"date", "day", "when", "invoice date"}
	categoryAliases    = []string{"category", "type", "kind", "item type"}
	amountAliases      = []string{"amount", "total", "cost", "price", "value"}
	hoursAliases       = []string{"hours", "hrs", "quantity", "qty", "units"}
	rateAliases        = []string{"rate", "unit price", "unit cost", "price per unit", "hourly rate"}
)

// expenseKeywords classify a description as materials/expense on substring
// match. Vocabulary reflects what actually shows up on NZ trade invoices:
// merchant names, consumables, fuel and plant hire.
var expenseKeywords = []string{
	"material", "supplies", "consumable", "parts",
	"bunnings", "mitre 10", "mitre10", "placemakers", "carters",
	"hardware", "timber", "concrete", "cement", "paint",
	"screws", "nails", "fixings", "gib", "insulation",
	"fuel", "petrol", "diesel", "hire", "rental", "skip",
}

// Placeholder descriptions for rows that arrive without one.
const (
	placeholderService = "Labour"
	placeholderExpense = "Materials"
)

// NormalizeRecord turns a raw imported row into a well-formed line item:
// resolves aliased field names, infers the category, normalizes the date and
// fills the numeric fields self-consistently via the forward calculator and
// the reverse resolver.
//
// The routine is total. No record, however malformed, fails; the worst case
// is a zero-amount placeholder item. Re-running it over its own output is
// drift-free.
func NormalizeRecord(rec RawRecord) models.LineItem {
	description := fieldValue(rec, descriptionAliases)
	category := inferCategory(fieldValue(rec, categoryAliases), description)

	amount, hasAmount := parseNumber(fieldValue(rec, amountAliases))
	hours, hasHours := parseNumber(fieldValue(rec, hoursAliases))
	rate, hasRate := parseNumber(fieldValue(rec, rateAliases))

	item := models.LineItem{
		ID:          uuid.NewString(),
		Category:    category,
		Date:        CanonicalDate(fieldValue(rec, dateAliases)),
		Description: description,
	}
	if item.Description == "" {
		if category == models.CategoryExpense {
			item.Description = placeholderExpense
		} else {
			item.Description = placeholderService
		}
	}

	if category == models.CategoryExpense {
		resolveExpense(&item, amount, hasAmount, hours, hasHours, rate, hasRate)
	} else {
		resolveService(&item, amount, hasAmount, hours, hasHours, rate, hasRate)
	}
	return item
}

// NormalizeRecords maps NormalizeRecord over a batch, preserving order.
func NormalizeRecords(recs []RawRecord) []models.LineItem {
	items := make([]models.LineItem, 0, len(recs))
	for _, rec := range recs {
		items = append(items, NormalizeRecord(rec))
	}
	return items
}

// resolveExpense fills quantity/unit-cost/amount for a materials row. A
// supplied amount is authoritative: the decomposition is derived around it.
// Without an amount the row is a forward calculation from quantity and unit
// cost, zero if neither resolves.
func resolveExpense(item *models.LineItem, amount float64, hasAmount bool, qty float64, hasQty bool, rate float64, hasRate bool) {
	if hasAmount && amount > 0 {
		item.Amount = amount
		if hasRate && rate > 0 {
			item.Rate = rate
			if hasQty && qty > 0 {
				item.Hours = qty
			} else {
				derived := amount / rate
				if !isFinite(derived) || derived <= 0 {
					derived = 1
				}
				item.Hours = derived
			}
		} else {
			quantity := qty
			if !hasQty || quantity <= 0 {
				quantity = 1
			}
			item.Hours = quantity
			item.Rate = amount / quantity
		}
		return
	}

	quantity := qty
	if !hasQty || quantity <= 0 {
		quantity = 1
	}
	item.Hours = quantity
	if hasRate && rate > 0 {
		item.Rate = rate
	}
	item.Amount = Amount(item.Hours, item.Rate)
}

// resolveService fills hours/rate/amount for a labour row. A non-zero
// supplied amount wins outright: the reverse resolver's snapped
// decomposition replaces any explicit hours or rate. Otherwise the row is a
// forward calculation from the given hours at the given (or default) rate.
func resolveService(item *models.LineItem, amount float64, hasAmount bool, hours float64, hasHours bool, rate float64, hasRate bool) {
	if hasAmount && amount != 0 {
		m := ResolveMetrics(amount)
		item.Hours = m.Hours
		item.Rate = m.Rate
		item.Amount = m.Amount
		return
	}

	if hasHours && hours > 0 {
		item.Hours = hours
	}
	if hasRate && rate > 0 {
		item.Rate = rate
	} else {
		item.Rate = DefaultServiceRate
	}
	item.Amount = Amount(item.Hours, item.Rate)
}

// fieldValue resolves one logical field against its alias list: an exact-key
// pass over the aliases in priority order, then a case-insensitive pass.
// First alias with a non-empty value wins. When several case-variant keys
// fold to the same alias, the lexicographically smallest key is used, so
// map iteration order never leaks into the result.
func fieldValue(rec RawRecord, aliases []string) string {
	for _, alias := range aliases {
		if value, ok := rec[alias]; ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed
			}
		}
	}
	for _, alias := range aliases {
		var matched []string
		for key := range rec {
			if strings.EqualFold(strings.TrimSpace(key), alias) {
				matched = append(matched, key)
			}
		}
		sort.Strings(matched)
		for _, key := range matched {
			if trimmed := strings.TrimSpace(rec[key]); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// inferCategory classifies a row. An explicit category value containing
// "expense" decides immediately; otherwise the description is scanned for
// expense vocabulary; everything else is labour.
func inferCategory(categoryText, description string) models.Category {
	if strings.Contains(strings.ToLower(categoryText), "expense") {
		return models.CategoryExpense
	}
	lower := strings.ToLower(description)
	for _, keyword := range expenseKeywords {
		if strings.Contains(lower, keyword) {
			return models.CategoryExpense
		}
	}
	return models.CategoryService
}

var numberCleaner = strings.NewReplacer("NZ$", "", "$", "", ",", "", " ", "")

// parseNumber extracts a finite number from raw cell text, tolerating
// currency symbols and digit grouping. The boolean reports whether a usable
// value was present at all.
func parseNumber(text string) (float64, bool) {
	cleaned := numberCleaner.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || !isFinite(value) {
		return 0, false
	}
	return value, true
}
