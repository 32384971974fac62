// Package billing implements the invoice calculation engine.
//
// Everything in this package is a pure, synchronous function over in-memory
// values: forward amount calculation from hours and rate, reverse resolution
// of (hours, rate) from a target amount against the allowed charge-out rates,
// GST/withholding aggregation over an item collection, date and currency
// normalization for display, and classification of raw imported rows into
// well-formed line items.
//
// Tax Rules (New Zealand):
//   - GST is charged at 15% on labour (service items) only.
//   - Withholding tax is deducted at 20% of the labour subtotal.
//   - Expense items (materials, supplies) pass through untaxed.
//
// Normalizers in this package are total: malformed input degrades to a
// pass-through or zero value, never an error. Callers that need a failure
// channel (AI extraction, PDF processing) live in their own packages and
// feed their output through NormalizeRecord.
package billing

import (
	"github.com/google/uuid"

	"github.com/str8builders/invoice/pkg/models"
)

// Fixed tax rates. Jurisdiction configurability is deliberately not
// supported; these match the NZ rules the business operates under.
const (
	// GSTRate is applied to the service-only subtotal.
	GSTRate = 0.15

	// WithholdingRate is deducted from the service-only subtotal.
	WithholdingRate = 0.20
)

// ServiceRates are the allowed hourly charge-out rates, in the fixed order
// used for tie-breaking by ResolveMetrics. Earlier rates win exact ties.
var ServiceRates = []float64{60, 65}

// DefaultServiceRate is the rate applied to new service items and to the
// zero-target resolver case.
var DefaultServiceRate = ServiceRates[0]

// NewServiceItem returns a fresh labour line with one hour at the default
// charge-out rate.
func NewServiceItem() models.LineItem {
	return models.LineItem{
		ID:       uuid.NewString(),
		Category: models.CategoryService,
		Hours:    1,
		Rate:     DefaultServiceRate,
		Amount:   Amount(1, DefaultServiceRate),
	}
}

// NewExpenseItem returns a fresh materials line with quantity 1 and no cost.
func NewExpenseItem() models.LineItem {
	return models.LineItem{
		ID:       uuid.NewString(),
		Category: models.CategoryExpense,
		Hours:    1,
	}
}
