package billing

import "github.com/str8builders/invoice/pkg/models"

// CalculateTotals folds the item collection into the invoice tax summary.
//
// GST and withholding tax apply to the service subtotal only; expense lines
// contribute to gross but never to either tax figure. The result is derived
// from scratch on every call and the input slice is never mutated. An empty
// collection yields all zeros.
func CalculateTotals(items []models.LineItem) models.Totals {
	var serviceSubtotal, gross float64
	for _, item := range items {
		if !isFinite(item.Amount) {
			continue
		}
		gross += item.Amount
		if item.IsService() {
			serviceSubtotal += item.Amount
		}
	}

	gst := Round(serviceSubtotal * GSTRate)
	withholding := Round(serviceSubtotal * WithholdingRate)

	return models.Totals{
		Gross:          gross,
		GST:            gst,
		WithholdingTax: withholding,
		Payable:        gross + gst,
		NetRetained:    gross - withholding,
	}
}
