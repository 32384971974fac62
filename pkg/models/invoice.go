package models

import "time"

// Category classifies a line item for tax purposes. Labour (service) attracts
// GST and withholding tax; materials and other pass-through costs (expense)
// do not.
type Category string

const (
	CategoryService Category = "service"
	CategoryExpense Category = "expense"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	return c == CategoryService || c == CategoryExpense
}

// LineItem is a single billable row on an invoice.
//
// Hours holds hours worked for service items and unit quantity for expense
// items. Date is either canonical YYYY-MM-DD or the raw text the item was
// captured with; display formatting never destroys unparseable input.
type LineItem struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Hours       float64  `json:"hours"`
	Rate        float64  `json:"rate"`
	Amount      float64  `json:"amount"` // whole dollars, derived from Hours*Rate
}

// IsService reports whether the item is billable labour.
func (i LineItem) IsService() bool {
	return i.Category == CategoryService
}

// Totals is the tax summary for one invoice, all values in whole dollars.
type Totals struct {
	Gross          float64 `json:"gross"`           // sum of all line amounts
	GST            float64 `json:"gst"`             // 15% of the service subtotal
	WithholdingTax float64 `json:"withholding_tax"` // 20% of the service subtotal
	Payable        float64 `json:"payable"`         // gross + GST, what the client pays
	NetRetained    float64 `json:"net_retained"`    // gross - withholding, what the business keeps
}

// BusinessDetails is the invoice "From" block. Loaded once from configuration
// at startup and treated as immutable.
type BusinessDetails struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	GSTNumber   string `json:"gst_number"`
	BankAccount string `json:"bank_account"`
}

// Client is the invoice "To" block.
type Client struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// Invoice is a draft invoice as persisted between editing sessions.
type Invoice struct {
	Number   string          `json:"number"`   // e.g. STR8-20240315-01
	Date     string          `json:"date"`     // canonical YYYY-MM-DD issue date
	Business BusinessDetails `json:"business"` // immutable From block
	Client   Client          `json:"client"`
	Items    []LineItem      `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
