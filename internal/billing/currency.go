package billing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var nzPrinter = message.NewPrinter(language.MustParse("en-NZ"))

// FormatNZD renders an amount as a whole-dollar display string with locale
// digit grouping, e.g. "$1,234". Amounts are whole dollars throughout the
// engine; rounding here is a guard, not a policy. Negative amounts render
// as "-$50".
func FormatNZD(amount float64) string {
	n := Round(amount)
	if n < 0 {
		return "-$" + nzPrinter.Sprintf("%v", number.Decimal(-n, number.MaxFractionDigits(0)))
	}
	return "$" + nzPrinter.Sprintf("%v", number.Decimal(n, number.MaxFractionDigits(0)))
}
