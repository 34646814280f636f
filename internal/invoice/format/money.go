package format

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "02.01.2006"

// Amount renders a currency amount with two fraction digits, e.g. "59.50EUR".
func Amount(v decimal.Decimal) string {
	return v.StringFixed(2) + "EUR"
}

// NegatedAmount renders a deduction, e.g. "-14.88EUR".
func NegatedAmount(v decimal.Decimal) string {
	return "-" + Amount(v)
}

// Percent renders a percentage without trailing zeros, e.g. "12.5".
func Percent(v decimal.Decimal) string {
	return v.String()
}

func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// Filename builds the download name for an invoice document. Every space of
// the trimmed customer name becomes an underscore.
func Filename(number, customerName string) string {
	name := strings.ReplaceAll(strings.TrimSpace(customerName), " ", "_")
	return "Rechnung_" + number + "_" + name + ".pdf"
}
