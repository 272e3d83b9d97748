package templates

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sellers-dashboard/internal/models"
)

// Placeholder is shown wherever a value is undefined.
const Placeholder = "—"

var printer = message.NewPrinter(language.English)

// Currency formats v as whole dollars with thousands separators.
func Currency(v float64) string {
	if math.IsNaN(v) {
		return Placeholder
	}
	return printer.Sprintf("$%.0f", v)
}

// Integer formats n with thousands separators.
func Integer(n int) string {
	return printer.Sprintf("%d", n)
}

// AverageCurrency formats a mean, or the placeholder when it is undefined.
func AverageCurrency(a models.Average) string {
	if !a.Defined() {
		return Placeholder
	}
	return Currency(float64(a))
}

// Amount formats a raw cell value with two decimals, or the placeholder when
// the cell was blank.
func Amount(v models.Number) string {
	if !v.Defined() {
		return Placeholder
	}
	return printer.Sprintf("%.2f", float64(v))
}
