// Package report renders computed results for people: formatted amounts,
// the narrative summary, and the JSON views the API and exports serialize.
package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var en = message.NewPrinter(language.English)

// Money formats a dollar amount with thousands separators: $1,234.50.
func Money(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return en.Sprintf("$%.2f", v)
}

// SignedMoney always carries a sign: $+1,234.50.
func SignedMoney(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return en.Sprintf("$%+.2f", v)
}

// Percent formats a signed percentage with one decimal: +1.5%.
func Percent(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return en.Sprintf("%+.1f%%", v)
}

// Weight rounds a survey weight up to a whole count of families: 1,501.
func Weight(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return en.Sprintf("%d", int64(math.Ceil(v)))
}
