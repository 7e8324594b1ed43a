// Package money formats prices for display.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency symbol appended to every formatted price.
const Currency = "€"

var locale = language.Spanish

// groupingThreshold is the smallest amount shown with thousands separators.
// Spanish only groups integer parts of five or more digits.
var groupingThreshold = decimal.NewFromInt(10000)

// FormatPrice renders a price the way the storefront shows it, e.g. "3,50 €",
// "1234,50 €" or "12.345,00 €".
func FormatPrice(price decimal.Decimal) string {
	rounded := price.Round(2)
	opts := []number.Option{number.Scale(2)}
	if rounded.Abs().LessThan(groupingThreshold) {
		opts = append(opts, number.NoSeparator())
	}

	p := message.NewPrinter(locale)
	return p.Sprintf("%v %s", number.Decimal(rounded.InexactFloat64(), opts...), Currency)
}
