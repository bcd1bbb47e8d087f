// Package format renders engine values for display. Nothing here feeds back
// into the calculation.
package format

import (
	"strings"
	"time"

	"github.com/iwvelando/mortgage-amortization/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with the given symbol and thousands
// separators (e.g., "-$1,234.56"). An empty symbol falls back to "$".
func Currency(amount float64, symbol string) string {
	if symbol == "" {
		symbol = constants.DefaultCurrencySymbol
	}
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-" + symbol + formatPositiveCurrency(d.Neg())
	}
	return symbol + formatPositiveCurrency(d)
}

// Percent renders a percentage with two decimals, e.g. "6.50%".
func Percent(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2) + "%"
}

// LongDate renders a date the way the summary displays it, e.g. "January 02, 2006".
func LongDate(t time.Time) string {
	return t.Format("January 02, 2006")
}

func formatPositiveCurrency(value decimal.Decimal) string {
	formatted := value.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
