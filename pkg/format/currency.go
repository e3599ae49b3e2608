// Package format renders monetary amounts and ratios for human-readable output.
package format

import (
	"math"

	"github.com/iwvelando/acquisition-forecast/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func printer() *message.Printer {
	return message.NewPrinter(language.English)
}

// Currency returns a currency string with a dollar sign and thousands separators (e.g., "-$1,234.56").
func Currency(amount float64) string {
	formatted := NumericCurrency(math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// WholeCurrency is Currency rounded to whole units (e.g., "$1,235").
func WholeCurrency(amount float64) string {
	formatted := printer().Sprintf("%.0f", math.Abs(amount))
	if amount < 0 {
		return "-$" + formatted
	}
	return "$" + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	return printer().Sprintf("%.2f", amount)
}

// Percent renders a fraction as a percentage with one decimal (0.125 -> "12.5%").
func Percent(fraction float64) string {
	return printer().Sprintf("%.1f%%", fraction*constants.PercentageMultiplier)
}

// Multiple renders a valuation multiple (3.25 -> "3.25x").
func Multiple(value float64) string {
	return printer().Sprintf("%.2fx", value)
}
