package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders value with two fixed decimals, grouping the integer
// part in thousands.
func FormatMoney(value decimal.Decimal, thousand, decimalSep string) string {
	fixed := value.Abs().StringFixed(2)
	whole, fraction, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteString(thousand)
		}
		grouped.WriteRune(digit)
	}

	result := grouped.String() + decimalSep + fraction
	if value.Round(2).IsNegative() {
		return "-" + result
	}

	return result
}
