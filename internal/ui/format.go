package ui

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol maps an ISO currency code to its display symbol. Unknown
// codes are shown as-is.
func CurrencySymbol(code string) string {
	switch code {
	case "EUR", "":
		return "€"
	case "USD":
		return "$"
	case "GBP":
		return "£"
	case "CHF":
		return "CHF"
	default:
		return code
	}
}

// FormatCurrency renders an amount in the configured currency, with a
// thousands separator and two decimal places, e.g. "€ 1.250,00".
func FormatCurrency(amount decimal.Decimal, symbol string) string {
	if symbol == "" {
		symbol = "€"
	}

	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	intPart := fixed[:len(fixed)-3]
	fracPart := fixed[len(fixed)-2:]

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := symbol + " " + strings.Join(groups, ".") + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
