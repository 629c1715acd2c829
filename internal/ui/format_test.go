package ui

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "€ 0,00"},
		{"7.5", "€ 7,50"},
		{"1250", "€ 1.250,00"},
		{"1234567.89", "€ 1.234.567,89"},
		{"-42.10", "-€ 42,10"},
	}

	for _, tc := range cases {
		got := FormatCurrency(decimal.RequireFromString(tc.in), "€")
		assert.Equal(t, tc.want, got, "amount %s", tc.in)
	}
}

func TestFormatCurrency_DefaultSymbol(t *testing.T) {
	assert.Equal(t, "€ 1,00", FormatCurrency(decimal.NewFromInt(1), ""))
}

func TestCurrencySymbol(t *testing.T) {
	assert.Equal(t, "€", CurrencySymbol("EUR"))
	assert.Equal(t, "$", CurrencySymbol("USD"))
	assert.Equal(t, "£", CurrencySymbol("GBP"))
	assert.Equal(t, "SEK", CurrencySymbol("SEK"))
}
