// Package display converts selected quote records into display strings:
// quantized, currency-symbol-annotated prices and timezone-localized
// timestamps, each step degrading independently on malformed input.
package display

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencySymbols maps known currency codes to their display symbols.
var currencySymbols = map[string]string{
	"EUR": "€",
	"GBP": "£",
	"USD": "$",
}

// Price renders a raw price with its currency. The price is parsed as an
// exact decimal and quantized to two fractional digits with round-half-even.
// An unparsable price degrades to the raw value plus the currency code; an
// unknown currency renders as "<amount> <code>" instead of a symbol prefix.
func Price(raw, currency string) string {
	value := strings.TrimSpace(raw)
	code := strings.TrimSpace(currency)

	d, err := decimal.NewFromString(value)
	if err != nil {
		return strings.TrimSpace(value + " " + code)
	}
	amount := d.RoundBank(2).StringFixed(2)

	if symbol, ok := currencySymbols[code]; ok {
		return symbol + amount
	}
	return strings.TrimSpace(amount + " " + code)
}
