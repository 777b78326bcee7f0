package currency

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency describes one supported display currency. Decimals is the number
// of fractional digits shown, not a conversion precision.
type Currency struct {
	Code     string `json:"code"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// DefaultCode is used whenever a stored or requested code is unknown.
const DefaultCode = "XOF"

var registry = map[string]Currency{
	"XOF": {
		Code:     "XOF",
		Symbol:   "FCFA",
		Name:     "Franc CFA",
		Decimals: 0,
	},
	"MAD": {
		Code:     "MAD",
		Symbol:   "MAD",
		Name:     "Dirham marocain",
		Decimals: 2,
	},
}

// Resolve returns the currency for the given code, falling back to the
// default currency for unknown or empty codes. It never fails: every part of
// the system can rely on always holding a real currency.
func Resolve(code string) Currency {
	if c, ok := registry[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return c
	}
	return registry[DefaultCode]
}

// Known reports whether code resolves to a registered currency as-is.
func Known(code string) bool {
	_, ok := registry[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Codes lists the registered currency codes in display order.
func Codes() []string {
	return []string{"XOF", "MAD"}
}

// Format renders an amount in the given currency: exactly c.Decimals
// fractional digits, rounded half away from zero, decimal comma, no grouping
// separators, trailing symbol ("1500 FCFA", "99,50 MAD"). Non-finite amounts
// render as zero.
func Format(amount float64, c Currency) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return FormatDecimal(decimal.NewFromFloat(amount), c)
}

// FormatDecimal is Format for amounts already held as decimals.
func FormatDecimal(amount decimal.Decimal, c Currency) string {
	// StringFixed rounds half away from zero.
	number := amount.StringFixed(int32(c.Decimals))
	number = strings.Replace(number, ".", ",", 1)
	return number + " " + c.Symbol
}
