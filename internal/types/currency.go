package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an entity does not specify one.
const DefaultCurrency = "usd"

// currencyPrecision maps ISO currency codes to the number of decimal places
// of their smallest unit. Anything not listed uses two decimals.
var currencyPrecision = map[string]int32{
	"usd": 2,
	"eur": 2,
	"gbp": 2,
	"aud": 2,
	"cad": 2,
	"inr": 2,
	"sar": 2,
	"aed": 2,
	"jpy": 0,
	"krw": 0,
	"vnd": 0,
	"clp": 0,
	"bhd": 3,
	"kwd": 3,
	"omr": 3,
}

// GetCurrencyPrecision returns the decimal precision for a currency code.
func GetCurrencyPrecision(currency string) int32 {
	if p, ok := currencyPrecision[strings.ToLower(strings.TrimSpace(currency))]; ok {
		return p
	}
	return 2
}

// RoundToCurrency rounds an amount to the currency's smallest unit using
// banker's rounding. Rounding happens once, at the point an amount is
// persisted or displayed; intermediate arithmetic keeps full precision.
func RoundToCurrency(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.RoundBank(GetCurrencyPrecision(currency))
}

// IsMatchingCurrency compares two currency codes ignoring case.
func IsMatchingCurrency(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
