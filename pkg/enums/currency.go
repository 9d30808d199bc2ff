package enums

import "fmt"

// Currency is the display currency of a ledger or profile.
type Currency string

const (
	CurrencyKRW Currency = "KRW"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyJPY Currency = "JPY"
	CurrencyCNY Currency = "CNY"
)

// DefaultCurrency applies when a ledger or profile omits one.
const DefaultCurrency = CurrencyKRW

var validCurrencies = []Currency{
	CurrencyKRW,
	CurrencyUSD,
	CurrencyEUR,
	CurrencyJPY,
	CurrencyCNY,
}

// String implements fmt.Stringer.
func (c Currency) String() string {
	return string(c)
}

// IsValid reports whether the currency is recognized.
func (c Currency) IsValid() bool {
	for _, candidate := range validCurrencies {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCurrency converts a raw string into a Currency.
func ParseCurrency(value string) (Currency, error) {
	for _, candidate := range validCurrencies {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid currency %q", value)
}
