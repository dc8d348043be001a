// Package currency implements the exchange-rate table, its fetch/cache
// chain, and the amount parsing and conversion rules every calculator's
// native-currency output is translated through on its way to the display
// currency.
package currency

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/shopspring/decimal"
)

// SupportedCurrencies is the exact set the simulator accepts.
var SupportedCurrencies = []string{
	"CNY", "USD", "EUR", "GBP", "JPY", "HKD", "SGD", "AUD",
	"CAD", "TWD", "NOK", "SEK", "DKK", "CHF", "INR", "KRW", "RUB", "BRL",
}

// IsSupported reports whether code is one of the exact supported currencies.
func IsSupported(code string) bool {
	code = strings.ToUpper(code)
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// RateTable holds one snapshot of exchange rates, all quoted against
// BaseCurrency, plus provenance metadata matching the cache file schema.
type RateTable struct {
	Date         string                     `json:"date"`
	Timestamp    string                     `json:"timestamp"`
	APISource    string                     `json:"api_source"`
	BaseCurrency string                     `json:"base_currency"`
	CacheVersion string                     `json:"cache_version"`
	ExpiresAt    string                     `json:"expires_at"`
	Rates        map[string]decimal.Decimal `json:"rates"`
}

// Rate returns the rate for code against the table's base currency.
func (t *RateTable) Rate(code string) (decimal.Decimal, error) {
	if code == t.BaseCurrency {
		return decimal.NewFromInt(1), nil
	}
	r, ok := t.Rates[code]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrUnknownCurrency, code)
	}
	return r, nil
}

// Convert translates amount from one currency to another using table.
// Same-currency conversion is the identity; unknown codes return
// ErrUnknownCurrency.
func Convert(table *RateTable, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}
	rFrom, err := table.Rate(from)
	if err != nil {
		return decimal.Zero, err
	}
	rTo, err := table.Rate(to)
	if err != nil {
		return decimal.Zero, err
	}
	return amount.Mul(rTo).Div(rFrom), nil
}

// CurrencyAmount pairs a parsed amount with its ISO currency code.
type CurrencyAmount struct {
	Amount decimal.Decimal
	Code   string
}

var symbolTable = map[string]string{
	"¥":   "JPY",
	"$":   "USD",
	"€":   "EUR",
	"£":   "GBP",
	"S$":  "SGD",
	"HK$": "HKD",
	"NT$": "TWD",
}

// sortedSymbols lists symbolTable keys longest-first so "HK$" is matched
// before the bare "$" it contains.
var sortedSymbols = []string{"HK$", "NT$", "S$", "¥", "$", "€", "£"}

var codePattern = regexp.MustCompile(`^[A-Za-z]{3}$`)

// ParseAmount accepts the four input forms documented for the simulator's
// salary-amount CLI argument: "<code><digits>", "<digits><code>",
// "<symbol><digits>", and a bare "<digits>" (default currency CNY).
// Whitespace and commas are stripped before matching; code matching is
// case-insensitive. Any other form fails with ErrParseError.
func ParseAmount(input string) (CurrencyAmount, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == ' ' || r == ',' || r == '\t' {
			return -1
		}
		return r
	}, strings.TrimSpace(input))
	if cleaned == "" {
		return CurrencyAmount{}, fmt.Errorf("%w: empty amount", domain.ErrParseError)
	}

	for _, sym := range sortedSymbols {
		if strings.HasPrefix(cleaned, sym) {
			digits := cleaned[len(sym):]
			amt, err := decimal.NewFromString(digits)
			if err != nil || digits == "" {
				return CurrencyAmount{}, fmt.Errorf("%w: malformed amount after symbol %q", domain.ErrParseError, sym)
			}
			return CurrencyAmount{Amount: amt, Code: symbolTable[sym]}, nil
		}
	}

	if len(cleaned) > 3 && codePattern.MatchString(cleaned[:3]) {
		code := strings.ToUpper(cleaned[:3])
		amt, err := decimal.NewFromString(cleaned[3:])
		if err == nil {
			return CurrencyAmount{Amount: amt, Code: code}, nil
		}
	}

	if len(cleaned) > 3 && codePattern.MatchString(cleaned[len(cleaned)-3:]) {
		code := strings.ToUpper(cleaned[len(cleaned)-3:])
		amt, err := decimal.NewFromString(cleaned[:len(cleaned)-3])
		if err == nil {
			return CurrencyAmount{Amount: amt, Code: code}, nil
		}
	}

	if amt, err := decimal.NewFromString(cleaned); err == nil {
		return CurrencyAmount{Amount: amt, Code: "CNY"}, nil
	}

	return CurrencyAmount{}, fmt.Errorf("%w: %q", domain.ErrParseError, input)
}

// FormatAmount is ParseAmount's round-trip partner: "<CODE><digits>".
func FormatAmount(amount decimal.Decimal, code string) string {
	return strings.ToUpper(code) + amount.StringFixed(2)
}
