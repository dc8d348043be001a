package currency

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Converter implements the full fetch chain: a valid cache hit wins, then
// each Fetcher is tried in order, then the hard-coded default table. Every
// Fetcher error is swallowed; the chain as a whole cannot fail.
type Converter struct {
	Cache        *Cache
	Fetchers     []Fetcher
	BaseCurrency string
	Now          func() time.Time
}

func NewConverter(cache *Cache, base string, fetchers ...Fetcher) *Converter {
	return &Converter{
		Cache:        cache,
		Fetchers:     fetchers,
		BaseCurrency: base,
		Now:          time.Now,
	}
}

// Rates returns a usable RateTable, trying the cache, then each configured
// Fetcher in order, then the baked-in default table.
func (c *Converter) Rates(ctx context.Context) (*RateTable, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	today := now()

	if c.Cache != nil {
		if valid, table, err := c.Cache.Load(today); err == nil && valid {
			return table, nil
		}
	}

	for _, f := range c.Fetchers {
		rates, err := f.Fetch(ctx)
		if err != nil || len(rates) == 0 {
			continue
		}
		table := &RateTable{
			Date:         today.Format("2006-01-02"),
			Timestamp:    today.Format(time.RFC3339),
			APISource:    f.Name(),
			BaseCurrency: c.BaseCurrency,
			CacheVersion: cacheVersion,
			ExpiresAt:    today.AddDate(0, 0, 1).Format("2006-01-02"),
			Rates:        rates,
		}
		if c.Cache != nil {
			_ = c.Cache.Store(table)
		}
		return table, nil
	}

	return defaultRates(c.BaseCurrency, today), nil
}

// defaultRates is the hard-coded fallback table used when every configured
// fetcher fails and no valid cache exists. Figures are a dated snapshot, not
// live, and always tagged source=default so callers can warn the user.
func defaultRates(base string, today time.Time) *RateTable {
	rates := map[string]decimal.Decimal{
		"CNY": decimal.NewFromFloat(7.10),
		"USD": decimal.NewFromFloat(1.00),
		"EUR": decimal.NewFromFloat(0.92),
		"GBP": decimal.NewFromFloat(0.79),
		"JPY": decimal.NewFromFloat(149.50),
		"HKD": decimal.NewFromFloat(7.82),
		"SGD": decimal.NewFromFloat(1.34),
		"AUD": decimal.NewFromFloat(1.52),
		"CAD": decimal.NewFromFloat(1.36),
		"TWD": decimal.NewFromFloat(31.80),
		"NOK": decimal.NewFromFloat(10.60),
		"SEK": decimal.NewFromFloat(10.40),
		"DKK": decimal.NewFromFloat(6.86),
		"CHF": decimal.NewFromFloat(0.88),
		"INR": decimal.NewFromFloat(83.30),
		"KRW": decimal.NewFromFloat(1320.00),
		"RUB": decimal.NewFromFloat(92.00),
		"BRL": decimal.NewFromFloat(4.95),
	}
	if _, ok := rates[base]; !ok {
		rates[base] = decimal.NewFromInt(1)
	}
	return &RateTable{
		Date:         today.Format("2006-01-02"),
		Timestamp:    today.Format(time.RFC3339),
		APISource:    "default",
		BaseCurrency: base,
		CacheVersion: cacheVersion,
		ExpiresAt:    today.Format("2006-01-02"),
		Rates:        rates,
	}
}
