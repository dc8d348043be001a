package currency

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable() *RateTable {
	return &RateTable{
		BaseCurrency: "USD",
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"CNY": decimal.NewFromFloat(7.10),
			"EUR": decimal.NewFromFloat(0.92),
		},
	}
}

func TestParseAmountForms(t *testing.T) {
	cases := []struct {
		input    string
		wantCode string
		wantAmt  string
	}{
		{"cny10000", "CNY", "10000"},
		{"10000cny", "CNY", "10000"},
		{"$1,234.50", "USD", "1234.50"},
		{"¥500000", "JPY", "500000"},
		{"S$8000", "SGD", "8000"},
		{"HK$9999", "HKD", "9999"},
		{"NT$12345", "TWD", "12345"},
		{"50000", "CNY", "50000"},
		{"  50 000 ", "CNY", "50000"},
	}
	for _, c := range cases {
		got, err := ParseAmount(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.wantCode, got.Code, c.input)
		assert.True(t, got.Amount.Equal(decimal.RequireFromString(c.wantAmt)), "%s: got %s want %s", c.input, got.Amount, c.wantAmt)
	}
}

func TestParseAmountRejectsMalformed(t *testing.T) {
	for _, bad := range []string{"", "   ", "abcdef", "cny", "$"} {
		_, err := ParseAmount(bad)
		assert.Error(t, err, bad)
		assert.True(t, errors.Is(err, domain.ErrParseError), bad)
	}
}

func TestFormatAmountRoundTrips(t *testing.T) {
	amt := decimal.RequireFromString("1234.50")
	formatted := FormatAmount(amt, "usd")
	parsed, err := ParseAmount(formatted)
	require.NoError(t, err)
	assert.Equal(t, "USD", parsed.Code)
	assert.True(t, parsed.Amount.Equal(amt))
}

func TestConvertIdentityAndCross(t *testing.T) {
	table := testTable()

	same, err := Convert(table, decimal.NewFromInt(100), "USD", "USD")
	require.NoError(t, err)
	assert.True(t, same.Equal(decimal.NewFromInt(100)))

	cross, err := Convert(table, decimal.NewFromInt(100), "USD", "CNY")
	require.NoError(t, err)
	assert.True(t, cross.Equal(decimal.NewFromFloat(710)))

	_, err = Convert(table, decimal.NewFromInt(100), "USD", "XXX")
	assert.True(t, errors.Is(err, domain.ErrUnknownCurrency))
}

func TestCacheRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "exchange_rates.json")
	c := NewCache(cachePath)

	today := time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC)
	valid, _, err := c.Load(today)
	require.NoError(t, err)
	assert.False(t, valid)

	table := testTable()
	table.Date = today.Format("2006-01-02")
	require.NoError(t, c.Store(table))

	valid, loaded, err := c.Load(today)
	require.NoError(t, err)
	assert.True(t, valid)
	assert.Equal(t, "USD", loaded.BaseCurrency)

	tomorrow := today.AddDate(0, 0, 1)
	valid, _, err = c.Load(tomorrow)
	require.NoError(t, err)
	assert.False(t, valid)

	_, statErr := os.Stat(cachePath + ".tmp")
	assert.True(t, os.IsNotExist(statErr))
}

func TestConverterFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	conv := NewConverter(NewCache(filepath.Join(dir, "exchange_rates.json")), "USD",
		&MockFetcher{Err: domain.ErrFetchError},
		&MockFetcher{Err: domain.ErrFetchError},
	)
	table, err := conv.Rates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "default", table.APISource)
}

func TestConverterUsesFirstSuccessfulFetcher(t *testing.T) {
	dir := t.TempDir()
	mock := &MockFetcher{Rates: map[string]decimal.Decimal{"USD": decimal.NewFromInt(1), "CNY": decimal.NewFromFloat(7.2)}}
	conv := NewConverter(NewCache(filepath.Join(dir, "exchange_rates.json")), "USD",
		&MockFetcher{Err: domain.ErrFetchError},
		mock,
	)
	table, err := conv.Rates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mock", table.APISource)
}

func TestSuggestCurrency(t *testing.T) {
	assert.Equal(t, "USD", SuggestCurrency("USX"))
	assert.Equal(t, "CNY", SuggestCurrency("CNYY"))
	assert.Equal(t, "", SuggestCurrency("ZZZZZZ"))
}
