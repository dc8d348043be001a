package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/shopspring/decimal"
)

// fetchTimeout bounds every outbound rate-fetch call.
const fetchTimeout = 5 * time.Second

// Fetcher retrieves a fresh set of exchange rates quoted against a fixed
// base currency. A Fetcher failure is always non-fatal: the fetch chain
// in Converter.Rates falls through to the next configured Fetcher and
// ultimately to the hard-coded default table.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) (map[string]decimal.Decimal, error)
}

// ExchangeRateAPIFetcher queries the open exchangerate-api.com latest-rates
// endpoint for a single base currency.
type ExchangeRateAPIFetcher struct {
	BaseCurrency string
	Client       *http.Client
}

func NewExchangeRateAPIFetcher(base string) *ExchangeRateAPIFetcher {
	return &ExchangeRateAPIFetcher{
		BaseCurrency: base,
		Client:       &http.Client{Timeout: fetchTimeout},
	}
}

func (f *ExchangeRateAPIFetcher) Name() string { return "exchangerate-api" }

func (f *ExchangeRateAPIFetcher) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("https://open.er-api.com/v6/latest/%s", f.BaseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchError, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}

	var payload struct {
		Result string                     `json:"result"`
		Rates  map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}
	if payload.Result != "success" || len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty result", domain.ErrFetchError)
	}
	return payload.Rates, nil
}

// ExchangeRatesAPIFetcher queries exchangeratesapi.io, the fetch chain's
// second-choice provider.
type ExchangeRatesAPIFetcher struct {
	BaseCurrency string
	APIKey       string
	Client       *http.Client
}

func NewExchangeRatesAPIFetcher(base, apiKey string) *ExchangeRatesAPIFetcher {
	return &ExchangeRatesAPIFetcher{
		BaseCurrency: base,
		APIKey:       apiKey,
		Client:       &http.Client{Timeout: fetchTimeout},
	}
}

func (f *ExchangeRatesAPIFetcher) Name() string { return "exchangeratesapi" }

func (f *ExchangeRatesAPIFetcher) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("https://api.exchangeratesapi.io/v1/latest?access_key=%s&base=%s", f.APIKey, f.BaseCurrency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrFetchError, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}

	var payload struct {
		Success bool                       `json:"success"`
		Rates   map[string]decimal.Decimal `json:"rates"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchError, err)
	}
	if !payload.Success || len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: empty result", domain.ErrFetchError)
	}
	return payload.Rates, nil
}

// MockFetcher returns a fixed rate map, for tests and for offline demo runs.
type MockFetcher struct {
	Rates map[string]decimal.Decimal
	Err   error
}

func (f *MockFetcher) Name() string { return "mock" }

func (f *MockFetcher) Fetch(ctx context.Context) (map[string]decimal.Decimal, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Rates, nil
}
