package runner

import (
	"context"
	"testing"

	"github.com/rgehrsitz/pensim/internal/currency"
	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/registry"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCalculator struct {
	code     string
	currency string
}

func (s stubCalculator) CountryCode() string              { return s.code }
func (s stubCalculator) NativeCurrency() string           { return s.currency }
func (s stubCalculator) RetirementAge(p domain.Person) int { return 65 }
func (s stubCalculator) AnnualLedger(p domain.Person, sp domain.SalaryProfile, e domain.EconomicFactors) ([]domain.YearLedgerEntry, error) {
	return nil, nil
}
func (s stubCalculator) Calculate(p domain.Person, sp domain.SalaryProfile, e domain.EconomicFactors) (*domain.PensionResult, error) {
	return &domain.PensionResult{
		CountryCode:                s.code,
		NativeCurrency:             s.currency,
		MonthlyPensionAtRetirement: sp.MonthlyStartingSalary.Mul(decimal.NewFromFloat(0.4)),
		TotalCombinedContributions: decimal.NewFromInt(1000),
		TotalLifetimeBenefits:      decimal.NewFromInt(5000),
		RetirementAge:              65,
	}, nil
}

func testConverter(t *testing.T) *currency.Converter {
	cache := currency.NewCache(t.TempDir() + "/exchange_rates.json")
	return currency.NewConverter(cache, "USD", &currency.MockFetcher{
		Rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
			"CNY": decimal.NewFromFloat(7.1),
			"SGD": decimal.NewFromFloat(1.34),
		},
	})
}

func testRegistry(t *testing.T) *registry.Registry {
	r := registry.NewRegistry()
	require.NoError(t, r.Register("CN", stubCalculator{code: "CN", currency: "CNY"}))
	require.NoError(t, r.Register("SG", stubCalculator{code: "SG", currency: "SGD"}))
	return r
}

func TestRunSingleCountryConvertsSalaryToNativeCurrency(t *testing.T) {
	r := &AnalysisRunner{
		Registry:      testRegistry(t),
		Converter:     testConverter(t),
		Salary:        currency.CurrencyAmount{Amount: decimal.NewFromInt(120000), Code: "USD"},
		Codes:         []string{"CN"},
		Person:        domain.Person{BirthYear: 1990},
		SalaryProfile: domain.SalaryProfile{ContributionStartAge: 25},
	}

	results, err := r.Run(context.Background(), domain.EconomicFactors{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	assert.Equal(t, "CN", results[0].Result.CountryCode)
	assert.Nil(t, results[0].Result.Converted)
}

func TestRunMultiCountryAddsConvertedHeadline(t *testing.T) {
	r := &AnalysisRunner{
		Registry:        testRegistry(t),
		Converter:       testConverter(t),
		Salary:          currency.CurrencyAmount{Amount: decimal.NewFromInt(120000), Code: "USD"},
		Codes:           []string{"CN", "SG"},
		DisplayCurrency: "USD",
		Person:          domain.Person{BirthYear: 1990},
		SalaryProfile:   domain.SalaryProfile{ContributionStartAge: 25},
	}

	results, err := r.Run(context.Background(), domain.EconomicFactors{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, res := range results {
		require.NoError(t, res.Err)
		require.NotNil(t, res.Result.Converted)
		assert.Equal(t, "USD", res.Result.Converted.Currency)
	}
}

func TestRunUnknownCountryCodeSurfacesPerCountryError(t *testing.T) {
	r := &AnalysisRunner{
		Registry:      testRegistry(t),
		Converter:     testConverter(t),
		Salary:        currency.CurrencyAmount{Amount: decimal.NewFromInt(120000), Code: "USD"},
		Codes:         []string{"XX"},
		Person:        domain.Person{BirthYear: 1990},
		SalaryProfile: domain.SalaryProfile{ContributionStartAge: 25},
	}

	results, err := r.Run(context.Background(), domain.EconomicFactors{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Error(t, results[0].Err)
}

func TestRunHouseholdCombinesMemberTotals(t *testing.T) {
	r := &AnalysisRunner{
		Registry:  testRegistry(t),
		Converter: testConverter(t),
		Salary:    currency.CurrencyAmount{Code: "USD"},
	}

	household := domain.Household{
		Members: []domain.Member{
			{
				Name:   "Robert",
				Person: domain.Person{BirthYear: 1990, Gender: domain.Male, Category: domain.Employee, StartWorkYear: 2012},
				Salary: domain.SalaryProfile{MonthlyStartingSalary: decimal.NewFromInt(6000), ContributionStartAge: 22},
			},
			{
				Name:   "Dawn",
				Person: domain.Person{BirthYear: 1991, Gender: domain.Female, Category: domain.Employee, StartWorkYear: 2013},
				Salary: domain.SalaryProfile{MonthlyStartingSalary: decimal.NewFromInt(5000), ContributionStartAge: 22},
			},
		},
	}

	result, err := r.RunHousehold(context.Background(), "CN", household, domain.EconomicFactors{})
	require.NoError(t, err)
	require.Len(t, result.Members, 2)
	assert.Equal(t, "Robert", result.Members[0].Name)
	assert.True(t, result.TotalCombinedContributions.Equal(decimal.NewFromInt(2000)))
	assert.True(t, result.TotalLifetimeBenefits.Equal(decimal.NewFromInt(10000)))
}

func TestRunHouseholdRejectsEmptyHousehold(t *testing.T) {
	r := &AnalysisRunner{Registry: testRegistry(t), Converter: testConverter(t)}
	_, err := r.RunHousehold(context.Background(), "CN", domain.Household{}, domain.EconomicFactors{})
	assert.Error(t, err)
}

func TestApplyOverridesOnlyChangesSetFields(t *testing.T) {
	rate := decimal.NewFromFloat(0.03)
	r := &AnalysisRunner{Overrides: Overrides{InflationRate: &rate}}
	got := r.applyOverrides(domain.EconomicFactors{InvestmentReturnRate: decimal.NewFromFloat(0.06)})
	assert.True(t, got.InflationRate.Equal(rate))
	assert.True(t, got.InvestmentReturnRate.Equal(decimal.NewFromFloat(0.06)))
}
