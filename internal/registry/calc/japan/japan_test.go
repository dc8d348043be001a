package japan

import (
	"testing"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/registry/calc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	insurance := map[int]decimal.Decimal{2024: decimal.NewFromFloat(0.183)}
	deduction := map[int]decimal.Decimal{2024: decimal.NewFromInt(480000)}
	tax := map[int][]calc.TaxBracket{
		2024: {
			{Min: decimal.Zero, Max: decimal.NewFromInt(1950000), Rate: decimal.NewFromFloat(0.05)},
			{Min: decimal.NewFromInt(1950000), Max: decimal.NewFromInt(3300000), Rate: decimal.NewFromFloat(0.1)},
		},
	}
	return NewConfig(insurance, deduction, tax)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := baseConfig()
	assert.Equal(t, 65, cfg.RetireAge)
	assert.Equal(t, 90, cfg.TerminalAge)
	assert.True(t, cfg.EmployerSplit.Equal(decimal.NewFromFloat(0.5)))
}

func TestCalculatorIdentity(t *testing.T) {
	c := New(baseConfig())
	assert.Equal(t, "JP", c.CountryCode())
	assert.Equal(t, "JPY", c.NativeCurrency())
}

func TestAnnualLedgerSplitsEmployerEmployeeEvenly(t *testing.T) {
	c := New(baseConfig())
	p := domain.Person{BirthYear: 1990}
	s := domain.SalaryProfile{
		ContributionStartAge:  25,
		MonthlyStartingSalary: decimal.NewFromInt(400000),
		AnnualGrowthRate:      decimal.NewFromFloat(0.015),
	}
	e := domain.EconomicFactors{InflationRate: decimal.NewFromFloat(0.01), SSNotionalInterestRate: decimal.NewFromFloat(0.01)}

	ledger, err := c.AnnualLedger(p, s, e)
	require.NoError(t, err)
	require.NotEmpty(t, ledger)
	first := ledger[0]
	assert.True(t, first.EmployeeContributions["social_insurance"].Equal(first.EmployerContributions["social_insurance"]))
}

func TestCalculateProducesPositivePension(t *testing.T) {
	c := New(baseConfig())
	p := domain.Person{BirthYear: 1990}
	s := domain.SalaryProfile{
		ContributionStartAge:  25,
		MonthlyStartingSalary: decimal.NewFromInt(400000),
		AnnualGrowthRate:      decimal.NewFromFloat(0.015),
	}
	e := domain.EconomicFactors{InflationRate: decimal.NewFromFloat(0.01), SSNotionalInterestRate: decimal.NewFromFloat(0.01)}

	result, err := c.Calculate(p, s, e)
	require.NoError(t, err)
	assert.True(t, result.MonthlyPensionAtRetirement.GreaterThan(decimal.Zero))
	assert.Equal(t, 65, result.RetirementAge)
}
