package taiwan

import (
	"testing"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/registry/calc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	insurance := map[int]decimal.Decimal{2024: decimal.NewFromFloat(0.12)}
	deduction := map[int]decimal.Decimal{2024: decimal.NewFromInt(92000)}
	tax := map[int][]calc.TaxBracket{
		2024: {
			{Min: decimal.Zero, Max: decimal.NewFromInt(560000), Rate: decimal.NewFromFloat(0.05)},
			{Min: decimal.NewFromInt(560000), Max: decimal.NewFromInt(1260000), Rate: decimal.NewFromFloat(0.12)},
		},
	}
	return NewConfig(insurance, deduction, tax)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := baseConfig()
	assert.Equal(t, 65, cfg.RetireAge)
	assert.Equal(t, 90, cfg.TerminalAge)
	assert.True(t, cfg.EmployerSplit.Equal(decimal.NewFromFloat(0.7)))
}

func TestCalculatorIdentity(t *testing.T) {
	c := New(baseConfig())
	assert.Equal(t, "TW", c.CountryCode())
	assert.Equal(t, "TWD", c.NativeCurrency())
}

func TestAnnualLedgerProducesEntries(t *testing.T) {
	c := New(baseConfig())
	p := domain.Person{BirthYear: 1990}
	s := domain.SalaryProfile{
		ContributionStartAge:  25,
		MonthlyStartingSalary: decimal.NewFromInt(66667),
		AnnualGrowthRate:      decimal.NewFromFloat(0.02),
	}
	e := domain.EconomicFactors{InflationRate: decimal.NewFromFloat(0.02), SSNotionalInterestRate: decimal.NewFromFloat(0.01)}

	ledger, err := c.AnnualLedger(p, s, e)
	require.NoError(t, err)
	require.NotEmpty(t, ledger)
	assert.Equal(t, 2015, ledger[0].CalendarYear)
	assert.True(t, ledger[0].EmployeeContributions["social_insurance"].GreaterThan(decimal.Zero))
}

func TestCalculateProducesMonotoneBenefits(t *testing.T) {
	c := New(baseConfig())
	p := domain.Person{BirthYear: 1990}
	s := domain.SalaryProfile{
		ContributionStartAge:  25,
		MonthlyStartingSalary: decimal.NewFromInt(66667),
		AnnualGrowthRate:      decimal.NewFromFloat(0.02),
	}
	e := domain.EconomicFactors{InflationRate: decimal.NewFromFloat(0.02), SSNotionalInterestRate: decimal.NewFromFloat(0.01)}

	result, err := c.Calculate(p, s, e)
	require.NoError(t, err)
	assert.True(t, result.MonthlyPensionAtRetirement.GreaterThan(decimal.Zero))
	assert.Equal(t, 65, result.RetirementAge)
	assert.Len(t, result.Schedule.MonthlyBenefits, (90-65)*12)
}
