package uk

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
	deduction := map[int]decimal.Decimal{2024: decimal.NewFromInt(12570)}
	tax := map[int][]calc.TaxBracket{
		2024: {
			{Min: decimal.Zero, Max: decimal.NewFromInt(37700), Rate: decimal.NewFromFloat(0.2)},
			{Min: decimal.NewFromInt(37700), Max: decimal.NewFromInt(125140), Rate: decimal.NewFromFloat(0.4)},
		},
	}
	return NewConfig(insurance, deduction, tax)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := baseConfig()
	assert.Equal(t, 66, cfg.RetireAge)
	assert.Equal(t, 90, cfg.TerminalAge)
	assert.True(t, cfg.EmployerSplit.Equal(decimal.NewFromFloat(0.6)))
}

func TestCalculatorIdentity(t *testing.T) {
	c := New(baseConfig())
	assert.Equal(t, "UK", c.CountryCode())
	assert.Equal(t, "GBP", c.NativeCurrency())
}

func TestCalculateProducesPositivePension(t *testing.T) {
	c := New(baseConfig())
	p := domain.Person{BirthYear: 1988}
	s := domain.SalaryProfile{
		ContributionStartAge:  25,
		MonthlyStartingSalary: decimal.NewFromInt(3500),
		AnnualGrowthRate:      decimal.NewFromFloat(0.02),
	}
	e := domain.EconomicFactors{InflationRate: decimal.NewFromFloat(0.02), SSNotionalInterestRate: decimal.NewFromFloat(0.01)}

	result, err := c.Calculate(p, s, e)
	require.NoError(t, err)
	assert.True(t, result.MonthlyPensionAtRetirement.GreaterThan(decimal.Zero))
	assert.Equal(t, 66, result.RetirementAge)
	assert.Len(t, result.Schedule.MonthlyBenefits, (90-66)*12)
}
