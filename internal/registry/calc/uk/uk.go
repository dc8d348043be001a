// Package uk wraps the shared generic payroll-insurance/income-tax/
// earnings-plus-flat-tier retirement model with the UK's National
// Insurance and State Pension parameters.
package uk

import (
	"github.com/rgehrsitz/pensim/internal/registry/calc"
	"github.com/shopspring/decimal"
)

// Config is the UK's per-year constants table: National Insurance rate
// (applied to the full gross salary; the base is not capped), personal
// allowance (standard deduction), and income-tax brackets.
type Config struct {
	InsuranceRateByYear map[int]decimal.Decimal
	DeductionByYear     map[int]decimal.Decimal
	TaxBracketsByYear   map[int][]calc.TaxBracket
	EmployerSplit       decimal.Decimal
	RetireAge           int
	TerminalAge         int
}

func NewConfig(insurance, deduction map[int]decimal.Decimal, tax map[int][]calc.TaxBracket) *Config {
	return &Config{
		InsuranceRateByYear: insurance,
		DeductionByYear:     deduction,
		TaxBracketsByYear:   tax,
		EmployerSplit:       decimal.NewFromFloat(0.6), // employer NI is the larger share
		RetireAge:           66,
		TerminalAge:         90,
	}
}

// New builds the UK Calculator atop calc.GenericCalculator.
func New(cfg *Config) *calc.GenericCalculator {
	return calc.NewGeneric(&calc.GenericConfig{
		CountryCode:    "UK",
		Currency:       "GBP",
		RetireAge:      cfg.RetireAge,
		TerminalAge:    cfg.TerminalAge,
		EmployerSplit:  cfg.EmployerSplit,
		InsuranceRates: calc.NewYearTable(cfg.InsuranceRateByYear),
		TaxYears:       cfg.TaxBracketsByYear,
		Deductions:     calc.NewYearTable(cfg.DeductionByYear),
	})
}
