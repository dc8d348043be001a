// Package taiwan wraps the shared generic payroll-insurance/income-tax/
// earnings-plus-flat-tier retirement model with Taiwan's Labor Insurance
// and National Pension Insurance parameters.
package taiwan

import (
	"github.com/rgehrsitz/pensim/internal/registry/calc"
	"github.com/shopspring/decimal"
)

// Config is Taiwan's per-year constants table: Labor Insurance rate
// (applied to the full gross salary; the base is not capped), standard
// deduction, and income-tax brackets.
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
		EmployerSplit:       decimal.NewFromFloat(0.7), // Taiwan's Labor Insurance is employer-weighted
		RetireAge:           65,
		TerminalAge:         90,
	}
}

// New builds the Taiwan Calculator atop calc.GenericCalculator.
func New(cfg *Config) *calc.GenericCalculator {
	return calc.NewGeneric(&calc.GenericConfig{
		CountryCode:    "TW",
		Currency:       "TWD",
		RetireAge:      cfg.RetireAge,
		TerminalAge:    cfg.TerminalAge,
		EmployerSplit:  cfg.EmployerSplit,
		InsuranceRates: calc.NewYearTable(cfg.InsuranceRateByYear),
		TaxYears:       cfg.TaxBracketsByYear,
		Deductions:     calc.NewYearTable(cfg.DeductionByYear),
	})
}
