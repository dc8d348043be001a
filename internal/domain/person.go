package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Gender distinguishes the two gender categories used by age- and
// gender-indexed retirement-age tables (notably China and Singapore).
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// EmploymentCategory selects which contribution/benefit rules a jurisdiction
// applies to a person.
type EmploymentCategory string

const (
	Employee      EmploymentCategory = "employee"
	CivilServant  EmploymentCategory = "civil_servant"
	SelfEmployed  EmploymentCategory = "self_employed"
	Farmer        EmploymentCategory = "farmer"
)

// Person is an immutable descriptor of the individual being simulated.
type Person struct {
	BirthYear     int                `yaml:"birth_year" json:"birth_year"`
	Gender        Gender             `yaml:"gender" json:"gender"`
	Category      EmploymentCategory `yaml:"category" json:"category"`
	StartWorkYear int                `yaml:"start_work_year" json:"start_work_year"`
}

// Validate enforces the Person invariant: start-work year >= birth year + 16.
func (p Person) Validate() error {
	if p.Gender != Male && p.Gender != Female {
		return fmt.Errorf("%w: gender %q is not male or female", ErrInvalidProfile, p.Gender)
	}
	switch p.Category {
	case Employee, CivilServant, SelfEmployed, Farmer:
	default:
		return fmt.Errorf("%w: unknown employment category %q", ErrInvalidProfile, p.Category)
	}
	if p.StartWorkYear < p.BirthYear+16 {
		return fmt.Errorf("%w: start-work year %d precedes birth year %d + 16", ErrInvalidProfile, p.StartWorkYear, p.BirthYear)
	}
	return nil
}

// AgeInYear returns the person's age at the end of the given calendar year.
func (p Person) AgeInYear(year int) int {
	return year - p.BirthYear
}

// SalaryProfile describes the trajectory of a person's monthly salary.
type SalaryProfile struct {
	MonthlyStartingSalary decimal.Decimal `yaml:"monthly_starting_salary" json:"monthly_starting_salary"`
	AnnualGrowthRate      decimal.Decimal `yaml:"annual_growth_rate" json:"annual_growth_rate"`
	ContributionStartAge  int             `yaml:"contribution_start_age" json:"contribution_start_age"`
}

// Validate enforces SalaryProfile's non-negativity invariant.
func (s SalaryProfile) Validate() error {
	if s.MonthlyStartingSalary.IsNegative() {
		return fmt.Errorf("%w: monthly starting salary is negative", ErrInvalidProfile)
	}
	if s.ContributionStartAge <= 0 {
		return fmt.Errorf("%w: contribution start age must be set explicitly and positive", ErrInvalidProfile)
	}
	return nil
}

// contributionStartYear resolves the calendar year in which contributions
// begin, given the person's birth year.
func (s SalaryProfile) contributionStartYear(birthYear int) int {
	return birthYear + s.ContributionStartAge
}

// AnnualSalaryAtYear returns the gross annual salary for working year y
// (a calendar year), per spec: monthly_salary * (1+g)^(y - contribution_start_year).
func (s SalaryProfile) AnnualSalaryAtYear(birthYear, year int) decimal.Decimal {
	startYear := s.contributionStartYear(birthYear)
	exponent := int64(year - startYear)
	growth := decimal.NewFromInt(1).Add(s.AnnualGrowthRate)
	factor := growth.Pow(decimal.NewFromInt(exponent))
	return s.MonthlyStartingSalary.Mul(factor).Mul(decimal.NewFromInt(12))
}

// EconomicFactors holds the macro assumptions shared across a single
// simulation run.
type EconomicFactors struct {
	InflationRate          decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	InvestmentReturnRate   decimal.Decimal `yaml:"investment_return_rate" json:"investment_return_rate"`
	SSNotionalInterestRate decimal.Decimal `yaml:"ss_notional_interest_rate" json:"ss_notional_interest_rate"`
	BaseCurrency           string          `yaml:"base_currency" json:"base_currency"`
	DisplayCurrency        string          `yaml:"display_currency" json:"display_currency"`
}

var rateBoundsMin = decimal.NewFromFloat(-0.5)
var rateBoundsMax = decimal.NewFromFloat(1.0)

func validateRate(name string, r decimal.Decimal) error {
	if r.LessThan(rateBoundsMin) || r.GreaterThan(rateBoundsMax) {
		return fmt.Errorf("%w: %s rate %s out of bounds [-0.5, 1.0]", ErrInvalidProfile, name, r.String())
	}
	return nil
}

// Validate enforces EconomicFactors' rate-bound and currency-membership
// invariants. The supported-currency set is injected by the caller (the
// currency package owns that set; domain stays dependency-free).
func (e EconomicFactors) Validate(supportedCurrency func(string) bool) error {
	if err := validateRate("inflation", e.InflationRate); err != nil {
		return err
	}
	if err := validateRate("investment return", e.InvestmentReturnRate); err != nil {
		return err
	}
	if err := validateRate("social security notional interest", e.SSNotionalInterestRate); err != nil {
		return err
	}
	if supportedCurrency != nil {
		if !supportedCurrency(e.BaseCurrency) {
			return fmt.Errorf("%w: base currency %q is not supported", ErrInvalidProfile, e.BaseCurrency)
		}
		if !supportedCurrency(e.DisplayCurrency) {
			return fmt.Errorf("%w: display currency %q is not supported", ErrInvalidProfile, e.DisplayCurrency)
		}
	}
	return nil
}
