// Package runner drives one simulation across one or more jurisdictions: it
// converts the input salary into each jurisdiction's native currency,
// builds that jurisdiction's Person/SalaryProfile/EconomicFactors, invokes
// its Calculator, and — in multi-country mode — restates every result's
// headline numbers in a single display currency for side-by-side
// comparison.
package runner

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pensim/internal/currency"
	"github.com/rgehrsitz/pensim/internal/domain"
	pensimlog "github.com/rgehrsitz/pensim/internal/log"
	"github.com/rgehrsitz/pensim/internal/registry"
	"github.com/shopspring/decimal"
)

// Overrides carries the optional per-run economic-assumption overrides.
// Every field is a pointer so "unset" (keep the EconomicFactors value
// passed to Run) is distinguishable from an explicit zero.
//
// Retirement age and terminal age are deliberately not overridable here:
// each jurisdiction bakes them into its registered Calculator's Config at
// NewDefaultRegistry time (China and Singapore derive retirement age from
// statutory gender/category rules, not a free parameter). Changing either
// means reloading that jurisdiction's YAML config and rebuilding the
// registry, not passing a per-run flag.
type Overrides struct {
	InflationRate          *decimal.Decimal
	InvestmentReturnRate   *decimal.Decimal
	SSNotionalInterestRate *decimal.Decimal
}

// CountryResult pairs one jurisdiction's PensionResult with any error that
// prevented it from completing. A partial run (some countries succeed,
// others fail) is not itself an AnalysisRunner error; each CountryResult
// carries its own outcome.
type CountryResult struct {
	CountryCode string
	Result      *domain.PensionResult
	Err         error
}

// AnalysisRunner executes one simulation request across Codes.
type AnalysisRunner struct {
	Registry        *registry.Registry
	Converter       *currency.Converter
	Salary          currency.CurrencyAmount
	Codes           []string
	DisplayCurrency string
	Person          domain.Person
	SalaryProfile   domain.SalaryProfile
	Overrides       Overrides
	Logger          pensimlog.Logger
}

func (r *AnalysisRunner) logger() pensimlog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return pensimlog.NopLogger{}
}

func (r *AnalysisRunner) applyOverrides(e domain.EconomicFactors) domain.EconomicFactors {
	if r.Overrides.InflationRate != nil {
		e.InflationRate = *r.Overrides.InflationRate
	}
	if r.Overrides.InvestmentReturnRate != nil {
		e.InvestmentReturnRate = *r.Overrides.InvestmentReturnRate
	}
	if r.Overrides.SSNotionalInterestRate != nil {
		e.SSNotionalInterestRate = *r.Overrides.SSNotionalInterestRate
	}
	return e
}

// Run executes the simulation for every requested country code, converting
// the input salary to each jurisdiction's native currency and, when more
// than one country is requested, restating each result's headline numbers
// in DisplayCurrency for comparison.
func (r *AnalysisRunner) Run(ctx context.Context, econ domain.EconomicFactors) ([]CountryResult, error) {
	if len(r.Codes) == 0 {
		return nil, fmt.Errorf("%w: no country codes requested", domain.ErrInvalidProfile)
	}

	rates, err := r.Converter.Rates(ctx)
	if err != nil {
		return nil, err
	}

	econ = r.applyOverrides(econ)
	results := make([]CountryResult, 0, len(r.Codes))

	for _, code := range r.Codes {
		r.logger().Debugf("simulating %s", code)

		calc, err := r.Registry.Get(code)
		if err != nil {
			results = append(results, CountryResult{CountryCode: code, Err: err})
			continue
		}

		nativeAmount, err := currency.Convert(rates, r.Salary.Amount, r.Salary.Code, calc.NativeCurrency())
		if err != nil {
			results = append(results, CountryResult{CountryCode: code, Err: err})
			continue
		}

		salary := r.SalaryProfile
		salary.MonthlyStartingSalary = nativeAmount.Div(decimal.NewFromInt(12))

		person := r.Person
		countryEcon := econ
		countryEcon.BaseCurrency = calc.NativeCurrency()
		if r.DisplayCurrency != "" {
			countryEcon.DisplayCurrency = r.DisplayCurrency
		} else {
			countryEcon.DisplayCurrency = calc.NativeCurrency()
		}

		result, err := calc.Calculate(person, salary, countryEcon)
		if err != nil {
			results = append(results, CountryResult{CountryCode: code, Err: err})
			continue
		}

		if len(r.Codes) > 1 && r.DisplayCurrency != "" {
			converted, convErr := convertHeadline(rates, result, r.DisplayCurrency)
			if convErr == nil {
				result.Converted = converted
			}
		}

		results = append(results, CountryResult{CountryCode: code, Result: result})
	}

	return results, nil
}

// HouseholdMemberResult pairs one household member's name with their
// single-country PensionResult.
type HouseholdMemberResult struct {
	Name   string
	Result *domain.PensionResult
}

// HouseholdResult combines every member's result for one country code:
// each member is calculated independently, then totals are summed.
type HouseholdResult struct {
	CountryCode                string
	Members                    []HouseholdMemberResult
	TotalCombinedContributions decimal.Decimal
	TotalLifetimeBenefits      decimal.Decimal
}

// RunHousehold simulates every member of h against the single country code,
// each with their own Person and SalaryProfile but sharing econ, and
// combines the per-member totals into one household-level summary.
func (r *AnalysisRunner) RunHousehold(ctx context.Context, code string, h domain.Household, econ domain.EconomicFactors) (*HouseholdResult, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	calc, err := r.Registry.Get(code)
	if err != nil {
		return nil, err
	}

	rates, err := r.Converter.Rates(ctx)
	if err != nil {
		return nil, err
	}

	countryEcon := r.applyOverrides(econ)
	countryEcon.BaseCurrency = calc.NativeCurrency()
	countryEcon.DisplayCurrency = calc.NativeCurrency()

	combined := &HouseholdResult{CountryCode: code}
	for _, member := range h.Members {
		r.logger().Debugf("simulating household member %s for %s", member.Name, code)

		nativeAmount, err := currency.Convert(rates, member.Salary.MonthlyStartingSalary, r.Salary.Code, calc.NativeCurrency())
		if err != nil {
			return nil, err
		}
		salary := member.Salary
		salary.MonthlyStartingSalary = nativeAmount

		result, err := calc.Calculate(member.Person, salary, countryEcon)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", member.Name, err)
		}

		combined.Members = append(combined.Members, HouseholdMemberResult{Name: member.Name, Result: result})
		combined.TotalCombinedContributions = combined.TotalCombinedContributions.Add(result.TotalCombinedContributions)
		combined.TotalLifetimeBenefits = combined.TotalLifetimeBenefits.Add(result.TotalLifetimeBenefits)
	}

	return combined, nil
}

func convertHeadline(rates *currency.RateTable, result *domain.PensionResult, displayCurrency string) (*domain.ConvertedHeadline, error) {
	monthly, err := currency.Convert(rates, result.MonthlyPensionAtRetirement, result.NativeCurrency, displayCurrency)
	if err != nil {
		return nil, err
	}
	combined, err := currency.Convert(rates, result.TotalCombinedContributions, result.NativeCurrency, displayCurrency)
	if err != nil {
		return nil, err
	}
	lifetime, err := currency.Convert(rates, result.TotalLifetimeBenefits, result.NativeCurrency, displayCurrency)
	if err != nil {
		return nil, err
	}
	return &domain.ConvertedHeadline{
		Currency:                   displayCurrency,
		MonthlyPensionAtRetirement: monthly,
		TotalCombinedContributions: combined,
		TotalLifetimeBenefits:      lifetime,
	}, nil
}
