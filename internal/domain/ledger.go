package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// YearLedgerEntry is the per-working-year cash-flow record common to every
// country calculator. Contribution and balance line items are keyed maps
// rather than fixed fields so each jurisdiction can name its own lines
// (pension/medical/unemployment/housing_fund for China; cpf contributions
// and oa/sa/ma/ra balances for Singapore; oasdi/medicare/401k_traditional/
// 401k_roth for the US) while the kernel and runner stay
// jurisdiction-agnostic.
type YearLedgerEntry struct {
	CalendarYear int             `json:"calendar_year"`
	Age          int             `json:"age"`
	GrossSalary  decimal.Decimal `json:"gross_salary"`
	ContributionBase decimal.Decimal `json:"contribution_base"`

	EmployeeContributions map[string]decimal.Decimal `json:"employee_contributions"`
	EmployerContributions map[string]decimal.Decimal `json:"employer_contributions"`

	TaxableIncome decimal.Decimal `json:"taxable_income"`
	Tax           decimal.Decimal `json:"tax"`
	NetTakeHome   decimal.Decimal `json:"net_take_home"`

	AccountBalances map[string]decimal.Decimal `json:"account_balances"`
}

// TotalEmployeeContribution sums every employee contribution line.
func (y YearLedgerEntry) TotalEmployeeContribution() decimal.Decimal {
	return sumMap(y.EmployeeContributions)
}

// TotalEmployerContribution sums every employer contribution line.
func (y YearLedgerEntry) TotalEmployerContribution() decimal.Decimal {
	return sumMap(y.EmployerContributions)
}

func sumMap(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

// centTolerance absorbs rounding drift across chained decimal operations
// when checking the net = gross - employee - tax invariant.
var centTolerance = decimal.NewFromFloat(0.01)

// Validate enforces the YearLedgerEntry invariants: net = gross - employee
// contributions - tax (within a cent), and every line item non-negative.
func (y YearLedgerEntry) Validate() error {
	for line, v := range y.EmployeeContributions {
		if v.IsNegative() {
			return fmt.Errorf("%w: employee contribution %q is negative", ErrInvalidProfile, line)
		}
	}
	for line, v := range y.EmployerContributions {
		if v.IsNegative() {
			return fmt.Errorf("%w: employer contribution %q is negative", ErrInvalidProfile, line)
		}
	}
	if y.Tax.IsNegative() {
		return fmt.Errorf("%w: tax is negative", ErrInvalidProfile)
	}
	for acct, v := range y.AccountBalances {
		if v.IsNegative() {
			return fmt.Errorf("%w: account balance %q is negative", ErrInvalidProfile, acct)
		}
	}
	expectedNet := y.GrossSalary.Sub(y.TotalEmployeeContribution()).Sub(y.Tax)
	if expectedNet.Sub(y.NetTakeHome).Abs().GreaterThan(centTolerance) {
		return fmt.Errorf("%w: net take-home %s does not reconcile with gross-employee-tax %s", ErrInvalidProfile, y.NetTakeHome.String(), expectedNet.String())
	}
	return nil
}

// RetirementSchedule is the sequence of monthly payouts from retirement
// through the terminal age.
type RetirementSchedule struct {
	Plan            string            `json:"plan,omitempty"`
	StartAge        int               `json:"start_age"`
	TerminalAge     int               `json:"terminal_age"`
	MonthlyBenefits []decimal.Decimal `json:"monthly_benefits"` // one entry per month, StartAge..TerminalAge
}

// TotalLifetimeBenefit sums every monthly benefit across the schedule.
func (r RetirementSchedule) TotalLifetimeBenefit() decimal.Decimal {
	total := decimal.Zero
	for _, m := range r.MonthlyBenefits {
		total = total.Add(m)
	}
	return total
}

// BenefitAtAge returns the monthly benefit for the first month of the given
// age, or zero if the age falls outside [StartAge, TerminalAge).
func (r RetirementSchedule) BenefitAtAge(age int) decimal.Decimal {
	idx := (age - r.StartAge) * 12
	if idx < 0 || idx >= len(r.MonthlyBenefits) {
		return decimal.Zero
	}
	return r.MonthlyBenefits[idx]
}
