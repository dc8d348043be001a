// Package calc holds the pieces every jurisdiction-specific calculator
// shares: the progressive-bracket tax evaluator and the per-year table
// lookup/extrapolation policy (bracket slice + small pure methods,
// NewXConfig constructor).
package calc

import (
	"fmt"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// TaxBracket is one marginal-rate band of a progressive income tax table.
// Max is exclusive-upper for every bracket but the last, which should carry
// a very large Max (or be left as the zero value and treated as
// open-ended by ProgressiveTax).
type TaxBracket struct {
	Min  decimal.Decimal `yaml:"min" json:"min"`
	Max  decimal.Decimal `yaml:"max" json:"max"`
	Rate decimal.Decimal `yaml:"rate" json:"rate"`
}

// ProgressiveTax applies brackets to taxableIncome, taxing only the slice
// of income that falls within each bracket. Brackets must be sorted
// ascending by Min; a bracket with a zero Max is treated as unbounded.
func ProgressiveTax(taxableIncome decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, b := range brackets {
		if taxableIncome.LessThanOrEqual(b.Min) {
			break
		}
		upper := b.Max
		if upper.IsZero() {
			upper = taxableIncome
		}
		sliceTop := decimal.Min(taxableIncome, upper)
		width := sliceTop.Sub(b.Min)
		if width.GreaterThan(decimal.Zero) {
			total = total.Add(width.Mul(b.Rate))
		}
	}
	return total
}

// QuickDeductionTax evaluates a progressive tax using the "quick
// deduction" form common to Chinese-style payroll tax tables:
// tax = taxableIncome * rate - quickDeduction, clamped at zero, using the
// matching bracket (the first bracket whose Max is at or above
// taxableIncome; a zero Max is open-ended).
func QuickDeductionTax(taxableIncome decimal.Decimal, brackets []QuickDeductionBracket) decimal.Decimal {
	if taxableIncome.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	for _, b := range brackets {
		upper := b.Max
		if upper.IsZero() || taxableIncome.LessThanOrEqual(upper) {
			tax := taxableIncome.Mul(b.Rate).Sub(b.QuickDeduction)
			if tax.LessThan(decimal.Zero) {
				return decimal.Zero
			}
			return tax
		}
	}
	// Above every configured bracket: use the last bracket's rate.
	last := brackets[len(brackets)-1]
	tax := taxableIncome.Mul(last.Rate).Sub(last.QuickDeduction)
	if tax.LessThan(decimal.Zero) {
		return decimal.Zero
	}
	return tax
}

// QuickDeductionBracket is one band of a quick-deduction progressive table.
type QuickDeductionBracket struct {
	Max            decimal.Decimal `yaml:"max" json:"max"`
	Rate           decimal.Decimal `yaml:"rate" json:"rate"`
	QuickDeduction decimal.Decimal `yaml:"quick_deduction" json:"quick_deduction"`
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}

// YearTable is a sparse per-calendar-year parameter table: each jurisdiction
// loads one (or several) from its YAML config. Lookup follows the
// documented extrapolation policy: exact year if present; otherwise the
// last known year's value scaled forward by (1+inflation)^(year-lastYear);
// ErrConfigError only when requesting a year before the table's first
// entry (no anchor to extrapolate from).
type YearTable struct {
	Values map[int]decimal.Decimal
	years  []int
}

// NewYearTable builds a YearTable from a map, keeping a cached (unsorted)
// year list for repeated nearest/last-known lookups.
func NewYearTable(values map[int]decimal.Decimal) *YearTable {
	years := make([]int, 0, len(values))
	for y := range values {
		years = append(years, y)
	}
	return &YearTable{Values: values, years: years}
}

// At returns the value for year, extrapolating forward by inflationRate
// from the last known year when year postdates the table, or erroring
// with ErrConfigError when year precedes every entry in the table.
func (t *YearTable) At(year int, inflationRate decimal.Decimal) (decimal.Decimal, error) {
	if v, ok := t.Values[year]; ok {
		return v, nil
	}
	if len(t.years) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no values configured", domain.ErrConfigError)
	}
	earliest := t.years[0]
	for _, y := range t.years {
		if y < earliest {
			earliest = y
		}
	}
	if year < earliest {
		nearest := dateutil.NearestYear(t.years, year)
		return decimal.Zero, fmt.Errorf("%w: year %d precedes earliest configured year %d (nearest: %d)", domain.ErrConfigError, year, earliest, nearest)
	}

	anchor := dateutil.LastKnownYear(t.years, year)
	base := t.Values[anchor]
	growth := decimal.NewFromInt(1).Add(inflationRate).Pow(decimal.NewFromInt(int64(year - anchor)))
	return base.Mul(growth), nil
}
