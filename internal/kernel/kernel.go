// Package kernel implements the shared financial primitives every country
// calculator builds its ledger and retirement schedule on: compound
// accumulation, annuity-factor evaluation, and IRR/NPV root-finding. It is
// pure — no I/O, no package-level state — and every amount is a
// decimal.Decimal per the module's fixed-point precision policy.
package kernel

import (
	"math"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/shopspring/decimal"
)

// Bisection tuning constants for IRR: named tolerance/iteration-cap/
// floor/ceiling constants rather than magic numbers inline.
const (
	irrTolerance  = 1e-7
	irrMaxIter    = 200
	irrRateFloor  = -0.99
	irrRateCeil   = 5.00
)

var (
	one      = decimal.NewFromInt(1)
	twelve   = decimal.NewFromInt(12)
	zeroRate = decimal.Zero
)

// FutureValue returns the future value of a level yearly payment pmt
// compounded at yearly rate r over n years.
func FutureValue(pmt, rate decimal.Decimal, n int) decimal.Decimal {
	if n <= 0 {
		return decimal.Zero
	}
	if rate.Equal(zeroRate) {
		return pmt.Mul(decimal.NewFromInt(int64(n)))
	}
	growth := one.Add(rate).Pow(decimal.NewFromInt(int64(n))).Sub(one)
	return pmt.Mul(growth).Div(rate)
}

// MonthlyAnnuity returns the level monthly payment that exhausts balance
// over months months at yearly rate yearlyRate (monthly rate = yearlyRate/12).
func MonthlyAnnuity(balance, yearlyRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	i := yearlyRate.Div(twelve)
	if i.Equal(zeroRate) {
		return balance.Div(decimal.NewFromInt(int64(months)))
	}
	discount := one.Add(i).Pow(decimal.NewFromInt(int64(-months)))
	denominator := one.Sub(discount)
	if denominator.IsZero() {
		return balance.Div(decimal.NewFromInt(int64(months)))
	}
	return balance.Mul(i).Div(denominator)
}

// EscalatingAnnuity returns the first monthly payment of a schedule that
// pays level amounts within each 12-month cohort and grows the cohort
// amount by yearlyEscalation every subsequent year, such that the present
// value of the full schedule (discounted monthly at yearlyRate/12) equals
// balance. Solved numerically by bisection on the initial payment since
// this schedule has no closed form.
func EscalatingAnnuity(balance, yearlyRate, yearlyEscalation decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return decimal.Zero
	}
	i, _ := yearlyRate.Div(twelve).Float64()
	g, _ := yearlyEscalation.Float64()
	target, _ := balance.Float64()
	years := months / 12
	remainder := months % 12

	pvPerUnitPayment := func(firstMonthly float64) float64 {
		pv := 0.0
		month := 0
		for y := 0; y < years; y++ {
			cohortPayment := firstMonthly * math.Pow(1+g, float64(y))
			for m := 0; m < 12; m++ {
				month++
				pv += cohortPayment / math.Pow(1+i, float64(month))
			}
		}
		if remainder > 0 {
			cohortPayment := firstMonthly * math.Pow(1+g, float64(years))
			for m := 0; m < remainder; m++ {
				month++
				pv += cohortPayment / math.Pow(1+i, float64(month))
			}
		}
		return pv
	}

	lo, hi := 0.0, target // a level annuity never needs a payment above balance/1 in any sane scenario
	if hi <= 0 {
		return decimal.Zero
	}
	for iter := 0; iter < 100; iter++ {
		mid := (lo + hi) / 2
		pv := pvPerUnitPayment(mid)
		if pv > target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return decimal.NewFromFloat((lo + hi) / 2).Round(2)
}

// NPV returns the net present value of cashFlows (index 0 = year 0,
// undiscounted) at yearly rate.
func NPV(cashFlows []decimal.Decimal, rate decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	onePlusR := one.Add(rate)
	for t, cf := range cashFlows {
		disc := onePlusR.Pow(decimal.NewFromInt(int64(t)))
		total = total.Add(cf.Div(disc))
	}
	return total
}

// IRR finds the yearly rate r such that NPV(cashFlows, r) == 0, by
// bisection on [-0.99, 5.00] with tolerance 1e-7 over at most 200
// iterations. Returns (nil, ErrNoSignChange) if every cash flow shares a
// sign, and (nil, ErrNoConvergence) if bisection fails to tighten below
// tolerance within the iteration budget. Callers must treat both as "IRR is
// undefined", never as fatal.
func IRR(cashFlows []decimal.Decimal) (*decimal.Decimal, error) {
	if !hasSignChange(cashFlows) {
		return nil, domain.ErrNoSignChange
	}

	lo := decimal.NewFromFloat(irrRateFloor)
	hi := decimal.NewFromFloat(irrRateCeil)
	npvLo := NPV(cashFlows, lo)

	var mid decimal.Decimal
	for iter := 0; iter < irrMaxIter; iter++ {
		mid = lo.Add(hi).Div(decimal.NewFromInt(2))
		npvMid := NPV(cashFlows, mid)

		if npvMid.Abs().LessThan(decimal.NewFromFloat(irrTolerance)) || hi.Sub(lo).LessThan(decimal.NewFromFloat(irrTolerance)) {
			return &mid, nil
		}

		sameSign := npvMid.Sign() == npvLo.Sign()
		if sameSign {
			lo = mid
			npvLo = npvMid
		} else {
			hi = mid
		}
	}
	return nil, domain.ErrNoConvergence
}

func hasSignChange(cashFlows []decimal.Decimal) bool {
	sawPositive, sawNegative := false, false
	for _, cf := range cashFlows {
		switch {
		case cf.IsPositive():
			sawPositive = true
		case cf.IsNegative():
			sawNegative = true
		}
	}
	return sawPositive && sawNegative
}

// PaybackAge finds the smallest age a such that benefit(a) >= contrib(a),
// linearly interpolating between a-1 and a to a fractional age. Both maps
// must be keyed by the same set of integer ages in ascending order of
// interest; ages is the ascending list of ages to examine. Returns nil if
// the benefit never catches up within the examined horizon.
func PaybackAge(ages []int, cumulativeContribByAge, cumulativeBenefitByAge map[int]decimal.Decimal) *decimal.Decimal {
	for idx, age := range ages {
		benefit := cumulativeBenefitByAge[age]
		contrib := cumulativeContribByAge[age]
		if benefit.GreaterThanOrEqual(contrib) {
			if idx == 0 {
				result := decimal.NewFromInt(int64(age))
				return &result
			}
			prevAge := ages[idx-1]
			prevBenefit := cumulativeBenefitByAge[prevAge]
			prevContrib := cumulativeContribByAge[prevAge]

			prevGap := prevContrib.Sub(prevBenefit) // positive: contributions still ahead
			curGap := contrib.Sub(benefit)          // <= 0: benefits have caught up

			denom := prevGap.Sub(curGap)
			if denom.IsZero() {
				result := decimal.NewFromInt(int64(age))
				return &result
			}
			fraction := prevGap.Div(denom)
			fractionalAge := decimal.NewFromInt(int64(prevAge)).Add(fraction)
			return &fractionalAge
		}
	}
	return nil
}
