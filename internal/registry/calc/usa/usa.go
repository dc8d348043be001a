// Package usa implements the United States calculator: FICA (OASDI capped +
// Medicare + additional Medicare), 401(k) employee deferral with
// age-indexed catch-up and a two-tier employer match under the §415(c)
// combined cap, federal bracket tax with a standard deduction, 401(k)
// accumulation, and a three-bend-point AIME/PIA Social Security benefit
// with claim-age scaling. Distribution from the 401(k) balance at
// retirement uses kernel.MonthlyAnnuity.
package usa

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/kernel"
	"github.com/rgehrsitz/pensim/internal/registry/calc"
	"github.com/shopspring/decimal"
)

var (
	oasdiRate         = decimal.NewFromFloat(0.062)
	medicareRate      = decimal.NewFromFloat(0.0145)
	addlMedicareRate  = decimal.NewFromFloat(0.009)
	defaultDeferral   = decimal.NewFromFloat(0.08)
	matchFullRate     = decimal.NewFromFloat(0.03)
	matchHalfRate     = decimal.NewFromFloat(0.02)
	matchHalfFraction = decimal.NewFromFloat(0.5)

	annuityMonths      = 300
	annuityDefaultRate = decimal.NewFromFloat(0.03)
)

// YearConstants is one calendar year's entry of every value the spec
// requires as a per-year table rather than a hard-coded constant.
type YearConstants struct {
	SSWageBase              decimal.Decimal
	ElectiveDeferralLimit   decimal.Decimal
	CatchUpAmount           decimal.Decimal
	EnhancedCatchUpAmount   decimal.Decimal
	MedicareSurtaxThreshold decimal.Decimal
	StandardDeduction       decimal.Decimal
	CombinedLimit415c       decimal.Decimal
	TaxBrackets             []calc.TaxBracket
}

// Config bundles the year-keyed constants table plus the few parameters
// that are policy choices rather than published tax-law figures.
type Config struct {
	Years               map[int]YearConstants
	DeferralRate        decimal.Decimal // employee 401(k) deferral rate, default 8%
	RothPercent         decimal.Decimal // supplemental Roth/traditional split; 0 = all traditional
	RetirementAge       int
	AIMEBendPoint1      decimal.Decimal
	AIMEBendPoint2      decimal.Decimal
	PIARate1            decimal.Decimal
	PIARate2            decimal.Decimal
	PIARate3            decimal.Decimal
	FullRetirementAge    int
}

func NewConfig(years map[int]YearConstants) *Config {
	return &Config{
		Years:            years,
		DeferralRate:     defaultDeferral,
		RothPercent:      decimal.Zero,
		RetirementAge:    67,
		AIMEBendPoint1:   decimal.NewFromInt(1174),
		AIMEBendPoint2:   decimal.NewFromInt(7078),
		PIARate1:         decimal.NewFromFloat(0.90),
		PIARate2:         decimal.NewFromFloat(0.32),
		PIARate3:         decimal.NewFromFloat(0.15),
		FullRetirementAge: 67,
	}
}

func (cfg *Config) yearsSorted() []int {
	years := make([]int, 0, len(cfg.Years))
	for y := range cfg.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

func (cfg *Config) constantsFor(year int) (YearConstants, error) {
	if c, ok := cfg.Years[year]; ok {
		return c, nil
	}
	years := cfg.yearsSorted()
	if len(years) == 0 {
		return YearConstants{}, fmt.Errorf("%w: no USA year constants configured", domain.ErrConfigError)
	}
	if year < years[0] {
		return YearConstants{}, fmt.Errorf("%w: year %d precedes earliest configured year %d", domain.ErrConfigError, year, years[0])
	}
	// last-known-year fallback, unindexed (nominal-dollar figures like
	// contribution limits are policy constants, not inflation-escalated
	// by this calculator; the caller's EconomicFactors still indexes
	// salary growth separately).
	anchor := years[0]
	for _, y := range years {
		if y <= year {
			anchor = y
		}
	}
	return cfg.Years[anchor], nil
}

func catchUpFor(c YearConstants, age int) decimal.Decimal {
	switch {
	case age >= 60 && age <= 63:
		return c.EnhancedCatchUpAmount
	case age >= 50:
		return c.CatchUpAmount
	default:
		return decimal.Zero
	}
}

// Calculator implements registry.Calculator for the United States (US).
type Calculator struct {
	Config *Config
}

func New(cfg *Config) *Calculator {
	return &Calculator{Config: cfg}
}

func (c *Calculator) CountryCode() string    { return "US" }
func (c *Calculator) NativeCurrency() string { return "USD" }

func (c *Calculator) RetirementAge(p domain.Person) int {
	if c.Config.RetirementAge != 0 {
		return c.Config.RetirementAge
	}
	return 67
}

func (c *Calculator) AnnualLedger(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) ([]domain.YearLedgerEntry, error) {
	retireAge := c.RetirementAge(p)
	startYear := p.BirthYear + s.ContributionStartAge
	endYear := p.BirthYear + retireAge

	ledger := make([]domain.YearLedgerEntry, 0, endYear-startYear)
	balanceTraditional := decimal.Zero
	balanceRoth := decimal.Zero

	for year := startYear; year < endYear; year++ {
		age := year - p.BirthYear
		gross := s.AnnualSalaryAtYear(p.BirthYear, year)

		yc, err := c.Config.constantsFor(year)
		if err != nil {
			return nil, err
		}

		ssWages := decimal.Min(gross, yc.SSWageBase)
		oasdiEmployee := ssWages.Mul(oasdiRate)
		oasdiEmployer := ssWages.Mul(oasdiRate)
		medicare := gross.Mul(medicareRate)
		addlMedicare := decimal.Zero
		if gross.GreaterThan(yc.MedicareSurtaxThreshold) {
			addlMedicare = gross.Sub(yc.MedicareSurtaxThreshold).Mul(addlMedicareRate)
		}

		deferralLimit := yc.ElectiveDeferralLimit.Add(catchUpFor(yc, age))
		employeeDeferral := decimal.Min(gross.Mul(c.Config.DeferralRate), deferralLimit)

		matchBase := gross.Mul(c.Config.DeferralRate)
		fullTierMax := gross.Mul(matchFullRate)
		halfTierMax := gross.Mul(matchHalfRate)
		fullTier := decimal.Min(matchBase, fullTierMax)
		remainder := decimal.Max(matchBase.Sub(fullTier), decimal.Zero)
		halfTier := decimal.Min(remainder, halfTierMax).Mul(matchHalfFraction)
		employerMatch := fullTier.Add(halfTier)

		combined := employeeDeferral.Add(employerMatch)
		if combined.GreaterThan(yc.CombinedLimit415c) && yc.CombinedLimit415c.GreaterThan(decimal.Zero) {
			excess := combined.Sub(yc.CombinedLimit415c)
			employerMatch = decimal.Max(employerMatch.Sub(excess), decimal.Zero)
		}

		rothShare := employeeDeferral.Mul(c.Config.RothPercent)
		traditionalShare := employeeDeferral.Sub(rothShare)

		taxableIncome := gross.Sub(yc.StandardDeduction).Sub(traditionalShare)
		if taxableIncome.LessThan(decimal.Zero) {
			taxableIncome = decimal.Zero
		}
		tax := calc.ProgressiveTax(taxableIncome, yc.TaxBrackets)

		net := gross.Sub(oasdiEmployee).Sub(medicare).Sub(addlMedicare).Sub(employeeDeferral).Sub(tax)

		balanceTraditional = balanceTraditional.Add(traditionalShare).Add(employerMatch).Mul(decimal.NewFromInt(1).Add(e.InvestmentReturnRate))
		balanceRoth = balanceRoth.Add(rothShare).Mul(decimal.NewFromInt(1).Add(e.InvestmentReturnRate))

		entry := domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              age,
			GrossSalary:      gross,
			ContributionBase: ssWages,
			EmployeeContributions: map[string]decimal.Decimal{
				"oasdi":               oasdiEmployee,
				"medicare":            medicare,
				"additional_medicare": addlMedicare,
				"401k_traditional":    traditionalShare,
				"401k_roth":           rothShare,
			},
			EmployerContributions: map[string]decimal.Decimal{
				"oasdi":       oasdiEmployer,
				"401k_match":  employerMatch,
			},
			TaxableIncome: taxableIncome,
			Tax:           tax,
			NetTakeHome:   net,
			AccountBalances: map[string]decimal.Decimal{
				"401k_traditional": balanceTraditional,
				"401k_roth":        balanceRoth,
			},
		}
		ledger = append(ledger, entry)
	}
	return ledger, nil
}

func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (*domain.PensionResult, error) {
	ledger, err := c.AnnualLedger(p, s, e)
	if err != nil {
		return nil, err
	}
	if len(ledger) == 0 {
		return nil, fmt.Errorf("%w: empty contribution history", domain.ErrInvalidProfile)
	}

	retireAge := c.RetirementAge(p)
	last := ledger[len(ledger)-1]
	total401k := last.AccountBalances["401k_traditional"].Add(last.AccountBalances["401k_roth"])

	monthly401k := kernel.MonthlyAnnuity(total401k, annuityDefaultRate, annuityMonths)

	aime := averageIndexedMonthlyEarnings(ledger)
	pia := primaryInsuranceAmount(aime, c.Config)
	claimFactor := claimAgeFactor(retireAge, c.Config.FullRetirementAge)
	ssMonthly := pia.Mul(claimFactor)

	monthlyPension := monthly401k.Add(ssMonthly)

	terminalAge := 90
	months := (terminalAge - retireAge) * 12
	benefits := make([]decimal.Decimal, months)
	for i := range benefits {
		benefits[i] = monthlyPension
	}

	totalEmployee, totalEmployer := decimal.Zero, decimal.Zero
	cashFlows := make([]decimal.Decimal, 0, len(ledger)+months)
	for _, entry := range ledger {
		totalEmployee = totalEmployee.Add(entry.TotalEmployeeContribution())
		totalEmployer = totalEmployer.Add(entry.TotalEmployerContribution())
		cashFlows = append(cashFlows, entry.TotalEmployeeContribution().Neg())
	}
	totalLifetime := decimal.Zero
	for _, b := range benefits {
		totalLifetime = totalLifetime.Add(b)
		cashFlows = append(cashFlows, b)
	}

	irr, irrErr := kernel.IRR(cashFlows)
	if irrErr != nil {
		irr = nil
	}

	roi := decimal.Zero
	if totalEmployee.GreaterThan(decimal.Zero) {
		roi = totalLifetime.Sub(totalEmployee).Div(totalEmployee)
	}

	ages := make([]int, 0, len(ledger)+months/12)
	cumulativeContrib := map[int]decimal.Decimal{}
	cumulativeBenefit := map[int]decimal.Decimal{}
	runningContrib := decimal.Zero
	for _, entry := range ledger {
		runningContrib = runningContrib.Add(entry.TotalEmployeeContribution())
		ages = append(ages, entry.Age)
		cumulativeContrib[entry.Age] = runningContrib
		cumulativeBenefit[entry.Age] = decimal.Zero
	}
	runningBenefit := decimal.Zero
	for i, b := range benefits {
		age := retireAge + i/12
		runningBenefit = runningBenefit.Add(b)
		ages = append(ages, age)
		cumulativeContrib[age] = runningContrib
		cumulativeBenefit[age] = runningBenefit
	}
	paybackAge := kernel.PaybackAge(uniqueSortedAges(ages), cumulativeContrib, cumulativeBenefit)

	return &domain.PensionResult{
		CountryCode:                "US",
		NativeCurrency:             "USD",
		MonthlyPensionAtRetirement: monthlyPension,
		TotalEmployeeContributions: totalEmployee,
		TotalEmployerContributions: totalEmployer,
		TotalCombinedContributions: totalEmployee.Add(totalEmployer),
		TotalLifetimeBenefits:      totalLifetime,
		ROI:                        roi,
		IRR:                        irr,
		PaybackAge:                 paybackAge,
		RetirementAge:              retireAge,
		Ledger:                     ledger,
		Schedule: domain.RetirementSchedule{
			Plan:            "401k+social_security",
			StartAge:        retireAge,
			TerminalAge:     terminalAge,
			MonthlyBenefits: benefits,
		},
	}, nil
}

// averageIndexedMonthlyEarnings approximates AIME as the sum of gross
// salary over the top 35 years of the ledger (all years if fewer than 35
// are available) divided by 35*12 months, so missing years count as zero,
// per the three-bend-point PIA formula's input contract.
func averageIndexedMonthlyEarnings(ledger []domain.YearLedgerEntry) decimal.Decimal {
	grossByYear := make([]decimal.Decimal, len(ledger))
	for i, e := range ledger {
		grossByYear[i] = e.GrossSalary
	}
	sort.Slice(grossByYear, func(i, j int) bool { return grossByYear[i].GreaterThan(grossByYear[j]) })
	top := grossByYear
	if len(top) > 35 {
		top = top[:35]
	}
	sum := decimal.Zero
	for _, g := range top {
		sum = sum.Add(g)
	}
	months := decimal.NewFromInt(35 * 12)
	return sum.Div(months)
}

func primaryInsuranceAmount(aime decimal.Decimal, cfg *Config) decimal.Decimal {
	bp1, bp2 := cfg.AIMEBendPoint1, cfg.AIMEBendPoint2
	pia := decimal.Zero
	switch {
	case aime.LessThanOrEqual(bp1):
		pia = aime.Mul(cfg.PIARate1)
	case aime.LessThanOrEqual(bp2):
		pia = bp1.Mul(cfg.PIARate1).Add(aime.Sub(bp1).Mul(cfg.PIARate2))
	default:
		pia = bp1.Mul(cfg.PIARate1).Add(bp2.Sub(bp1).Mul(cfg.PIARate2)).Add(aime.Sub(bp2).Mul(cfg.PIARate3))
	}
	return pia
}

// claimAgeFactor scales PIA to the claim-age factor: full at FRA,
// proportionally reduced/increased outside at roughly 6.67%/yr early and
// 8%/yr delayed, approximating the published actuarial tables.
func claimAgeFactor(claimAge, fra int) decimal.Decimal {
	diff := claimAge - fra
	if diff == 0 {
		return decimal.NewFromInt(1)
	}
	if diff < 0 {
		return decimal.NewFromInt(1).Add(decimal.NewFromFloat(0.0667).Mul(decimal.NewFromInt(int64(diff))))
	}
	return decimal.NewFromInt(1).Add(decimal.NewFromFloat(0.08).Mul(decimal.NewFromInt(int64(diff))))
}

func uniqueSortedAges(ages []int) []int {
	seen := map[int]bool{}
	unique := make([]int, 0, len(ages))
	for _, a := range ages {
		if !seen[a] {
			seen[a] = true
			unique = append(unique, a)
		}
	}
	sort.Ints(unique)
	return unique
}
