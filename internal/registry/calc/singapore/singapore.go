// Package singapore implements the CPF four-account model (OA/SA/MA/RA),
// the fixed five-step yearly event order, age-55 RA formation, and CPF
// LIFE Standard/Escalating/Basic payout plans at 65. This is the hardest
// calculator in the pack: every rate, allocation fraction, and schedule is
// carried in CPFConfig rather than hard-coded, per the per-year-table
// policy the other calculators follow.
package singapore

import (
	"fmt"
	"sort"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/kernel"
	"github.com/shopspring/decimal"
)

// Plan selects the CPF LIFE payout scheme at 65.
type Plan string

const (
	PlanStandard   Plan = "standard"
	PlanEscalating Plan = "escalating"
	PlanBasic      Plan = "basic"
)

// AgeBand is one contribution-rate/allocation band. Under 55 the OA/SA/MA
// fractions are used; 55 and over the OA/MA/RA fractions are used (no SA
// contribution once RA exists).
type AgeBand struct {
	MinAge    int
	TotalRate decimal.Decimal
	AllocOA   decimal.Decimal
	AllocSA   decimal.Decimal
	AllocMA   decimal.Decimal
	AllocRA   decimal.Decimal
}

// CPFConfig carries every rule parameter as a single configuration value,
// loaded from configs/singapore.yaml.
type CPFConfig struct {
	Bands                []AgeBand
	WageCeilingMonthly   decimal.Decimal
	BHSByYear            map[int]decimal.Decimal
	FRS, ERS, BRS        decimal.Decimal
	TargetPlan           string // "FRS", "ERS", or "BRS"
	OARate, SARate       decimal.Decimal
	MARate, RARate       decimal.Decimal
	Escalation           decimal.Decimal
	BasicPremiumFraction decimal.Decimal
	TerminalAge          int
	LifePlan             Plan
}

func (cfg *CPFConfig) bandFor(age int) AgeBand {
	best := cfg.Bands[0]
	for _, b := range cfg.Bands {
		if b.MinAge <= age && b.MinAge >= best.MinAge {
			best = b
		}
	}
	return best
}

func (cfg *CPFConfig) bhsFor(year, age, cohortLockYear int, cohortBHS decimal.Decimal) decimal.Decimal {
	if age >= 65 {
		return cohortBHS
	}
	if v, ok := cfg.BHSByYear[year]; ok {
		return v
	}
	years := make([]int, 0, len(cfg.BHSByYear))
	for y := range cfg.BHSByYear {
		years = append(years, y)
	}
	sort.Ints(years)
	if len(years) == 0 {
		return decimal.Zero
	}
	anchor := years[0]
	for _, y := range years {
		if y <= year {
			anchor = y
		}
	}
	return cfg.BHSByYear[anchor]
}

func (cfg *CPFConfig) targetRA() decimal.Decimal {
	switch cfg.TargetPlan {
	case "ERS":
		return cfg.ERS
	case "BRS":
		return cfg.BRS
	default:
		return cfg.FRS
	}
}

// Calculator implements registry.Calculator for Singapore (SG).
type Calculator struct {
	Config *CPFConfig
}

func New(cfg *CPFConfig) *Calculator {
	return &Calculator{Config: cfg}
}

func (c *Calculator) CountryCode() string    { return "SG" }
func (c *Calculator) NativeCurrency() string { return "SGD" }
func (c *Calculator) RetirementAge(p domain.Person) int { return 65 }

type accounts struct {
	OA, SA, MA, RA decimal.Decimal
}

func (c *Calculator) AnnualLedger(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) ([]domain.YearLedgerEntry, error) {
	cfg := c.Config
	startYear := p.BirthYear + s.ContributionStartAge
	endYear := p.BirthYear + 65

	ledger := make([]domain.YearLedgerEntry, 0, endYear-startYear+1)
	acc := accounts{}
	var cohortBHS decimal.Decimal
	cohortLocked := false
	raFormed := false

	for year := startYear; year <= endYear; year++ {
		age := year - p.BirthYear
		gross := s.AnnualSalaryAtYear(p.BirthYear, year)

		if age == 65 && !cohortLocked {
			cohortBHS = cfg.bhsFor(year, 64, 0, decimal.Zero)
			cohortLocked = true
		}

		// Age-55 RA formation: transfer SA-then-OA up to the target,
		// capped at ERS, executed once before this year's contribution
		// flow.
		if age == 55 && !raFormed {
			target := decimal.Min(cfg.targetRA(), cfg.ERS)
			need := target
			fromSA := decimal.Min(acc.SA, need)
			acc.SA = acc.SA.Sub(fromSA)
			acc.RA = acc.RA.Add(fromSA)
			need = need.Sub(fromSA)
			if need.GreaterThan(decimal.Zero) {
				fromOA := decimal.Min(acc.OA, need)
				acc.OA = acc.OA.Sub(fromOA)
				acc.RA = acc.RA.Add(fromOA)
			}
			if acc.RA.GreaterThan(cfg.ERS) {
				acc.RA = cfg.ERS
			}
			raFormed = true
		}

		band := cfg.bandFor(age)
		monthlyWage := decimal.Min(gross.Div(decimal.NewFromInt(12)), cfg.WageCeilingMonthly)
		contribution := monthlyWage.Mul(band.TotalRate).Mul(decimal.NewFromInt(12))

		// Employee/employer split assumed even for ledger reporting
		// purposes; CPF publishes the split within TotalRate, not as an
		// independent parameter.
		employeeShare := contribution.Div(decimal.NewFromInt(2))
		employerShare := contribution.Sub(employeeShare)

		var oaAdd, saAdd, maAdd, raAdd decimal.Decimal
		if age < 55 {
			oaAdd = contribution.Mul(band.AllocOA)
			saAdd = contribution.Mul(band.AllocSA)
			maAdd = contribution.Mul(band.AllocMA)
		} else {
			oaAdd = contribution.Mul(band.AllocOA)
			maAdd = contribution.Mul(band.AllocMA)
			raAdd = contribution.Mul(band.AllocRA)
		}
		acc.OA = acc.OA.Add(oaAdd)
		acc.SA = acc.SA.Add(saAdd)
		acc.MA = acc.MA.Add(maAdd)
		acc.RA = acc.RA.Add(raAdd)

		bhsLimit := cfg.bhsFor(year, age, 0, cohortBHS)
		applyBHSOverflow(&acc, age, bhsLimit)

		acc.OA = acc.OA.Mul(decimal.NewFromInt(1).Add(cfg.OARate))
		if acc.SA.GreaterThan(decimal.Zero) {
			acc.SA = acc.SA.Mul(decimal.NewFromInt(1).Add(cfg.SARate))
		}
		acc.MA = acc.MA.Mul(decimal.NewFromInt(1).Add(cfg.MARate))
		if acc.RA.GreaterThan(decimal.Zero) {
			acc.RA = acc.RA.Mul(decimal.NewFromInt(1).Add(cfg.RARate))
		}

		applyBHSOverflow(&acc, age, bhsLimit)

		entry := domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              age,
			GrossSalary:      gross,
			ContributionBase: monthlyWage,
			EmployeeContributions: map[string]decimal.Decimal{
				"cpf": employeeShare,
			},
			EmployerContributions: map[string]decimal.Decimal{
				"cpf": employerShare,
			},
			TaxableIncome: decimal.Zero,
			Tax:           decimal.Zero,
			NetTakeHome:   gross.Sub(employeeShare),
			AccountBalances: map[string]decimal.Decimal{
				"oa": acc.OA,
				"sa": acc.SA,
				"ma": acc.MA,
				"ra": acc.RA,
			},
		}
		ledger = append(ledger, entry)
	}
	return ledger, nil
}

func applyBHSOverflow(acc *accounts, age int, bhsLimit decimal.Decimal) {
	if acc.MA.LessThanOrEqual(bhsLimit) {
		return
	}
	overflow := acc.MA.Sub(bhsLimit)
	acc.MA = bhsLimit
	if age < 55 {
		acc.SA = acc.SA.Add(overflow)
	} else {
		acc.RA = acc.RA.Add(overflow)
	}
}

func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (*domain.PensionResult, error) {
	ledger, err := c.AnnualLedger(p, s, e)
	if err != nil {
		return nil, err
	}
	if len(ledger) == 0 {
		return nil, fmt.Errorf("%w: empty contribution history", domain.ErrInvalidProfile)
	}

	cfg := c.Config
	terminalAge := cfg.TerminalAge
	if terminalAge == 0 {
		terminalAge = 90
	}
	last := ledger[len(ledger)-1]
	raBalance := last.AccountBalances["ra"]

	var monthlyPension decimal.Decimal
	var benefits []decimal.Decimal

	switch cfg.LifePlan {
	case PlanEscalating:
		months := (terminalAge - 65) * 12
		monthlyPension = kernel.EscalatingAnnuity(raBalance, cfg.RARate, cfg.Escalation, months)
		benefits = escalatingSchedule(monthlyPension, cfg.Escalation, months)
	case PlanBasic:
		poolFraction := cfg.BasicPremiumFraction
		if poolFraction.IsZero() {
			poolFraction = decimal.NewFromFloat(0.15)
		}
		pool := raBalance.Mul(poolFraction)
		raRemaining := raBalance.Sub(pool)
		preMonths := (90 - 65) * 12
		raMonthly := kernel.MonthlyAnnuity(raRemaining, cfg.RARate, preMonths)

		poolAtNinety := pool
		for i := 0; i < preMonths; i++ {
			poolAtNinety = poolAtNinety.Mul(decimal.NewFromInt(1).Add(cfg.RARate.Div(decimal.NewFromInt(12))))
		}
		postMonths := (terminalAge - 90) * 12
		var poolMonthly decimal.Decimal
		if postMonths > 0 {
			poolMonthly = kernel.MonthlyAnnuity(poolAtNinety, cfg.RARate, postMonths)
		}

		monthlyPension = raMonthly
		benefits = make([]decimal.Decimal, 0, preMonths+postMonths)
		for i := 0; i < preMonths; i++ {
			benefits = append(benefits, raMonthly)
		}
		for i := 0; i < postMonths; i++ {
			benefits = append(benefits, poolMonthly)
		}
	default: // PlanStandard
		months := (terminalAge - 65) * 12
		monthlyPension = kernel.MonthlyAnnuity(raBalance, cfg.RARate, months)
		benefits = make([]decimal.Decimal, months)
		for i := range benefits {
			benefits[i] = monthlyPension
		}
	}

	totalEmployee, totalEmployer := decimal.Zero, decimal.Zero
	cashFlows := make([]decimal.Decimal, 0, len(ledger)+len(benefits))
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

	ages := make([]int, 0, len(ledger)+len(benefits)/12)
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
		age := 65 + i/12
		runningBenefit = runningBenefit.Add(b)
		ages = append(ages, age)
		cumulativeContrib[age] = runningContrib
		cumulativeBenefit[age] = runningBenefit
	}
	paybackAge := kernel.PaybackAge(uniqueSortedAges(ages), cumulativeContrib, cumulativeBenefit)

	return &domain.PensionResult{
		CountryCode:                "SG",
		NativeCurrency:             "SGD",
		MonthlyPensionAtRetirement: monthlyPension,
		TotalEmployeeContributions: totalEmployee,
		TotalEmployerContributions: totalEmployer,
		TotalCombinedContributions: totalEmployee.Add(totalEmployer),
		TotalLifetimeBenefits:      totalLifetime,
		ROI:                        roi,
		IRR:                        irr,
		PaybackAge:                 paybackAge,
		RetirementAge:              65,
		Ledger:                     ledger,
		Schedule: domain.RetirementSchedule{
			Plan:            string(cfg.LifePlan),
			StartAge:        65,
			TerminalAge:     terminalAge,
			MonthlyBenefits: benefits,
		},
	}, nil
}

func escalatingSchedule(first decimal.Decimal, escalation decimal.Decimal, months int) []decimal.Decimal {
	benefits := make([]decimal.Decimal, months)
	years := months / 12
	remainder := months % 12
	idx := 0
	for y := 0; y < years; y++ {
		payment := first.Mul(decimal.NewFromInt(1).Add(escalation).Pow(decimal.NewFromInt(int64(y))))
		for m := 0; m < 12; m++ {
			benefits[idx] = payment
			idx++
		}
	}
	if remainder > 0 {
		payment := first.Mul(decimal.NewFromInt(1).Add(escalation).Pow(decimal.NewFromInt(int64(years))))
		for m := 0; m < remainder; m++ {
			benefits[idx] = payment
			idx++
		}
	}
	return benefits
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
