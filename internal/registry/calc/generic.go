package calc

import (
	"fmt"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/kernel"
	"github.com/shopspring/decimal"
)

// GenericConfig bundles the year-keyed constants table and the employer
// insurance-rate split used by the Taiwan/Japan/UK calculators.
type GenericConfig struct {
	CountryCode    string
	Currency       string
	RetireAge      int
	TerminalAge    int
	EmployerSplit  decimal.Decimal // employer share of InsuranceRate, e.g. 0.5 for an even split
	InsuranceRates *YearTable
	TaxYears       map[int][]TaxBracket
	Deductions     *YearTable
}

// GenericCalculator implements the shared Taiwan/Japan/UK shape: a
// flat-rate payroll insurance charged on the full gross salary (the
// insurance base is not capped), bracketed income tax
// with a standard deduction, and an earnings-related + flat-tier
// retirement benefit.
type GenericCalculator struct {
	Config *GenericConfig
}

func NewGeneric(cfg *GenericConfig) *GenericCalculator {
	return &GenericCalculator{Config: cfg}
}

func (g *GenericCalculator) CountryCode() string    { return g.Config.CountryCode }
func (g *GenericCalculator) NativeCurrency() string { return g.Config.Currency }
func (g *GenericCalculator) RetirementAge(p domain.Person) int {
	if g.Config.RetireAge != 0 {
		return g.Config.RetireAge
	}
	return 65
}

func (g *GenericCalculator) taxBracketsFor(year int) []TaxBracket {
	if b, ok := g.Config.TaxYears[year]; ok {
		return b
	}
	best := 0
	for y := range g.Config.TaxYears {
		if y <= year && y > best {
			best = y
		}
	}
	if best == 0 {
		for y := range g.Config.TaxYears {
			best = y
			break
		}
	}
	return g.Config.TaxYears[best]
}

func (g *GenericCalculator) AnnualLedger(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) ([]domain.YearLedgerEntry, error) {
	retireAge := g.RetirementAge(p)
	startYear := p.BirthYear + s.ContributionStartAge
	endYear := p.BirthYear + retireAge

	ledger := make([]domain.YearLedgerEntry, 0, endYear-startYear)
	balance := decimal.Zero

	for year := startYear; year < endYear; year++ {
		age := year - p.BirthYear
		gross := s.AnnualSalaryAtYear(p.BirthYear, year)

		insuranceRate, err := g.Config.InsuranceRates.At(year, e.InflationRate)
		if err != nil {
			return nil, err
		}
		monthly := gross.Div(decimal.NewFromInt(12))

		deduction, err := g.Config.Deductions.At(year, e.InflationRate)
		if err != nil {
			return nil, err
		}

		employeeInsurance := monthly.Mul(insuranceRate).Mul(decimal.NewFromInt(1).Sub(g.Config.EmployerSplit)).Mul(decimal.NewFromInt(12))
		employerInsurance := monthly.Mul(insuranceRate).Mul(g.Config.EmployerSplit).Mul(decimal.NewFromInt(12))

		taxable := gross.Sub(deduction).Sub(employeeInsurance)
		if taxable.LessThan(decimal.Zero) {
			taxable = decimal.Zero
		}
		tax := ProgressiveTax(taxable, g.taxBracketsFor(year))
		net := gross.Sub(employeeInsurance).Sub(tax)

		balance = balance.Add(employeeInsurance).Add(employerInsurance).Mul(decimal.NewFromInt(1).Add(e.SSNotionalInterestRate))

		entry := domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              age,
			GrossSalary:      gross,
			ContributionBase: monthly,
			EmployeeContributions: map[string]decimal.Decimal{
				"social_insurance": employeeInsurance,
			},
			EmployerContributions: map[string]decimal.Decimal{
				"social_insurance": employerInsurance,
			},
			TaxableIncome: taxable,
			Tax:           tax,
			NetTakeHome:   net,
			AccountBalances: map[string]decimal.Decimal{
				"insurance_fund": balance,
			},
		}
		ledger = append(ledger, entry)
	}
	return ledger, nil
}

func (g *GenericCalculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (*domain.PensionResult, error) {
	ledger, err := g.AnnualLedger(p, s, e)
	if err != nil {
		return nil, err
	}
	if len(ledger) == 0 {
		return nil, fmt.Errorf("%w: empty contribution history", domain.ErrInvalidProfile)
	}

	retireAge := g.RetirementAge(p)
	terminalAge := g.Config.TerminalAge
	if terminalAge == 0 {
		terminalAge = 90
	}
	last := ledger[len(ledger)-1]
	yearsOfService := decimal.NewFromInt(int64(len(ledger)))

	avgSalary := decimal.Zero
	for _, entry := range ledger {
		avgSalary = avgSalary.Add(entry.GrossSalary)
	}
	avgSalary = avgSalary.Div(yearsOfService).Div(decimal.NewFromInt(12))

	if _, err := g.Config.InsuranceRates.At(last.CalendarYear, e.InflationRate); err != nil {
		return nil, err
	}

	earningsTier := avgSalary.Mul(yearsOfService)
	monthlyPension := earningsTier.Div(decimal.NewFromInt(240)).Add(avgSalary.Mul(decimal.NewFromFloat(0.005)).Mul(yearsOfService))

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
		CountryCode:                g.Config.CountryCode,
		NativeCurrency:             g.Config.Currency,
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
			Plan:            "earnings_related+flat",
			StartAge:        retireAge,
			TerminalAge:     terminalAge,
			MonthlyBenefits: benefits,
		},
	}, nil
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
	for i := 1; i < len(unique); i++ {
		for j := i; j > 0 && unique[j-1] > unique[j]; j-- {
			unique[j-1], unique[j] = unique[j], unique[j-1]
		}
	}
	return unique
}
