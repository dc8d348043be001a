// Package china implements the seven-step Chinese payroll-and-pension
// calculator: social-insurance and housing-fund base clamping, SI/HF
// contribution splits, seven-bracket quick-deduction income tax, net
// take-home, individual-account and housing-fund accumulation with
// notional interest, and the basic+individual-account retirement benefit.
package china

import (
	"fmt"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/kernel"
	"github.com/rgehrsitz/pensim/internal/registry/calc"
	"github.com/shopspring/decimal"
)

var (
	employeePensionRate     = decimal.NewFromFloat(0.08)
	employeeMedicalRate     = decimal.NewFromFloat(0.02)
	employeeUnemploymentRate = decimal.NewFromFloat(0.005)

	employerPensionRate      = decimal.NewFromFloat(0.16)
	employerMedicalRate      = decimal.NewFromFloat(0.09)
	employerUnemploymentRate = decimal.NewFromFloat(0.005)
	employerWorkInjuryRate   = decimal.NewFromFloat(0.0016)

	siBaseFloorFactor   = decimal.NewFromFloat(0.6)
	siBaseCeilingFactor = decimal.NewFromFloat(3.0)
)

// taxBrackets are the seven-bracket annualized quick-deduction constants
// for Chinese individual income tax (thresholds 36000/144000/300000/
// 420000/660000/960000; rates 3/10/20/25/30/35/45%).
var taxBrackets = []calc.QuickDeductionBracket{
	{Max: decimal.NewFromInt(36000), Rate: decimal.NewFromFloat(0.03), QuickDeduction: decimal.Zero},
	{Max: decimal.NewFromInt(144000), Rate: decimal.NewFromFloat(0.10), QuickDeduction: decimal.NewFromInt(2520)},
	{Max: decimal.NewFromInt(300000), Rate: decimal.NewFromFloat(0.20), QuickDeduction: decimal.NewFromInt(16920)},
	{Max: decimal.NewFromInt(420000), Rate: decimal.NewFromFloat(0.25), QuickDeduction: decimal.NewFromInt(31920)},
	{Max: decimal.NewFromInt(660000), Rate: decimal.NewFromFloat(0.30), QuickDeduction: decimal.NewFromInt(52920)},
	{Max: decimal.NewFromInt(960000), Rate: decimal.NewFromFloat(0.35), QuickDeduction: decimal.NewFromInt(85920)},
	{Max: decimal.Zero, Rate: decimal.NewFromFloat(0.45), QuickDeduction: decimal.NewFromInt(181920)},
}

// monthsDivisorTable maps retirement age to the individual-account annuity
// divisor from the standard national table.
var monthsDivisorTable = map[int]int{60: 139, 55: 170, 50: 195}

var standardDeduction = decimal.NewFromInt(60000)

// Config carries every year-varying parameter so no constant is hard-coded
// in the calculation logic.
type Config struct {
	AvgWage     *calc.YearTable
	HFRate      decimal.Decimal
	HFFloor     decimal.Decimal
	HFCeiling   decimal.Decimal
	TerminalAge int
}

// NewConfig builds a Config from a parsed avg_wage-by-year map and the
// housing-fund rate/floor/ceiling.
func NewConfig(avgWageByYear map[int]decimal.Decimal, hfRate, hfFloor, hfCeiling decimal.Decimal, terminalAge int) *Config {
	return &Config{
		AvgWage:     calc.NewYearTable(avgWageByYear),
		HFRate:      hfRate,
		HFFloor:     hfFloor,
		HFCeiling:   hfCeiling,
		TerminalAge: terminalAge,
	}
}

// Calculator implements registry.Calculator for China (CN).
type Calculator struct {
	Config *Config
}

func New(cfg *Config) *Calculator {
	return &Calculator{Config: cfg}
}

func (c *Calculator) CountryCode() string    { return "CN" }
func (c *Calculator) NativeCurrency() string { return "CNY" }

// RetirementAge implements male 60, female 55 (employee) / 60 (civil
// servant) per spec.
func (c *Calculator) RetirementAge(p domain.Person) int {
	if p.Gender == domain.Male {
		return 60
	}
	if p.Category == domain.CivilServant {
		return 60
	}
	return 55
}

// AnnualLedger runs the seven-step payroll calculation for every working
// year from SalaryProfile.ContributionStartAge through retirement.
func (c *Calculator) AnnualLedger(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) ([]domain.YearLedgerEntry, error) {
	retireAge := c.RetirementAge(p)
	startYear := p.BirthYear + s.ContributionStartAge
	endYear := p.BirthYear + retireAge

	ledger := make([]domain.YearLedgerEntry, 0, endYear-startYear)
	individualAccountBalance := decimal.Zero
	hfBalance := decimal.Zero

	for year := startYear; year < endYear; year++ {
		age := year - p.BirthYear
		gross := s.AnnualSalaryAtYear(p.BirthYear, year)

		avgWage, err := c.Config.AvgWage.At(year, e.InflationRate)
		if err != nil {
			return nil, err
		}

		monthly := gross.Div(decimal.NewFromInt(12))
		siBase := calc.Clamp(monthly, siBaseFloorFactor.Mul(avgWage), siBaseCeilingFactor.Mul(avgWage))
		hfBase := calc.Clamp(monthly, c.Config.HFFloor, c.Config.HFCeiling)

		empSI := siBase.Mul(employeePensionRate.Add(employeeMedicalRate).Add(employeeUnemploymentRate)).Mul(decimal.NewFromInt(12))
		erSI := siBase.Mul(employerPensionRate.Add(employerMedicalRate).Add(employerUnemploymentRate).Add(employerWorkInjuryRate)).Mul(decimal.NewFromInt(12))

		empHF := hfBase.Mul(c.Config.HFRate).Mul(decimal.NewFromInt(12))
		erHF := empHF

		taxable := gross.Sub(standardDeduction).Sub(empSI).Sub(empHF)
		if taxable.LessThan(decimal.Zero) {
			taxable = decimal.Zero
		}
		tax := calc.QuickDeductionTax(taxable, taxBrackets)

		net := gross.Sub(empSI).Sub(empHF).Sub(tax)

		individualAccountContribution := siBase.Mul(employeePensionRate).Mul(decimal.NewFromInt(12))
		individualAccountBalance = individualAccountBalance.Add(individualAccountContribution).Mul(decimal.NewFromInt(1).Add(e.SSNotionalInterestRate))
		hfBalance = hfBalance.Add(empHF).Add(erHF).Mul(decimal.NewFromInt(1).Add(e.SSNotionalInterestRate))

		entry := domain.YearLedgerEntry{
			CalendarYear:     year,
			Age:              age,
			GrossSalary:      gross,
			ContributionBase: siBase,
			EmployeeContributions: map[string]decimal.Decimal{
				"pension":      siBase.Mul(employeePensionRate).Mul(decimal.NewFromInt(12)),
				"medical":      siBase.Mul(employeeMedicalRate).Mul(decimal.NewFromInt(12)),
				"unemployment": siBase.Mul(employeeUnemploymentRate).Mul(decimal.NewFromInt(12)),
				"housing_fund": empHF,
			},
			EmployerContributions: map[string]decimal.Decimal{
				"pension":      siBase.Mul(employerPensionRate).Mul(decimal.NewFromInt(12)),
				"medical":      siBase.Mul(employerMedicalRate).Mul(decimal.NewFromInt(12)),
				"unemployment": siBase.Mul(employerUnemploymentRate).Mul(decimal.NewFromInt(12)),
				"work_injury":  siBase.Mul(employerWorkInjuryRate).Mul(decimal.NewFromInt(12)),
				"housing_fund": erHF,
			},
			TaxableIncome: taxable,
			Tax:           tax,
			NetTakeHome:   net,
			AccountBalances: map[string]decimal.Decimal{
				"individual_account": individualAccountBalance,
				"housing_fund":       hfBalance,
			},
		}
		ledger = append(ledger, entry)
	}
	return ledger, nil
}

// Calculate runs AnnualLedger then derives the retirement benefit schedule,
// IRR, ROI, and payback age from the accumulated ledger.
func (c *Calculator) Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (*domain.PensionResult, error) {
	ledger, err := c.AnnualLedger(p, s, e)
	if err != nil {
		return nil, err
	}
	if len(ledger) == 0 {
		return nil, fmt.Errorf("%w: empty contribution history", domain.ErrInvalidProfile)
	}

	retireAge := c.RetirementAge(p)
	retireYear := p.BirthYear + retireAge
	last := ledger[len(ledger)-1]

	avgWageAtRetirement, err := c.Config.AvgWage.At(retireYear, e.InflationRate)
	if err != nil {
		return nil, err
	}

	yearsOfContribution := decimal.NewFromInt(int64(len(ledger)))
	avgIndexedSalary := averageIndexedSalary(ledger, c.Config.AvgWage, e.InflationRate)

	basic := avgWageAtRetirement.Add(avgIndexedSalary).Div(decimal.NewFromInt(2)).
		Mul(yearsOfContribution).Mul(decimal.NewFromFloat(0.01))

	divisor := monthsDivisorForAge(retireAge)
	individualAccountBalance := last.AccountBalances["individual_account"]
	individualMonthly := individualAccountBalance.Div(decimal.NewFromInt(int64(divisor)))

	monthlyPension := basic.Add(individualMonthly)

	terminalAge := c.Config.TerminalAge
	if terminalAge == 0 {
		terminalAge = 90
	}
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
	hfLumpSum := last.AccountBalances["housing_fund"]
	for i, b := range benefits {
		if i == 0 {
			cashFlows = append(cashFlows, b.Add(hfLumpSum))
		} else {
			cashFlows = append(cashFlows, b)
		}
	}
	schedule := domain.RetirementSchedule{
		Plan:            "basic+individual_account",
		StartAge:        retireAge,
		TerminalAge:     terminalAge,
		MonthlyBenefits: benefits,
	}
	totalLifetime := schedule.TotalLifetimeBenefit()

	irr, irrErr := kernel.IRR(cashFlows)
	if irrErr != nil {
		irr = nil
	}

	roi := decimal.Zero
	if totalEmployee.GreaterThan(decimal.Zero) {
		roi = totalLifetime.Add(hfLumpSum).Sub(totalEmployee).Div(totalEmployee)
	}

	ages := make([]int, 0, len(ledger))
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
		CountryCode:                 "CN",
		NativeCurrency:              "CNY",
		MonthlyPensionAtRetirement:  monthlyPension,
		TotalEmployeeContributions:  totalEmployee,
		TotalEmployerContributions:  totalEmployer,
		TotalCombinedContributions:  totalEmployee.Add(totalEmployer),
		TotalLifetimeBenefits:       totalLifetime.Add(hfLumpSum),
		ROI:                         roi,
		IRR:                         irr,
		PaybackAge:                  paybackAge,
		RetirementAge:               retireAge,
		Ledger:                      ledger,
		Schedule:                    schedule,
	}, nil
}

func monthsDivisorForAge(age int) int {
	if d, ok := monthsDivisorTable[age]; ok {
		return d
	}
	return 139
}

// averageIndexedSalary approximates the "average indexed salary" component
// of the basic pension formula as the mean ratio of contribution base to
// average wage across the working history, scaled by the average wage of the
// last ledger (final working) year.
func averageIndexedSalary(ledger []domain.YearLedgerEntry, avgWage *calc.YearTable, inflation decimal.Decimal) decimal.Decimal {
	if len(ledger) == 0 {
		return decimal.Zero
	}
	sumRatio := decimal.Zero
	count := 0
	for _, entry := range ledger {
		wage, err := avgWage.At(entry.CalendarYear, inflation)
		if err != nil || wage.IsZero() {
			continue
		}
		sumRatio = sumRatio.Add(entry.ContributionBase.Div(wage))
		count++
	}
	if count == 0 {
		return decimal.Zero
	}
	retireWage, err := avgWage.At(ledger[len(ledger)-1].CalendarYear, inflation)
	if err != nil {
		return decimal.Zero
	}
	avgRatio := sumRatio.Div(decimal.NewFromInt(int64(count)))
	return avgRatio.Mul(retireWage)
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
