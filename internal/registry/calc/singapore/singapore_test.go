package singapore

import (
	"testing"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/kernel"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCPFLIFEStandardPayout matches the canonical scenario: RA-at-65
// balance 300,000 SGD, terminal 90, R_premium 0.04 -> initial monthly
// payout approximately 1,328 SGD.
func TestCPFLIFEStandardPayout(t *testing.T) {
	balance := decimal.NewFromInt(300000)
	rate := decimal.NewFromFloat(0.04)
	months := (90 - 65) * 12

	monthly := kernel.MonthlyAnnuity(balance, rate, months)
	got, _ := monthly.Float64()
	assert.InDelta(t, 1328, got, 15)
}

func TestCPFLIFEEscalatingPayout(t *testing.T) {
	balance := decimal.NewFromInt(300000)
	rate := decimal.NewFromFloat(0.04)
	escalation := decimal.NewFromFloat(0.02)
	months := (90 - 65) * 12

	monthly := kernel.EscalatingAnnuity(balance, rate, escalation, months)
	got, _ := monthly.Float64()
	assert.InDelta(t, 995, got, 40)
}

func TestBandSelection(t *testing.T) {
	cfg := &CPFConfig{
		Bands: []AgeBand{
			{MinAge: 0, TotalRate: decimal.NewFromFloat(0.37), AllocOA: decimal.NewFromFloat(0.6217), AllocSA: decimal.NewFromFloat(0.1621), AllocMA: decimal.NewFromFloat(0.2162)},
			{MinAge: 55, TotalRate: decimal.NewFromFloat(0.26), AllocOA: decimal.NewFromFloat(0.35), AllocMA: decimal.NewFromFloat(0.35), AllocRA: decimal.NewFromFloat(0.30)},
		},
	}
	assert.Equal(t, 0, cfg.bandFor(30).MinAge)
	assert.Equal(t, 55, cfg.bandFor(60).MinAge)
}

func TestBHSOverflowRoutesToSABelow55AndRAAtOrAbove(t *testing.T) {
	acc := accounts{MA: decimal.NewFromInt(100)}
	applyBHSOverflow(&acc, 40, decimal.NewFromInt(60))
	assert.True(t, acc.MA.Equal(decimal.NewFromInt(60)))
	assert.True(t, acc.SA.Equal(decimal.NewFromInt(40)))

	acc2 := accounts{MA: decimal.NewFromInt(100)}
	applyBHSOverflow(&acc2, 60, decimal.NewFromInt(60))
	assert.True(t, acc2.MA.Equal(decimal.NewFromInt(60)))
	assert.True(t, acc2.RA.Equal(decimal.NewFromInt(40)))
}

func TestTargetRAFollowsTargetPlan(t *testing.T) {
	cfg := &CPFConfig{ERS: decimal.NewFromInt(200), FRS: decimal.NewFromInt(100), TargetPlan: "FRS"}
	target := cfg.targetRA()
	require.True(t, target.Equal(decimal.NewFromInt(100)))
}

// TestBHSForFreezesAtCohortValueOnceLocked exercises the cohort-lock
// contract directly: once a cohort's BHS is fixed at age 65, bhsFor must
// keep returning that value no matter how far the calendar year advances
// or how much BHSByYear has since risen.
func TestBHSForFreezesAtCohortValueOnceLocked(t *testing.T) {
	cfg := &CPFConfig{BHSByYear: map[int]decimal.Decimal{
		2023: decimal.NewFromInt(63000),
		2024: decimal.NewFromInt(66000),
		2030: decimal.NewFromInt(80000),
	}}
	cohortBHS := cfg.bhsFor(2023, 64, 0, decimal.Zero)
	assert.True(t, cohortBHS.Equal(decimal.NewFromInt(63000)))

	assert.True(t, cfg.bhsFor(2024, 65, 0, cohortBHS).Equal(cohortBHS))
	assert.True(t, cfg.bhsFor(2030, 70, 0, cohortBHS).Equal(cohortBHS))
}

// TestAnnualLedgerReachesAge65AndLocksCohortBHS is a regression test for the
// endYear loop bound: it previously excluded age 65 entirely, so the
// cohort-BHS-lock branch never ran.
func TestAnnualLedgerReachesAge65AndLocksCohortBHS(t *testing.T) {
	cfg := &CPFConfig{
		Bands: []AgeBand{
			{MinAge: 0, TotalRate: decimal.NewFromFloat(0.37), AllocOA: decimal.NewFromFloat(0.6217), AllocSA: decimal.NewFromFloat(0.1621), AllocMA: decimal.NewFromFloat(0.2162)},
			{MinAge: 55, TotalRate: decimal.NewFromFloat(0.325), AllocOA: decimal.NewFromFloat(0.61), AllocMA: decimal.NewFromFloat(0.22), AllocRA: decimal.NewFromFloat(0.17)},
		},
		WageCeilingMonthly: decimal.NewFromInt(6000),
		BHSByYear:          map[int]decimal.Decimal{2023: decimal.NewFromInt(5000)},
		ERS:                decimal.NewFromInt(308000),
		FRS:                decimal.NewFromInt(205800),
		TargetPlan:         "FRS",
	}
	p := domain.Person{BirthYear: 1958, Gender: domain.Male, Category: domain.Employee, StartWorkYear: 1980}
	s := domain.SalaryProfile{MonthlyStartingSalary: decimal.NewFromInt(5000), AnnualGrowthRate: decimal.Zero, ContributionStartAge: 63}

	c := &Calculator{Config: cfg}
	ledger, err := c.AnnualLedger(p, s, domain.EconomicFactors{})
	require.NoError(t, err)
	require.Len(t, ledger, 3)

	last := ledger[len(ledger)-1]
	assert.Equal(t, 65, last.Age)
	// MA contributions push well past the 5000 BHS cap by age 65; the
	// overflow must be swept out each year, leaving MA capped at exactly
	// the cohort-locked value.
	assert.True(t, last.AccountBalances["ma"].Equal(decimal.NewFromInt(5000)))
}
