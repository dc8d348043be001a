package kernel

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestFutureValue(t *testing.T) {
	fv := FutureValue(decimal.NewFromInt(1000), decimal.Zero, 5)
	assert.True(t, fv.Equal(decimal.NewFromInt(5000)))

	fvZeroYears := FutureValue(decimal.NewFromInt(1000), dec("0.05"), 0)
	assert.True(t, fvZeroYears.IsZero())
}

func TestMonthlyAnnuity(t *testing.T) {
	m := MonthlyAnnuity(decimal.NewFromInt(120000), decimal.Zero, 120)
	assert.True(t, m.Equal(decimal.NewFromInt(1000)))
}

func TestNPVAtZeroRateSumsCashFlows(t *testing.T) {
	flows := []decimal.Decimal{decimal.NewFromInt(-1000), decimal.NewFromInt(500), decimal.NewFromInt(600)}
	npv := NPV(flows, decimal.Zero)
	assert.True(t, npv.Equal(decimal.NewFromInt(100)))
}

// TestIRRKnownCashFlows matches the simulator's canonical IRR fixture:
// an initial and second-year contribution followed by a payout in year 3,
// expected IRR approximately 0.1659.
func TestIRRKnownCashFlows(t *testing.T) {
	flows := []decimal.Decimal{
		decimal.NewFromInt(-1000),
		decimal.NewFromInt(-1000),
		decimal.Zero,
		decimal.NewFromInt(3500),
	}
	irr, err := IRR(flows)
	require.NoError(t, err)
	require.NotNil(t, irr)

	got, _ := irr.Float64()
	assert.InDelta(t, 0.1659, got, 0.001)
}

func TestIRRNoSignChange(t *testing.T) {
	flows := []decimal.Decimal{decimal.NewFromInt(100), decimal.NewFromInt(200)}
	irr, err := IRR(flows)
	assert.Nil(t, irr)
	assert.True(t, errors.Is(err, domain.ErrNoSignChange))
}

func TestPaybackAgeInterpolates(t *testing.T) {
	ages := []int{60, 61, 62}
	contrib := map[int]decimal.Decimal{60: decimal.NewFromInt(1000), 61: decimal.NewFromInt(1000), 62: decimal.NewFromInt(1000)}
	benefit := map[int]decimal.Decimal{60: decimal.Zero, 61: decimal.NewFromInt(500), 62: decimal.NewFromInt(1500)}

	age := PaybackAge(ages, contrib, benefit)
	require.NotNil(t, age)
	got, _ := age.Float64()
	assert.InDelta(t, 61.5, got, 0.01)
}

func TestPaybackAgeNeverCatchesUp(t *testing.T) {
	ages := []int{60, 61}
	contrib := map[int]decimal.Decimal{60: decimal.NewFromInt(1000), 61: decimal.NewFromInt(1000)}
	benefit := map[int]decimal.Decimal{60: decimal.Zero, 61: decimal.NewFromInt(100)}

	assert.Nil(t, PaybackAge(ages, contrib, benefit))
}
