package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRetirementScheduleTotalLifetimeBenefit(t *testing.T) {
	months := make([]decimal.Decimal, 24)
	for i := range months {
		months[i] = decimal.NewFromInt(100)
	}
	schedule := RetirementSchedule{StartAge: 65, TerminalAge: 67, MonthlyBenefits: months}

	assert.True(t, schedule.TotalLifetimeBenefit().Equal(decimal.NewFromInt(2400)))
}

func TestRetirementScheduleBenefitAtAge(t *testing.T) {
	months := make([]decimal.Decimal, 24)
	for i := range months {
		months[i] = decimal.NewFromInt(100).Add(decimal.NewFromInt(int64(i)))
	}
	schedule := RetirementSchedule{StartAge: 65, TerminalAge: 67, MonthlyBenefits: months}

	assert.True(t, schedule.BenefitAtAge(65).Equal(decimal.NewFromInt(100)))
	assert.True(t, schedule.BenefitAtAge(66).Equal(decimal.NewFromInt(112)))
	assert.True(t, schedule.BenefitAtAge(64).IsZero())
	assert.True(t, schedule.BenefitAtAge(67).IsZero())
}
