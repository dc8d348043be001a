package registry

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCalculator struct {
	code string
}

func (s *stubCalculator) CountryCode() string      { return s.code }
func (s *stubCalculator) NativeCurrency() string   { return "USD" }
func (s *stubCalculator) RetirementAge(p domain.Person) int { return 65 }
func (s *stubCalculator) AnnualLedger(p domain.Person, sal domain.SalaryProfile, e domain.EconomicFactors) ([]domain.YearLedgerEntry, error) {
	return nil, nil
}
func (s *stubCalculator) Calculate(p domain.Person, sal domain.SalaryProfile, e domain.EconomicFactors) (*domain.PensionResult, error) {
	return nil, nil
}

func TestRegisterAndGetCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("US", &stubCalculator{code: "US"}))

	c, err := r.Get("us")
	require.NoError(t, err)
	assert.Equal(t, "US", c.CountryCode())
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("CN", &stubCalculator{code: "CN"}))
	err := r.Register("cn", &stubCalculator{code: "CN"})
	assert.True(t, errors.Is(err, domain.ErrDuplicateRegistration))
}

func TestGetUnknownCountry(t *testing.T) {
	r := NewRegistry()
	_, err := r.Get("ZZ")
	assert.True(t, errors.Is(err, domain.ErrUnknownCountry))
}

func TestListCodesSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register("US", &stubCalculator{code: "US"}))
	require.NoError(t, r.Register("CN", &stubCalculator{code: "CN"}))
	assert.Equal(t, []string{"CN", "US"}, r.ListCodes())
}
