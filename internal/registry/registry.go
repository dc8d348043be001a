// Package registry holds the Calculator capability-set interface and the
// process-startup plugin registry every country jurisdiction implements
// against. Dispatch is by tagged interface, not a class hierarchy: any type
// that satisfies Calculator can register itself, including ones added by
// callers outside this module.
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rgehrsitz/pensim/internal/domain"
)

// Calculator is the capability set every jurisdiction-specific calculator
// implements. AnnualLedger exposes the year-by-year detail; Calculate
// returns the full summarized result including IRR, payback age, and
// retirement schedule.
type Calculator interface {
	CountryCode() string
	NativeCurrency() string
	RetirementAge(p domain.Person) int
	AnnualLedger(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) ([]domain.YearLedgerEntry, error)
	Calculate(p domain.Person, s domain.SalaryProfile, e domain.EconomicFactors) (*domain.PensionResult, error)
}

// Registry is a case-insensitive country-code to Calculator map. It is
// built once at CLI startup and never mutated after: the module's only
// other process-scope state is the currency rate cache file.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Calculator
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Calculator)}
}

// Register adds c under code. Registering the same code twice fails with
// ErrDuplicateRegistration.
func (r *Registry) Register(code string, c Calculator) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := strings.ToUpper(code)
	if _, exists := r.byKey[key]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateRegistration, code)
	}
	r.byKey[key] = c
	return nil
}

// Get returns the Calculator registered under code, case-insensitively.
// Fails with ErrUnknownCountry if no such code is registered.
func (r *Registry) Get(code string) (Calculator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byKey[strings.ToUpper(code)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCountry, code)
	}
	return c, nil
}

// ListCodes returns every registered country code in sorted order.
func (r *Registry) ListCodes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.byKey))
	for k := range r.byKey {
		codes = append(codes, k)
	}
	sort.Strings(codes)
	return codes
}
