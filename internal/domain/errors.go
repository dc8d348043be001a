package domain

import "errors"

// Sentinel errors returned by the simulator's core packages. Calculators and
// the currency layer return these directly or wrapped with fmt.Errorf's %w
// so callers can errors.Is against them.
var (
	// ErrInvalidProfile is returned when a Person, SalaryProfile, or
	// EconomicFactors violates one of its documented invariants.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrUnknownCountry is returned by the registry when a country code is
	// not registered.
	ErrUnknownCountry = errors.New("unknown country code")

	// ErrDuplicateRegistration is returned when a country code is
	// registered twice.
	ErrDuplicateRegistration = errors.New("duplicate country registration")

	// ErrUnknownCurrency is returned when a currency code is not in the
	// supported set.
	ErrUnknownCurrency = errors.New("unknown currency code")

	// ErrParseError is returned by currency.ParseAmount on malformed input.
	ErrParseError = errors.New("malformed amount")

	// ErrConfigError is returned when a calculator is asked to compute a
	// calendar year for which no per-year constants table entry exists and
	// no extrapolation anchor is available.
	ErrConfigError = errors.New("missing per-year configuration")

	// ErrFetchError is returned internally by currency rate fetchers. It is
	// always recovered by the fetch chain and never surfaces to a caller of
	// internal/currency.
	ErrFetchError = errors.New("rate fetch failed")

	// ErrNoSignChange and ErrNoConvergence are returned internally by the
	// financial kernel's IRR bisection. Calculators convert both to a nil
	// IRR pointer; neither is a fatal error.
	ErrNoSignChange  = errors.New("cash flows do not change sign")
	ErrNoConvergence = errors.New("bisection did not converge")

	// ErrArithmeticOverflow indicates a calculation escaped its defensive
	// clamp to domain bounds. It should never occur; if it does, it is
	// fatal rather than recovered.
	ErrArithmeticOverflow = errors.New("arithmetic overflow past domain bounds")
)
