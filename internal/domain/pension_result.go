package domain

import "github.com/shopspring/decimal"

// PensionResult is the common output contract every country calculator
// produces. It exclusively owns its Ledger and Schedule (no other structure
// retains a reference to either).
type PensionResult struct {
	CountryCode    string `json:"country_code"`
	NativeCurrency string `json:"native_currency"`

	MonthlyPensionAtRetirement decimal.Decimal `json:"monthly_pension_at_retirement"`

	TotalEmployeeContributions decimal.Decimal `json:"total_employee_contributions"`
	TotalEmployerContributions decimal.Decimal `json:"total_employer_contributions"`
	TotalCombinedContributions decimal.Decimal `json:"total_combined_contributions"`

	TotalLifetimeBenefits decimal.Decimal `json:"total_lifetime_benefits"`

	// ROI = (total_benefits - employee_contributions) / employee_contributions
	ROI decimal.Decimal `json:"roi"`

	// IRR and PaybackAge are nil when the kernel cannot compute them
	// (spec §4.1/§7: coerced to None, never a fatal error).
	IRR        *decimal.Decimal `json:"irr,omitempty"`
	PaybackAge *decimal.Decimal `json:"payback_age,omitempty"`

	RetirementAge int                 `json:"retirement_age"`
	Ledger        []YearLedgerEntry   `json:"ledger"`
	Schedule      RetirementSchedule  `json:"schedule"`

	// Converted restates the headline numbers in a display currency; set
	// only by the analysis runner in multi-country mode.
	Converted *ConvertedHeadline `json:"converted,omitempty"`
}

// ConvertedHeadline restates a PensionResult's headline numbers in a single
// display currency for cross-jurisdiction comparison.
type ConvertedHeadline struct {
	Currency                   string          `json:"currency"`
	MonthlyPensionAtRetirement decimal.Decimal `json:"monthly_pension_at_retirement"`
	TotalCombinedContributions decimal.Decimal `json:"total_combined_contributions"`
	TotalLifetimeBenefits      decimal.Decimal `json:"total_lifetime_benefits"`
}

// CurrencyAmount pairs a decimal amount with its 3-letter currency code.
type CurrencyAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}
