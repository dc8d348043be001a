// Command pensim simulates retirement compensation across one or more
// jurisdictions (China, USA, Singapore, Taiwan, Japan, UK) from a single
// gross salary figure, converting it into each jurisdiction's native
// currency and, in multi-country mode, restating every result in a single
// display currency for side-by-side comparison.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/rgehrsitz/pensim/internal/config"
	"github.com/rgehrsitz/pensim/internal/currency"
	"github.com/rgehrsitz/pensim/internal/domain"
	pensimlog "github.com/rgehrsitz/pensim/internal/log"
	"github.com/rgehrsitz/pensim/internal/registry"
	"github.com/rgehrsitz/pensim/internal/runner"
	"github.com/rgehrsitz/pensim/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// simpleCLILogger implements pensimlog.Logger using the standard log package.
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var rootCmd = &cobra.Command{
	Use:   "pensim",
	Short: "Multi-jurisdiction retirement compensation simulator",
	Long:  "Simulates pension contributions and benefits for China, USA, Singapore, Taiwan, Japan, and UK from a single gross salary",
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrParseError), errors.Is(err, domain.ErrUnknownCurrency):
		return 2
	case errors.Is(err, domain.ErrUnknownCountry):
		return 3
	default:
		return 4
	}
}

func buildRegistry(configDir string) (*registry.Registry, error) {
	loader := config.NewLoader(configDir)
	return loader.LoadAll()
}

func parseRateFlag(cmd *cobra.Command, name string) (*decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s value %q is not a decimal", domain.ErrParseError, name, raw)
	}
	return &d, nil
}

func simulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <amount>",
		Short: "Run a simulation for one or more countries from a gross salary amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			salary, err := currency.ParseAmount(args[0])
			if err != nil {
				if suggestion := currency.SuggestCurrency(args[0]); suggestion != "" {
					return fmt.Errorf("%w (did you mean %s?)", err, suggestion)
				}
				return err
			}

			configDir, _ := cmd.Flags().GetString("config-dir")
			reg, err := buildRegistry(configDir)
			if err != nil {
				return err
			}

			codesFlag, _ := cmd.Flags().GetString("countries")
			var codes []string
			if codesFlag == "" {
				codes = reg.ListCodes()
			} else {
				for _, c := range strings.Split(codesFlag, ",") {
					c = strings.ToUpper(strings.TrimSpace(c))
					if c == "" {
						continue
					}
					codes = append(codes, c)
				}
			}
			for _, c := range codes {
				if _, err := reg.Get(c); err != nil {
					return err
				}
			}

			displayCurrency, _ := cmd.Flags().GetString("display-currency")
			if displayCurrency != "" && !currency.IsSupported(displayCurrency) {
				return fmt.Errorf("%w: %s", domain.ErrUnknownCurrency, displayCurrency)
			}

			cachePath, _ := cmd.Flags().GetString("cache")
			cache := currency.NewCache(cachePath)
			converter := currency.NewConverter(cache, "USD", currency.NewExchangeRateAPIFetcher("USD"))

			birthYear, _ := cmd.Flags().GetInt("birth-year")
			startWorkYear, _ := cmd.Flags().GetInt("start-work-year")
			contribStartAge, _ := cmd.Flags().GetInt("contribution-start-age")
			genderFlag, _ := cmd.Flags().GetString("gender")
			categoryFlag, _ := cmd.Flags().GetString("category")

			salaryGrowth, err := parseRateFlag(cmd, "salary-growth")
			if err != nil {
				return err
			}
			growth := decimal.NewFromFloat(0.03)
			if salaryGrowth != nil {
				growth = *salaryGrowth
			}

			person := domain.Person{
				BirthYear:     birthYear,
				Gender:        domain.Gender(genderFlag),
				Category:      domain.EmploymentCategory(categoryFlag),
				StartWorkYear: startWorkYear,
			}
			if err := person.Validate(); err != nil {
				return err
			}

			salaryProfile := domain.SalaryProfile{
				AnnualGrowthRate:     growth,
				ContributionStartAge: contribStartAge,
			}
			if err := salaryProfile.Validate(); err != nil {
				return err
			}

			inflation, err := parseRateFlag(cmd, "inflation")
			if err != nil {
				return err
			}
			investmentReturn, err := parseRateFlag(cmd, "investment-return")
			if err != nil {
				return err
			}
			ssReturn, err := parseRateFlag(cmd, "ss-return")
			if err != nil {
				return err
			}

			econ := domain.EconomicFactors{
				InflationRate:          decimal.NewFromFloat(0.02),
				InvestmentReturnRate:   decimal.NewFromFloat(0.05),
				SSNotionalInterestRate: decimal.NewFromFloat(0.03),
				BaseCurrency:           salary.Code,
				DisplayCurrency:        displayCurrency,
			}

			debugMode, _ := cmd.Flags().GetBool("debug")
			var logger pensimlog.Logger = pensimlog.NopLogger{}
			if debugMode {
				logger = simpleCLILogger{}
			}

			analysisRunner := &runner.AnalysisRunner{
				Registry:        reg,
				Converter:       converter,
				Salary:          salary,
				Codes:           codes,
				DisplayCurrency: displayCurrency,
				Person:          person,
				SalaryProfile:   salaryProfile,
				Overrides: runner.Overrides{
					InflationRate:          inflation,
					InvestmentReturnRate:   investmentReturn,
					SSNotionalInterestRate: ssReturn,
				},
				Logger: logger,
			}

			results, err := analysisRunner.Run(cmd.Context(), econ)
			if err != nil {
				return err
			}

			if summaryMode, _ := cmd.Flags().GetBool("summary"); summaryMode {
				printSummary(cmd, results)
				return nil
			}

			showAnnual, _ := cmd.Flags().GetBool("annual")
			return printResults(cmd, results, showAnnual)
		},
	}

	cmd.Flags().Bool("summary", false, "print a one-line-per-country summary instead of JSON")
	cmd.Flags().String("countries", "", "comma-separated country codes to simulate (default: all registered)")
	cmd.Flags().String("display-currency", "", "currency to restate headline figures in, for multi-country comparison")
	cmd.Flags().String("config-dir", "configs", "directory containing the jurisdiction YAML config files")
	cmd.Flags().String("cache", "cache/exchange_rates.json", "path to the exchange-rate cache file")
	cmd.Flags().Bool("debug", false, "enable debug logging")
	cmd.Flags().Bool("annual", false, "include the full year-by-year ledger in the JSON output")
	cmd.Flags().String("inflation", "", "override inflation rate (e.g. 0.025)")
	cmd.Flags().String("investment-return", "", "override investment return rate")
	cmd.Flags().String("ss-return", "", "override social security notional interest rate")
	cmd.Flags().Int("birth-year", 1990, "person's birth year")
	cmd.Flags().Int("start-work-year", 2012, "calendar year the person started working")
	cmd.Flags().Int("contribution-start-age", 22, "age at which pension contributions begin")
	cmd.Flags().String("salary-growth", "0.03", "annual salary growth rate")
	cmd.Flags().String("gender", "male", "male or female")
	cmd.Flags().String("category", "employee", "employee, civil_servant, self_employed, or farmer")

	return cmd
}

func printResults(cmd *cobra.Command, results []runner.CountryResult, showAnnual bool) error {
	type output struct {
		CountryCode string                `json:"country_code"`
		Error       string                `json:"error,omitempty"`
		Result      *domain.PensionResult `json:"result,omitempty"`
	}

	out := make([]output, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			out = append(out, output{CountryCode: r.CountryCode, Error: r.Err.Error()})
			continue
		}
		roundResult(r.Result)
		if !showAnnual {
			r.Result.Ledger = nil
		}
		out = append(out, output{CountryCode: r.CountryCode, Result: r.Result})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printSummary prints one human-readable line per country, each amount
// tagged with its own native currency via money.Money.Format.
func printSummary(cmd *cobra.Command, results []runner.CountryResult) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "%-4s FAILED: %v\n", r.CountryCode, r.Err)
			continue
		}
		monthly := money.NewMoneyFromDecimal(r.Result.MonthlyPensionAtRetirement).Round()
		lifetime := money.NewMoneyFromDecimal(r.Result.TotalLifetimeBenefits).Round()
		fmt.Fprintf(cmd.OutOrStdout(), "%-4s monthly %-18s lifetime %s\n",
			r.CountryCode, monthly.Format(r.Result.NativeCurrency), lifetime.Format(r.Result.NativeCurrency))
	}
}

// roundResult rounds every headline currency figure to 2 decimal places
// (half-even) before it is serialized, matching money.Money.Round.
func roundResult(r *domain.PensionResult) {
	round := func(d decimal.Decimal) decimal.Decimal {
		return money.NewMoneyFromDecimal(d).Round().Decimal
	}
	r.MonthlyPensionAtRetirement = round(r.MonthlyPensionAtRetirement)
	r.TotalEmployeeContributions = round(r.TotalEmployeeContributions)
	r.TotalEmployerContributions = round(r.TotalEmployerContributions)
	r.TotalCombinedContributions = round(r.TotalCombinedContributions)
	r.TotalLifetimeBenefits = round(r.TotalLifetimeBenefits)
	if r.Converted != nil {
		r.Converted.MonthlyPensionAtRetirement = round(r.Converted.MonthlyPensionAtRetirement)
		r.Converted.TotalCombinedContributions = round(r.Converted.TotalCombinedContributions)
		r.Converted.TotalLifetimeBenefits = round(r.Converted.TotalLifetimeBenefits)
	}
}

func listPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-plugins",
		Short: "List every registered jurisdiction's country code",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			reg, err := buildRegistry(configDir)
			if err != nil {
				return err
			}
			for _, code := range reg.ListCodes() {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
			return nil
		},
	}
}

// testScenario is the fixed Person/SalaryProfile/EconomicFactors combination
// test-plugins runs against every registered calculator as an operational
// self-check. It is deliberately unremarkable: a mid-career employee with a
// moderate salary, so every jurisdiction's bend points and bracket tables
// see some activity.
func testScenario() (domain.Person, domain.SalaryProfile, domain.EconomicFactors) {
	person := domain.Person{
		BirthYear:     1985,
		Gender:        domain.Male,
		Category:      domain.Employee,
		StartWorkYear: 2010,
	}
	salary := domain.SalaryProfile{
		MonthlyStartingSalary: decimal.NewFromInt(5000),
		AnnualGrowthRate:      decimal.NewFromFloat(0.03),
		ContributionStartAge:  25,
	}
	econ := domain.EconomicFactors{
		InflationRate:          decimal.NewFromFloat(0.02),
		InvestmentReturnRate:   decimal.NewFromFloat(0.05),
		SSNotionalInterestRate: decimal.NewFromFloat(0.03),
	}
	return person, salary, econ
}

func testPluginsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-plugins",
		Short: "Smoke-test every registered calculator against a fixed scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			reg, err := buildRegistry(configDir)
			if err != nil {
				return err
			}
			person, salary, econ := testScenario()
			failed := false
			for _, code := range reg.ListCodes() {
				calc, err := reg.Get(code)
				if err != nil {
					failed = true
					fmt.Fprintf(cmd.OutOrStdout(), "%s: FAIL (%v)\n", code, err)
					continue
				}
				countryEcon := econ
				countryEcon.BaseCurrency = calc.NativeCurrency()
				countryEcon.DisplayCurrency = calc.NativeCurrency()
				salaryProfile := salary
				if _, err := calc.Calculate(person, salaryProfile, countryEcon); err != nil {
					failed = true
					fmt.Fprintf(cmd.OutOrStdout(), "%s: FAIL (%v)\n", code, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: OK\n", code)
			}
			if failed {
				return fmt.Errorf("one or more calculators failed the smoke test")
			}
			return nil
		},
	}
}

func householdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "household <country-code> <household-file>",
		Short: "Run a joint simulation for every member of a household against one country",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := strings.ToUpper(args[0])
			houseFile := args[1]

			configDir, _ := cmd.Flags().GetString("config-dir")
			reg, err := buildRegistry(configDir)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(houseFile)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrParseError, err)
			}
			var household domain.Household
			if err := yaml.Unmarshal(data, &household); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrParseError, err)
			}

			inputCurrency, _ := cmd.Flags().GetString("currency")
			if inputCurrency == "" {
				inputCurrency = "USD"
			}
			if !currency.IsSupported(inputCurrency) {
				return fmt.Errorf("%w: %s", domain.ErrUnknownCurrency, inputCurrency)
			}

			cachePath, _ := cmd.Flags().GetString("cache")
			cache := currency.NewCache(cachePath)
			converter := currency.NewConverter(cache, "USD", currency.NewExchangeRateAPIFetcher("USD"))

			debugMode, _ := cmd.Flags().GetBool("debug")
			var logger pensimlog.Logger = pensimlog.NopLogger{}
			if debugMode {
				logger = simpleCLILogger{}
			}

			analysisRunner := &runner.AnalysisRunner{
				Registry:  reg,
				Converter: converter,
				Salary:    currency.CurrencyAmount{Amount: decimal.Zero, Code: inputCurrency},
				Logger:    logger,
			}

			result, err := analysisRunner.RunHousehold(cmd.Context(), code, household, domain.EconomicFactors{
				InflationRate:          decimal.NewFromFloat(0.02),
				InvestmentReturnRate:   decimal.NewFromFloat(0.05),
				SSNotionalInterestRate: decimal.NewFromFloat(0.03),
			})
			if err != nil {
				return err
			}

			data, err = json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().String("currency", "USD", "currency each member's monthly_starting_salary is denominated in")
	cmd.Flags().String("cache", "cache/exchange_rates.json", "path to the exchange-rate cache file")
	cmd.Flags().Bool("debug", false, "enable debug logging")
	return cmd
}

func currenciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "currencies",
		Short: "List every supported currency code",
		Run: func(cmd *cobra.Command, args []string) {
			for _, code := range currency.SupportedCurrencies {
				fmt.Fprintln(cmd.OutOrStdout(), code)
			}
		},
	}
}

func init() {
	simulate := simulateCmd()
	listPlugins := listPluginsCmd()
	testPlugins := testPluginsCmd()
	household := householdCmd()

	listPlugins.Flags().String("config-dir", "configs", "directory containing the jurisdiction YAML config files")
	testPlugins.Flags().String("config-dir", "configs", "directory containing the jurisdiction YAML config files")
	household.Flags().String("config-dir", "configs", "directory containing the jurisdiction YAML config files")

	rootCmd.AddCommand(simulate, listPlugins, testPlugins, household, currenciesCmd())
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
