// Command pensimtui is an optional interactive companion to pensim: it
// runs the same analysis and browses the results in a terminal UI instead
// of printing JSON.
package main

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/pensim/internal/config"
	"github.com/rgehrsitz/pensim/internal/currency"
	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/runner"
	"github.com/rgehrsitz/pensim/internal/tui"
	"github.com/shopspring/decimal"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: pensimtui <amount> [countries] [config-dir]")
		os.Exit(1)
	}

	salary, err := currency.ParseAmount(os.Args[1])
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	configDir := "configs"
	if len(os.Args) > 3 {
		configDir = os.Args[3]
	}

	loader := config.NewLoader(configDir)
	reg, err := loader.LoadAll()
	if err != nil {
		fmt.Printf("Error loading configs from %s: %v\n", configDir, err)
		os.Exit(1)
	}

	var codes []string
	if len(os.Args) > 2 && os.Args[2] != "" {
		for _, c := range strings.Split(os.Args[2], ",") {
			codes = append(codes, strings.ToUpper(strings.TrimSpace(c)))
		}
	} else {
		codes = reg.ListCodes()
	}

	cache := currency.NewCache("cache/exchange_rates.json")
	converter := currency.NewConverter(cache, "USD", currency.NewExchangeRateAPIFetcher("USD"))

	analysisRunner := &runner.AnalysisRunner{
		Registry:  reg,
		Converter: converter,
		Salary:    salary,
		Codes:     codes,
		Person:    domain.Person{BirthYear: 1990, Gender: domain.Male, Category: domain.Employee, StartWorkYear: 2012},
		SalaryProfile: domain.SalaryProfile{
			AnnualGrowthRate:     decimal.NewFromFloat(0.03),
			ContributionStartAge: 22,
		},
	}

	econ := domain.EconomicFactors{
		InflationRate:          decimal.NewFromFloat(0.02),
		InvestmentReturnRate:   decimal.NewFromFloat(0.05),
		SSNotionalInterestRate: decimal.NewFromFloat(0.03),
	}

	model := tui.NewModel(analysisRunner, econ)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
