// Package config loads the per-jurisdiction YAML constants tables into the
// Config types each calc/{china,usa,singapore,taiwan,japan,uk} package
// exposes: os.ReadFile, yaml.Unmarshal into tagged structs, then a small
// validation pass returning fmt.Errorf("...: %w")-wrapped sentinel errors.
package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/registry"
	"github.com/rgehrsitz/pensim/internal/registry/calc"
	"github.com/rgehrsitz/pensim/internal/registry/calc/china"
	"github.com/rgehrsitz/pensim/internal/registry/calc/japan"
	"github.com/rgehrsitz/pensim/internal/registry/calc/singapore"
	"github.com/rgehrsitz/pensim/internal/registry/calc/taiwan"
	"github.com/rgehrsitz/pensim/internal/registry/calc/uk"
	"github.com/rgehrsitz/pensim/internal/registry/calc/usa"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Loader reads jurisdiction YAML configs from a directory (configs/ by
// convention) into each country package's Config type.
type Loader struct {
	Dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

func (l *Loader) path(name string) string {
	return l.Dir + "/" + name
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// taxBracketDoc mirrors calc.TaxBracket with yaml tags; every genericConfig-
// style jurisdiction's tax table is a map of calendar year to a bracket
// list in this shape.
type taxBracketDoc struct {
	Min  decimal.Decimal `yaml:"min"`
	Max  decimal.Decimal `yaml:"max"`
	Rate decimal.Decimal `yaml:"rate"`
}

func toBrackets(docs []taxBracketDoc) []calc.TaxBracket {
	brackets := make([]calc.TaxBracket, len(docs))
	for i, d := range docs {
		brackets[i] = calc.TaxBracket{Min: d.Min, Max: d.Max, Rate: d.Rate}
	}
	return brackets
}

// --- China ---------------------------------------------------------------

type chinaDoc struct {
	AvgWageByYear map[int]decimal.Decimal `yaml:"avg_wage_by_year"`
	HFRate        decimal.Decimal         `yaml:"housing_fund_rate"`
	HFFloor       decimal.Decimal         `yaml:"housing_fund_floor"`
	HFCeiling     decimal.Decimal         `yaml:"housing_fund_ceiling"`
	TerminalAge   int                     `yaml:"terminal_age"`
}

// China loads configs/china.yaml into a *china.Config.
func (l *Loader) China() (*china.Config, error) {
	var doc chinaDoc
	if err := readYAML(l.path("china.yaml"), &doc); err != nil {
		return nil, err
	}
	if len(doc.AvgWageByYear) == 0 {
		return nil, fmt.Errorf("%w: china.yaml has no avg_wage_by_year entries", domain.ErrConfigError)
	}
	terminalAge := doc.TerminalAge
	if terminalAge == 0 {
		terminalAge = 90
	}
	return china.NewConfig(doc.AvgWageByYear, doc.HFRate, doc.HFFloor, doc.HFCeiling, terminalAge), nil
}

// --- USA -------------------------------------------------------------

type usaYearDoc struct {
	SSWageBase              decimal.Decimal `yaml:"ss_wage_base"`
	ElectiveDeferralLimit   decimal.Decimal `yaml:"elective_deferral_limit"`
	CatchUpAmount           decimal.Decimal `yaml:"catch_up_amount"`
	EnhancedCatchUpAmount   decimal.Decimal `yaml:"enhanced_catch_up_amount"`
	MedicareSurtaxThreshold decimal.Decimal `yaml:"medicare_surtax_threshold"`
	StandardDeduction       decimal.Decimal `yaml:"standard_deduction"`
	CombinedLimit415c       decimal.Decimal `yaml:"combined_limit_415c"`
	TaxBrackets             []taxBracketDoc `yaml:"tax_brackets"`
}

type usaDoc struct {
	Years             map[int]usaYearDoc `yaml:"years"`
	DeferralRate      decimal.Decimal    `yaml:"deferral_rate"`
	RothPercent       decimal.Decimal    `yaml:"roth_percent"`
	RetirementAge     int                `yaml:"retirement_age"`
	FullRetirementAge int                `yaml:"full_retirement_age"`
}

// USA loads configs/usa.yaml into a *usa.Config.
func (l *Loader) USA() (*usa.Config, error) {
	var doc usaDoc
	if err := readYAML(l.path("usa.yaml"), &doc); err != nil {
		return nil, err
	}
	if len(doc.Years) == 0 {
		return nil, fmt.Errorf("%w: usa.yaml has no years entries", domain.ErrConfigError)
	}
	years := make(map[int]usa.YearConstants, len(doc.Years))
	for y, yd := range doc.Years {
		years[y] = usa.YearConstants{
			SSWageBase:              yd.SSWageBase,
			ElectiveDeferralLimit:   yd.ElectiveDeferralLimit,
			CatchUpAmount:           yd.CatchUpAmount,
			EnhancedCatchUpAmount:   yd.EnhancedCatchUpAmount,
			MedicareSurtaxThreshold: yd.MedicareSurtaxThreshold,
			StandardDeduction:       yd.StandardDeduction,
			CombinedLimit415c:       yd.CombinedLimit415c,
			TaxBrackets:             toBrackets(yd.TaxBrackets),
		}
	}
	cfg := usa.NewConfig(years)
	if !doc.DeferralRate.IsZero() {
		cfg.DeferralRate = doc.DeferralRate
	}
	if !doc.RothPercent.IsZero() {
		cfg.RothPercent = doc.RothPercent
	}
	if doc.RetirementAge != 0 {
		cfg.RetirementAge = doc.RetirementAge
	}
	if doc.FullRetirementAge != 0 {
		cfg.FullRetirementAge = doc.FullRetirementAge
	}
	return cfg, nil
}

// --- Singapore -------------------------------------------------------

type cpfBandDoc struct {
	MinAge    int             `yaml:"min_age"`
	TotalRate decimal.Decimal `yaml:"total_rate"`
	AllocOA   decimal.Decimal `yaml:"alloc_oa"`
	AllocSA   decimal.Decimal `yaml:"alloc_sa"`
	AllocMA   decimal.Decimal `yaml:"alloc_ma"`
	AllocRA   decimal.Decimal `yaml:"alloc_ra"`
}

type singaporeDoc struct {
	Bands                []cpfBandDoc            `yaml:"bands"`
	WageCeilingMonthly   decimal.Decimal         `yaml:"wage_ceiling_monthly"`
	BHSByYear            map[int]decimal.Decimal `yaml:"bhs_by_year"`
	FRS                  decimal.Decimal         `yaml:"frs"`
	ERS                  decimal.Decimal         `yaml:"ers"`
	BRS                  decimal.Decimal         `yaml:"brs"`
	TargetPlan           string                  `yaml:"target_plan"`
	OARate               decimal.Decimal         `yaml:"oa_rate"`
	SARate               decimal.Decimal         `yaml:"sa_rate"`
	MARate               decimal.Decimal         `yaml:"ma_rate"`
	RARate               decimal.Decimal         `yaml:"ra_rate"`
	Escalation           decimal.Decimal         `yaml:"escalation"`
	BasicPremiumFraction decimal.Decimal         `yaml:"basic_premium_fraction"`
	TerminalAge          int                     `yaml:"terminal_age"`
	LifePlan             string                  `yaml:"life_plan"`
}

// Singapore loads configs/singapore.yaml into a *singapore.CPFConfig.
func (l *Loader) Singapore() (*singapore.CPFConfig, error) {
	var doc singaporeDoc
	if err := readYAML(l.path("singapore.yaml"), &doc); err != nil {
		return nil, err
	}
	if len(doc.Bands) == 0 {
		return nil, fmt.Errorf("%w: singapore.yaml has no bands entries", domain.ErrConfigError)
	}
	bands := make([]singapore.AgeBand, len(doc.Bands))
	for i, b := range doc.Bands {
		bands[i] = singapore.AgeBand{
			MinAge:    b.MinAge,
			TotalRate: b.TotalRate,
			AllocOA:   b.AllocOA,
			AllocSA:   b.AllocSA,
			AllocMA:   b.AllocMA,
			AllocRA:   b.AllocRA,
		}
	}
	terminalAge := doc.TerminalAge
	if terminalAge == 0 {
		terminalAge = 90
	}
	plan := singapore.Plan(doc.LifePlan)
	if plan == "" {
		plan = singapore.PlanStandard
	}
	return &singapore.CPFConfig{
		Bands:                bands,
		WageCeilingMonthly:   doc.WageCeilingMonthly,
		BHSByYear:            doc.BHSByYear,
		FRS:                  doc.FRS,
		ERS:                  doc.ERS,
		BRS:                  doc.BRS,
		TargetPlan:           doc.TargetPlan,
		OARate:               doc.OARate,
		SARate:               doc.SARate,
		MARate:               doc.MARate,
		RARate:               doc.RARate,
		Escalation:           doc.Escalation,
		BasicPremiumFraction: doc.BasicPremiumFraction,
		TerminalAge:          terminalAge,
		LifePlan:             plan,
	}, nil
}

// --- Taiwan / Japan / UK (shared generic-calculator shape) ------------

type genericDoc struct {
	InsuranceRateByYear map[int]decimal.Decimal `yaml:"insurance_rate_by_year"`
	DeductionByYear     map[int]decimal.Decimal `yaml:"deduction_by_year"`
	TaxBracketsByYear   map[int][]taxBracketDoc `yaml:"tax_brackets_by_year"`
	EmployerSplit       decimal.Decimal         `yaml:"employer_split"`
	RetireAge           int                     `yaml:"retire_age"`
	TerminalAge         int                     `yaml:"terminal_age"`
}

func loadGeneric(path string) (genericDoc, map[int][]calc.TaxBracket, error) {
	var doc genericDoc
	if err := readYAML(path, &doc); err != nil {
		return doc, nil, err
	}
	if len(doc.InsuranceRateByYear) == 0 {
		return doc, nil, fmt.Errorf("%w: %s has no insurance_rate_by_year entries", domain.ErrConfigError, path)
	}
	tax := make(map[int][]calc.TaxBracket, len(doc.TaxBracketsByYear))
	for y, b := range doc.TaxBracketsByYear {
		tax[y] = toBrackets(b)
	}
	return doc, tax, nil
}

// Taiwan loads configs/taiwan.yaml into a *taiwan.Config.
func (l *Loader) Taiwan() (*taiwan.Config, error) {
	doc, tax, err := loadGeneric(l.path("taiwan.yaml"))
	if err != nil {
		return nil, err
	}
	cfg := taiwan.NewConfig(doc.InsuranceRateByYear, doc.DeductionByYear, tax)
	applyGenericOverrides(&cfg.EmployerSplit, &cfg.RetireAge, &cfg.TerminalAge, doc)
	return cfg, nil
}

// Japan loads configs/japan.yaml into a *japan.Config.
func (l *Loader) Japan() (*japan.Config, error) {
	doc, tax, err := loadGeneric(l.path("japan.yaml"))
	if err != nil {
		return nil, err
	}
	cfg := japan.NewConfig(doc.InsuranceRateByYear, doc.DeductionByYear, tax)
	applyGenericOverrides(&cfg.EmployerSplit, &cfg.RetireAge, &cfg.TerminalAge, doc)
	return cfg, nil
}

// UK loads configs/uk.yaml into a *uk.Config.
func (l *Loader) UK() (*uk.Config, error) {
	doc, tax, err := loadGeneric(l.path("uk.yaml"))
	if err != nil {
		return nil, err
	}
	cfg := uk.NewConfig(doc.InsuranceRateByYear, doc.DeductionByYear, tax)
	applyGenericOverrides(&cfg.EmployerSplit, &cfg.RetireAge, &cfg.TerminalAge, doc)
	return cfg, nil
}

// applyGenericOverrides replaces a generic-shaped Config's defaults only
// where the YAML document sets a non-zero value, so a config file that
// omits employer_split/retire_age/terminal_age keeps the package's default.
func applyGenericOverrides(employerSplit *decimal.Decimal, retireAge, terminalAge *int, doc genericDoc) {
	if !doc.EmployerSplit.IsZero() {
		*employerSplit = doc.EmployerSplit
	}
	if doc.RetireAge != 0 {
		*retireAge = doc.RetireAge
	}
	if doc.TerminalAge != 0 {
		*terminalAge = doc.TerminalAge
	}
}

// LoadAll loads every jurisdiction's YAML config from Dir and builds the
// registry the CLI registers calculators against. A missing file for one
// jurisdiction is fatal here (NewDefaultRegistry itself would accept a
// subset and skip the nil configs), since the registry is immutable once
// built — a partially populated registry
// would silently change which country codes a user could select between
// runs of the same binary.
func (l *Loader) LoadAll() (*registry.Registry, error) {
	cn, err := l.China()
	if err != nil {
		return nil, err
	}
	us, err := l.USA()
	if err != nil {
		return nil, err
	}
	sg, err := l.Singapore()
	if err != nil {
		return nil, err
	}
	tw, err := l.Taiwan()
	if err != nil {
		return nil, err
	}
	jp, err := l.Japan()
	if err != nil {
		return nil, err
	}
	gb, err := l.UK()
	if err != nil {
		return nil, err
	}
	return registry.NewDefaultRegistry(registry.DefaultConfigs{
		China:     cn,
		USA:       us,
		Singapore: sg,
		Taiwan:    tw,
		Japan:     jp,
		UK:        gb,
	})
}
