// Package tui implements pensimtui, an optional bubbletea browser for
// comparing a simulation's per-country results side by side.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rgehrsitz/pensim/internal/domain"
	"github.com/rgehrsitz/pensim/internal/runner"
)

const headerHeight = 4

// Model is the whole application state for the comparison browser: one
// analysis run, rendered as a scrollable table with a bar chart of monthly
// pension benefits.
type Model struct {
	runner *runner.AnalysisRunner
	econ   domain.EconomicFactors

	width  int
	height int

	cursor   int
	results  []runner.CountryResult
	loading  bool
	err      error
	viewport viewport.Model
	ready    bool
}

// NewModel builds the initial model. The analysis itself does not run
// until Init's command executes.
func NewModel(r *runner.AnalysisRunner, econ domain.EconomicFactors) Model {
	return Model{
		runner:  r,
		econ:    econ,
		width:   80,
		height:  24,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return runAnalysisCmd(m.runner, m.econ)
}

func runAnalysisCmd(r *runner.AnalysisRunner, econ domain.EconomicFactors) tea.Cmd {
	return func() tea.Msg {
		results, err := r.Run(context.Background(), econ)
		return ResultsLoadedMsg{Results: results, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight
		}
		m.viewport.SetContent(m.content())
		return m, nil

	case ResultsLoadedMsg:
		m.loading = false
		m.results = msg.Results
		m.err = msg.Err
		if m.ready {
			m.viewport.SetContent(m.content())
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c", "q", "esc"))):
			return m, tea.Quit
		case key.Matches(msg, key.NewBinding(key.WithKeys("up", "k"))):
			if m.cursor > 0 {
				m.cursor--
				m.viewport.SetContent(m.content())
			}
		case key.Matches(msg, key.NewBinding(key.WithKeys("down", "j"))):
			if m.cursor < len(m.results)-1 {
				m.cursor++
				m.viewport.SetContent(m.content())
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	header := TitleStyle.Render("pensim — jurisdiction comparison")
	if !m.ready {
		return header + "\n" + SubtitleStyle.Render("initializing...")
	}
	return header + "\n" + m.viewport.View() + "\n" + HelpStyle.Render("↑/↓ select · q quit")
}

// content renders the scrollable body: the loading/error state, or the
// comparison table and bar chart once results are in.
func (m Model) content() string {
	if m.loading {
		return SubtitleStyle.Render("running simulation...")
	}
	if m.err != nil {
		return ErrorStyle.Render(fmt.Sprintf("error: %v", m.err))
	}
	if len(m.results) == 0 {
		return SubtitleStyle.Render("no results")
	}

	var b strings.Builder
	b.WriteString(SubtitleStyle.Render(fmt.Sprintf("%d jurisdiction(s)", len(m.results))))
	b.WriteString("\n\n")
	b.WriteString(renderTable(m.results, m.cursor))
	b.WriteString("\n")
	b.WriteString(renderBarChart(m.results))
	return b.String()
}

func renderTable(results []runner.CountryResult, cursor int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-6s %-18s %-18s %s\n", "CODE", "MONTHLY PENSION", "LIFETIME BENEFITS", "STATUS")
	for i, r := range results {
		style := RowStyle
		if i == cursor {
			style = SelectedRowStyle
		}
		if r.Err != nil {
			b.WriteString(style.Render(fmt.Sprintf("%-6s %-18s %-18s %s", r.CountryCode, "-", "-", "FAIL: "+r.Err.Error())))
			b.WriteString("\n")
			continue
		}
		monthly := r.Result.NativeCurrency + " " + r.Result.MonthlyPensionAtRetirement.StringFixed(2)
		lifetime := r.Result.NativeCurrency + " " + r.Result.TotalLifetimeBenefits.StringFixed(2)
		b.WriteString(style.Render(fmt.Sprintf("%-6s %-18s %-18s %s", r.CountryCode, monthly, lifetime, "ok")))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBarChart draws one bar per successful result, scaled to the
// largest monthly pension figure.
func renderBarChart(results []runner.CountryResult) string {
	type bar struct {
		code  string
		value float64
	}
	var bars []bar
	maxVal := 0.0
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		v, _ := r.Result.MonthlyPensionAtRetirement.Float64()
		bars = append(bars, bar{code: r.CountryCode, value: v})
		if v > maxVal {
			maxVal = v
		}
	}
	if len(bars) == 0 || maxVal == 0 {
		return ""
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].value > bars[j].value })

	const width = 40
	var b strings.Builder
	b.WriteString(SubtitleStyle.Render("monthly pension at retirement (native currency)"))
	b.WriteString("\n")
	for _, bar := range bars {
		filled := int(bar.value / maxVal * width)
		b.WriteString(fmt.Sprintf("%-4s ", bar.code))
		b.WriteString(BarStyle.Render(strings.Repeat("█", filled)))
		b.WriteString("\n")
	}
	return b.String()
}
