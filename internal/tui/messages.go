package tui

import "github.com/rgehrsitz/pensim/internal/runner"

// ResultsLoadedMsg signals the analysis run has finished, successfully or
// not.
type ResultsLoadedMsg struct {
	Results []runner.CountryResult
	Err     error
}
