package registry

import (
	"github.com/rgehrsitz/pensim/internal/registry/calc/china"
	"github.com/rgehrsitz/pensim/internal/registry/calc/japan"
	"github.com/rgehrsitz/pensim/internal/registry/calc/singapore"
	"github.com/rgehrsitz/pensim/internal/registry/calc/taiwan"
	"github.com/rgehrsitz/pensim/internal/registry/calc/uk"
	"github.com/rgehrsitz/pensim/internal/registry/calc/usa"
)

// DefaultConfigs bundles the six jurisdictions' loaded per-year constants
// tables. A nil field skips that jurisdiction's registration, letting a
// caller build a registry for a subset of countries (e.g. during tests).
type DefaultConfigs struct {
	China     *china.Config
	USA       *usa.Config
	Singapore *singapore.CPFConfig
	Taiwan    *taiwan.Config
	Japan     *japan.Config
	UK        *uk.Config
}

// NewDefaultRegistry builds and registers every jurisdiction whose config is
// present in cfgs. This is the CLI's one piece of process-startup state
// besides the currency rate cache file; once built, it is never mutated.
func NewDefaultRegistry(cfgs DefaultConfigs) (*Registry, error) {
	r := NewRegistry()

	if cfgs.China != nil {
		if err := r.Register("CN", china.New(cfgs.China)); err != nil {
			return nil, err
		}
	}
	if cfgs.USA != nil {
		if err := r.Register("US", usa.New(cfgs.USA)); err != nil {
			return nil, err
		}
	}
	if cfgs.Singapore != nil {
		if err := r.Register("SG", singapore.New(cfgs.Singapore)); err != nil {
			return nil, err
		}
	}
	if cfgs.Taiwan != nil {
		if err := r.Register("TW", taiwan.New(cfgs.Taiwan)); err != nil {
			return nil, err
		}
	}
	if cfgs.Japan != nil {
		if err := r.Register("JP", japan.New(cfgs.Japan)); err != nil {
			return nil, err
		}
	}
	if cfgs.UK != nil {
		if err := r.Register("UK", uk.New(cfgs.UK)); err != nil {
			return nil, err
		}
	}
	return r, nil
}
