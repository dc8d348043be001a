package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const configsDir = "../../configs"

func TestLoaderChina(t *testing.T) {
	l := NewLoader(configsDir)
	cfg, err := l.China()
	require.NoError(t, err)
	assert.NotNil(t, cfg.AvgWage)
}

func TestLoaderUSA(t *testing.T) {
	l := NewLoader(configsDir)
	cfg, err := l.USA()
	require.NoError(t, err)
	assert.NotZero(t, cfg.RetirementAge)
}

func TestLoaderSingapore(t *testing.T) {
	l := NewLoader(configsDir)
	cfg, err := l.Singapore()
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Bands)
}

func TestLoaderTaiwan(t *testing.T) {
	l := NewLoader(configsDir)
	cfg, err := l.Taiwan()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoaderJapan(t *testing.T) {
	l := NewLoader(configsDir)
	cfg, err := l.Japan()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoaderUK(t *testing.T) {
	l := NewLoader(configsDir)
	cfg, err := l.UK()
	require.NoError(t, err)
	assert.NotNil(t, cfg)
}

func TestLoaderMissingFile(t *testing.T) {
	l := NewLoader("does-not-exist")
	_, err := l.China()
	require.Error(t, err)
}

func TestLoadAllBuildsAllSixJurisdictions(t *testing.T) {
	l := NewLoader(configsDir)
	reg, err := l.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"CN", "JP", "SG", "TW", "UK", "US"}, reg.ListCodes())
}

func TestLoadAllMissingDirFails(t *testing.T) {
	l := NewLoader("does-not-exist")
	_, err := l.LoadAll()
	require.Error(t, err)
}
