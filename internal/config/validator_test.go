package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAndSetDefaultsRejectsEmptyRoot(t *testing.T) {
	cfg := defaultConfig(".")
	cfg.Project.Root = ""

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project")
}

func TestValidateAndSetDefaultsRejectsNegativeMaxSteps(t *testing.T) {
	cfg := defaultConfig(".")
	cfg.VM.MaxSteps = -1

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vm")
}

func TestValidateAndSetDefaultsRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := defaultConfig(".")
	cfg.Analysis.FuzzySuggestThreshold = 1.5

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "analysis")
}

func TestValidateAndSetDefaultsFillsZeroValues(t *testing.T) {
	cfg := defaultConfig(".")
	cfg.VM.MaxSteps = 0
	cfg.VM.MaxSparseAddresses = 0
	cfg.Analysis.FuzzySuggestThreshold = 0

	require.NoError(t, ValidateConfig(cfg))

	assert.Greater(t, cfg.VM.MaxSteps, 0)
	assert.Greater(t, cfg.VM.MaxSparseAddresses, 0)
	assert.Greater(t, cfg.Analysis.FuzzySuggestThreshold, 0.0)
}
