package config

import (
	"errors"
	"fmt"
)

// Validator validates configuration and applies smart defaults.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg and fills in fixed defaults for
// zero-valued fields (see setSmartDefaults).
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return wrapConfigError("project", err)
	}

	if err := v.validateVMConfig(&cfg.VM); err != nil {
		return wrapConfigError("vm", err)
	}

	if err := v.validateAnalysisConfig(&cfg.Analysis); err != nil {
		return wrapConfigError("analysis", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func wrapConfigError(field string, err error) error {
	return fmt.Errorf("invalid %s configuration: %w", field, err)
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateVMConfig(vm *VM) error {
	if vm.MaxSteps < 0 {
		return fmt.Errorf("MaxSteps cannot be negative, got %d", vm.MaxSteps)
	}
	if vm.MaxSparseAddresses <= 0 {
		return fmt.Errorf("MaxSparseAddresses must be positive, got %d", vm.MaxSparseAddresses)
	}
	return nil
}

func (v *Validator) validateAnalysisConfig(a *Analysis) error {
	if a.FuzzySuggestThreshold < 0 || a.FuzzySuggestThreshold > 1 {
		return fmt.Errorf("FuzzySuggestThreshold must be between 0 and 1, got %v", a.FuzzySuggestThreshold)
	}
	return nil
}

// setSmartDefaults fills zero-valued fields with fixed constants: MaxSteps
// 10,000,000, MaxSparseAddresses 1,000,000, and
// DefaultFuzzySuggestThreshold.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.VM.MaxSteps == 0 {
		cfg.VM.MaxSteps = 10_000_000
	}
	if cfg.VM.MaxSparseAddresses == 0 {
		cfg.VM.MaxSparseAddresses = 1_000_000
	}
	if cfg.Analysis.FuzzySuggestThreshold == 0 {
		cfg.Analysis.FuzzySuggestThreshold = DefaultFuzzySuggestThreshold
	}
}

// ValidateConfig is a convenience function for quick validation.
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
