package config

import (
	"errors"
	"fmt"
	"runtime"

	sceerrors "github.com/standardbeagle/sce/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Every invalid section is reported, not just the first, so a user fixing a
// config file sees all problems in one pass.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	var errs []error
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		errs = append(errs, sceerrors.NewConfigError("project", "", err))
	}
	if err := v.validateContextConfig(&cfg.Context); err != nil {
		errs = append(errs, sceerrors.NewConfigError("context", "", err))
	}
	if err := v.validateEditConfig(&cfg.Edit); err != nil {
		errs = append(errs, sceerrors.NewConfigError("edit", "", err))
	}
	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		errs = append(errs, sceerrors.NewConfigError("performance", "", err))
	}
	if len(errs) > 0 {
		return sceerrors.NewMultiError(errs)
	}

	v.setSmartDefaults(cfg)
	return nil
}

// validateProjectConfig validates project configuration
func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

// validateContextConfig validates context selection configuration
func (v *Validator) validateContextConfig(ctx *Context) error {
	switch ctx.Sensitivity {
	case "", "conservative", "balanced", "aggressive":
	default:
		return fmt.Errorf("sensitivity must be conservative, balanced or aggressive, got %q", ctx.Sensitivity)
	}

	if ctx.MaxTokens < 0 {
		return fmt.Errorf("MaxTokens must not be negative, got %d", ctx.MaxTokens)
	}

	if ctx.DependencyDepth < 0 || ctx.DependencyDepth > 10 {
		return fmt.Errorf("DependencyDepth must be between 0 and 10, got %d", ctx.DependencyDepth)
	}

	return nil
}

// validateEditConfig validates edit classification configuration
func (v *Validator) validateEditConfig(edit *Edit) error {
	if edit.ComplexityThreshold < 0 || edit.ComplexityThreshold > 1 {
		return fmt.Errorf("ComplexityThreshold must be between 0 and 1, got %v", edit.ComplexityThreshold)
	}

	switch edit.ModelStrategy {
	case "", "fast", "balanced", "quality":
	default:
		return fmt.Errorf("model strategy must be fast, balanced or quality, got %q", edit.ModelStrategy)
	}

	return nil
}

// validatePerformanceConfig validates performance configuration
func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	if perf.MaxGoroutines < 0 {
		return fmt.Errorf("MaxGoroutines must not be negative, got %d", perf.MaxGoroutines)
	}

	if perf.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", perf.MaxFileSize)
	}

	if perf.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", perf.MaxFileSize)
	}

	return nil
}

// setSmartDefaults fills in values the user left at zero
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Context.Sensitivity == "" {
		cfg.Context.Sensitivity = "balanced"
	}
	if cfg.Context.MaxTokens == 0 {
		cfg.Context.MaxTokens = DefaultMaxTokens
	}
	if cfg.Context.DependencyDepth == 0 {
		cfg.Context.DependencyDepth = DefaultDependencyDepth
	}
	if cfg.Edit.ModelStrategy == "" {
		cfg.Edit.ModelStrategy = "balanced"
	}
	if cfg.Performance.MaxGoroutines == 0 {
		cfg.Performance.MaxGoroutines = runtime.NumCPU()
	}
}
