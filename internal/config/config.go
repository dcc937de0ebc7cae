package config

import (
	"os"
	"runtime"
)

// Default selection and classification settings. These mirror the values the
// engine falls back to when no .sce.kdl is present.
const (
	DefaultMaxTokens           = 8000
	DefaultDependencyDepth     = 2
	DefaultComplexityThreshold = 0.5
	DefaultMaxFileSize         = 10 * 1024 * 1024
)

type Config struct {
	Version     int
	Project     Project
	Context     Context
	Edit        Edit
	Performance Performance
	Include     []string
	Exclude     []string
}

type Project struct {
	Root string
	Name string
}

// Context controls file selection for prompt assembly.
type Context struct {
	Sensitivity     string // "conservative", "balanced", "aggressive"
	MaxTokens       int    // token budget for selected context
	DependencyDepth int    // BFS hops when expanding seeds with dependencies
}

// Edit controls classification and validation of edit requests.
type Edit struct {
	ComplexityThreshold float64 // confidence floor before evidence penalties kick in
	ModelStrategy       string  // "fast", "balanced", "quality"
	ValidationEnabled   bool    // run the edit validator after generation
}

type Performance struct {
	MaxGoroutines    int   // bounded fan-out for file reads, 0 = NumCPU
	MaxFileSize      int64 // files larger than this are skipped during scans
	RespectGitignore bool  // honor .gitignore during enumeration
}

// DefaultExcludes are the build and dependency directories skipped during
// enumeration unless the project config replaces them.
var DefaultExcludes = []string{
	"**/node_modules/**",
	"**/.git/**",
	"**/dist/**",
	"**/build/**",
	"**/target/**",
	"**/vendor/**",
	"**/__pycache__/**",
	"**/.next/**",
	"**/coverage/**",
	"**/out/**",
}

// Default returns the configuration used when no .sce.kdl is found.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}

	return &Config{
		Version: 1,
		Project: Project{Root: cwd},
		Context: Context{
			Sensitivity:     "balanced",
			MaxTokens:       DefaultMaxTokens,
			DependencyDepth: DefaultDependencyDepth,
		},
		Edit: Edit{
			ComplexityThreshold: DefaultComplexityThreshold,
			ModelStrategy:       "balanced",
			ValidationEnabled:   true,
		},
		Performance: Performance{
			MaxGoroutines:    runtime.NumCPU(),
			MaxFileSize:      DefaultMaxFileSize,
			RespectGitignore: true,
		},
		Include: []string{},
		Exclude: append([]string{}, DefaultExcludes...),
	}
}

// Load loads configuration for a project directory. A .sce.kdl in the
// directory overrides defaults; absence of the file is not an error.
func Load(projectRoot string) (*Config, error) {
	cfg, err := LoadKDL(projectRoot)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
		if projectRoot != "" {
			cfg.Project.Root = projectRoot
		}
	}

	if err := NewValidator().ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}

	cfg.EnrichExclusionsWithBuildArtifacts()
	return cfg, nil
}

// EnrichExclusionsWithBuildArtifacts detects build output directories from
// language manifests and adds them to the exclusion list.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	if c.Project.Root == "" {
		return
	}

	detector := NewBuildArtifactDetector(c.Project.Root)
	detected := detector.DetectOutputDirectories()
	if len(detected) > 0 {
		c.Exclude = DeduplicatePatterns(append(c.Exclude, detected...))
	}
}
