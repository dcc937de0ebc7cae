// Package engine wires the selection, classification, and validation
// components behind one facade. Hosts (the MCP server and the CLI) talk to
// the engine only; the engine owns the caches and the filesystem capability.
package engine

import (
	"context"
	"sort"

	"github.com/standardbeagle/sce/internal/cache"
	"github.com/standardbeagle/sce/internal/classify"
	"github.com/standardbeagle/sce/internal/config"
	"github.com/standardbeagle/sce/internal/debug"
	"github.com/standardbeagle/sce/internal/graph"
	"github.com/standardbeagle/sce/internal/interfaces"
	"github.com/standardbeagle/sce/internal/optimizer"
	"github.com/standardbeagle/sce/internal/semantic"
	"github.com/standardbeagle/sce/internal/types"
	"github.com/standardbeagle/sce/internal/validate"
)

// Engine is the top-level entry point for context selection and edit
// strategy decisions.
type Engine struct {
	cfg        *config.Config
	fs         interfaces.FileSystem
	builder    *graph.Builder
	matcher    *semantic.Matcher
	optimizer  *optimizer.Optimizer
	classifier *classify.Classifier
	selector   *classify.StrategySelector
	validator  *validate.Validator

	graphs     *cache.Store
	matches    *cache.Store
	analyses   *cache.Store
	strategies *cache.Store
}

// New builds an engine from a loaded configuration.
func New(cfg *config.Config) *Engine {
	return NewWithFileSystem(cfg, interfaces.NewOSFileSystem())
}

// NewWithFileSystem builds an engine over an injected filesystem capability.
// Tests use this to supply fixture workspaces.
func NewWithFileSystem(cfg *config.Config, fsys interfaces.FileSystem) *Engine {
	graphs := cache.NewStore(cache.DefaultConfig())
	matches := cache.NewStore(cache.DefaultConfig())
	analyses := cache.NewStore(cache.DefaultConfig())
	strategies := cache.NewStore(cache.DefaultConfig())

	builder := graph.NewBuilder(fsys)
	matcher := semantic.NewMatcher(fsys, cfg.Performance.MaxGoroutines)
	selector := classify.NewStrategySelector(strategies)

	return &Engine{
		cfg:        cfg,
		fs:         fsys,
		builder:    builder,
		matcher:    matcher,
		optimizer:  optimizer.New(fsys, builder, matcher, graphOptions(cfg), graphs, matches),
		classifier: classify.NewClassifier(selector, analyses),
		selector:   selector,
		validator:  validate.NewValidator(),
		graphs:     graphs,
		matches:    matches,
		analyses:   analyses,
		strategies: strategies,
	}
}

func graphOptions(cfg *config.Config) graph.Options {
	opts := graph.DefaultOptions()
	if len(cfg.Include) > 0 {
		opts.Include = cfg.Include
	}
	if len(cfg.Exclude) > 0 {
		opts.Exclude = cfg.Exclude
	}
	if cfg.Performance.MaxFileSize > 0 {
		opts.MaxFileSize = cfg.Performance.MaxFileSize
	}
	opts.MaxGoroutines = cfg.Performance.MaxGoroutines
	opts.RespectGitignore = cfg.Performance.RespectGitignore
	return opts
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// ContextConfig returns the configured selection parameters, normalized.
// Hosts copy the result to apply per-request overrides without touching the
// shared configuration.
func (e *Engine) ContextConfig() types.ContextConfig {
	cfg := types.ContextConfig{
		Sensitivity:     types.Sensitivity(e.cfg.Context.Sensitivity),
		MaxTokens:       e.cfg.Context.MaxTokens,
		DependencyDepth: e.cfg.Context.DependencyDepth,
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = config.DefaultMaxTokens
	}
	if cfg.DependencyDepth <= 0 {
		cfg.DependencyDepth = config.DefaultDependencyDepth
	}
	return cfg
}

// Graph returns the dependency graph for rootPath, cached per project.
func (e *Engine) Graph(ctx context.Context, rootPath string) (*graph.DependencyGraph, error) {
	return e.optimizer.Graph(ctx, rootPath)
}

// ProjectFiles lists the scanned project files in sorted order.
func (e *Engine) ProjectFiles(ctx context.Context, rootPath string) ([]string, error) {
	g, err := e.Graph(ctx, rootPath)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(g.Nodes))
	for path := range g.Nodes {
		files = append(files, path)
	}
	sort.Strings(files)
	return files, nil
}

// SelectContext picks files for a prompt using the project's scanned file
// set. Never returns an error; failures degrade to the fallback selection.
func (e *Engine) SelectContext(ctx context.Context, prompt, rootPath string) types.ContextOptimization {
	return e.SelectContextWith(ctx, prompt, rootPath, e.ContextConfig())
}

// SelectContextWith is SelectContext with explicit selection parameters.
// The engine's own configuration is never mutated, so concurrent requests
// with different budgets cannot observe each other's overrides.
func (e *Engine) SelectContextWith(ctx context.Context, prompt, rootPath string, ccfg types.ContextConfig) types.ContextOptimization {
	files, err := e.ProjectFiles(ctx, rootPath)
	if err != nil {
		debug.Log("engine", "file enumeration failed: %v\n", err)
		files = nil
	}
	return e.optimizer.SelectContext(ctx, prompt, rootPath, files, ccfg)
}

// FindMatches exposes raw semantic match scores for a prompt.
func (e *Engine) FindMatches(ctx context.Context, prompt, rootPath string) ([]types.SemanticMatch, error) {
	files, err := e.ProjectFiles(ctx, rootPath)
	if err != nil {
		return nil, err
	}
	return e.matcher.FindMatches(ctx, prompt, rootPath, files), nil
}

// EstimateComplexity classifies an edit request against a file. The file is
// read through the engine's filesystem; an unreadable file classifies on the
// prompt alone.
func (e *Engine) EstimateComplexity(prompt, filePath string) types.EditAnalysis {
	content := ""
	if filePath != "" {
		if data, err := e.fs.ReadFile(filePath); err == nil {
			content = string(data)
		} else {
			debug.Log("engine", "classifying without content for %s: %v\n", filePath, err)
		}
	}
	return e.classifier.EstimateComplexity(prompt, filePath, content, e.preference())
}

func (e *Engine) preference() types.ModelPreference {
	switch e.cfg.Edit.ModelStrategy {
	case "fast":
		return types.PreferFast
	case "quality":
		return types.PreferQuality
	}
	return types.PreferBalanced
}

// SelectStrategy exposes the pure strategy choice for an analysis.
func (e *Engine) SelectStrategy(analysis types.EditAnalysis, filePath string) types.EditStrategy {
	return e.selector.Select(analysis, e.preference(), filePath)
}

// ValidateEdit checks a proposed edit at the given level.
func (e *Engine) ValidateEdit(originalContent, editedContent, filePath string, level types.ValidationLevel) types.EditValidation {
	return e.validator.Validate(originalContent, editedContent, filePath, level)
}

// CacheStats reports hit/miss counters for every engine cache.
func (e *Engine) CacheStats() map[string]cache.Stats {
	return map[string]cache.Stats{
		"graphs":     e.graphs.Stats(),
		"matches":    e.matches.Stats(),
		"analyses":   e.analyses.Stats(),
		"strategies": e.strategies.Stats(),
	}
}

// ClearCaches drops all cached graphs, matches, analyses, and strategies.
func (e *Engine) ClearCaches() {
	e.graphs.Clear()
	e.matches.Clear()
	e.analyses.Clear()
	e.strategies.Clear()
}
