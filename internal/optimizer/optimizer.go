// Package optimizer selects a token-budgeted file context for a prompt.
//
// Selection is a greedy fractional-knapsack approximation: candidates are
// sorted by relevance-per-token and admitted while the running token sum
// stays within budget. The approximation is deterministic and O(n log n);
// it is not guaranteed optimal.
package optimizer

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/standardbeagle/sce/internal/cache"
	"github.com/standardbeagle/sce/internal/debug"
	sceerrors "github.com/standardbeagle/sce/internal/errors"
	"github.com/standardbeagle/sce/internal/graph"
	"github.com/standardbeagle/sce/internal/interfaces"
	"github.com/standardbeagle/sce/internal/semantic"
	"github.com/standardbeagle/sce/internal/types"
)

// fallback parameters when analysis fails
const (
	fallbackMaxFiles       = 5
	fallbackRelevanceRatio = 0.5
	fallbackTokensPerFile  = 500
)

// Optimizer runs the context selection pipeline.
type Optimizer struct {
	fs        interfaces.FileSystem
	builder   *graph.Builder
	matcher   *semantic.Matcher
	graphOpts graph.Options
	graphs    *cache.Store
	matches   *cache.Store
}

// New wires an optimizer. The caches are injected so callers (and tests)
// control their lifetime; nil caches disable caching.
func New(fsys interfaces.FileSystem, builder *graph.Builder, matcher *semantic.Matcher, graphOpts graph.Options, graphs, matches *cache.Store) *Optimizer {
	return &Optimizer{
		fs:        fsys,
		builder:   builder,
		matcher:   matcher,
		graphOpts: graphOpts,
		graphs:    graphs,
		matches:   matches,
	}
}

type candidate struct {
	path      string
	tokens    int
	relevance float64
}

// SelectContext picks the files to include for a prompt within cfg.MaxTokens.
// It never returns an error: any failure mid-analysis degrades to the
// conservative fallback selection.
func (o *Optimizer) SelectContext(ctx context.Context, prompt, rootPath string, availableFiles []string, cfg types.ContextConfig) (result types.ContextOptimization) {
	defer func() {
		if r := recover(); r != nil {
			debug.LogOptimizer("selection panicked, using fallback: %v\n", r)
			result = o.fallbackSelection(availableFiles)
		}
	}()

	selection, err := o.selectContext(ctx, prompt, rootPath, availableFiles, cfg)
	if err != nil {
		debug.LogOptimizer("using fallback: %v\n", sceerrors.NewAnalysisError(prompt, rootPath, err))
		return o.fallbackSelection(availableFiles)
	}
	return selection
}

func (o *Optimizer) selectContext(ctx context.Context, prompt, rootPath string, availableFiles []string, cfg types.ContextConfig) (types.ContextOptimization, error) {
	g, err := o.Graph(ctx, rootPath)
	if err != nil {
		return types.ContextOptimization{}, err
	}

	matches := o.matchesFor(ctx, prompt, rootPath, availableFiles)
	threshold := cfg.Sensitivity.Threshold()

	// Seed with files scoring above the sensitivity threshold
	seeds := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.RelevanceScore > threshold {
			seeds = append(seeds, m.FilePath)
		}
	}

	// Expand each seed with its dependencies, depth-limited BFS
	candidateSet := make(map[string]bool, len(seeds))
	for _, seed := range seeds {
		candidateSet[seed] = true
		for _, dep := range g.TransitiveDependencies(seed, cfg.DependencyDepth) {
			candidateSet[dep] = true
		}
	}

	available := make(map[string]bool, len(availableFiles))
	for _, f := range availableFiles {
		available[f] = true
	}

	candidates := make([]candidate, 0, len(candidateSet))
	for path := range candidateSet {
		if !available[path] {
			continue
		}
		candidates = append(candidates, o.buildCandidate(rootPath, path))
	}

	return packBudget(candidates, cfg.MaxTokens), nil
}

// buildCandidate estimates tokens and prompt-independent relevance for one
// file. Stat failures fall back to a nominal size so the file stays eligible.
func (o *Optimizer) buildCandidate(rootPath, path string) candidate {
	full := path
	if rootPath != "" {
		full = filepath.Join(rootPath, path)
	}
	var size int64 = fallbackTokensPerFile * types.TokenCharRatio
	if info, err := o.fs.Stat(full); err == nil {
		size = info.Size()
	}
	return candidate{
		path:      path,
		tokens:    int(size) / types.TokenCharRatio,
		relevance: fileRelevance(path, size),
	}
}

// packBudget admits candidates greedily by relevance-per-token until the
// budget is exhausted. RelevanceRatio is measured against all candidates so
// it reflects coverage, not volume.
func packBudget(candidates []candidate, maxTokens int) types.ContextOptimization {
	sort.Slice(candidates, func(i, j int) bool {
		ri := perToken(candidates[i])
		rj := perToken(candidates[j])
		if ri != rj {
			return ri > rj
		}
		return candidates[i].path < candidates[j].path
	})

	totalRelevance := 0.0
	for _, c := range candidates {
		totalRelevance += c.relevance
	}

	selected := make([]string, 0, len(candidates))
	usedTokens := 0
	admittedRelevance := 0.0
	for _, c := range candidates {
		if usedTokens+c.tokens > maxTokens {
			continue
		}
		selected = append(selected, c.path)
		usedTokens += c.tokens
		admittedRelevance += c.relevance
	}

	ratio := 0.0
	if totalRelevance > 0 {
		ratio = admittedRelevance / totalRelevance
	}

	return types.ContextOptimization{
		SelectedFiles:  selected,
		TotalTokens:    usedTokens,
		RelevanceRatio: ratio,
	}
}

func perToken(c candidate) float64 {
	if c.tokens <= 0 {
		return c.relevance
	}
	return c.relevance / float64(c.tokens)
}

// Graph returns the cached dependency graph for rootPath, building it on miss.
func (o *Optimizer) Graph(ctx context.Context, rootPath string) (*graph.DependencyGraph, error) {
	key := cache.GraphKey(rootPath)
	if o.graphs != nil {
		if cached := o.graphs.Get(key); cached != nil {
			return cached.(*graph.DependencyGraph), nil
		}
	}
	g, err := o.builder.Build(ctx, rootPath, o.graphOpts)
	if err != nil {
		return nil, err
	}
	if o.graphs != nil {
		o.graphs.Put(key, g)
	}
	return g, nil
}

func (o *Optimizer) matchesFor(ctx context.Context, prompt, rootPath string, files []string) []types.SemanticMatch {
	key := cache.MatchKey(prompt, files)
	if o.matches != nil {
		if cached := o.matches.Get(key); cached != nil {
			return cached.([]types.SemanticMatch)
		}
	}
	result := o.matcher.FindMatches(ctx, prompt, rootPath, files)
	if o.matches != nil {
		o.matches.Put(key, result)
	}
	return result
}

// fallbackSelection picks up to 5 likely entrypoint files with a fixed
// relevance ratio and a rough token estimate. Must never fail.
func (o *Optimizer) fallbackSelection(availableFiles []string) types.ContextOptimization {
	selected := make([]string, 0, fallbackMaxFiles)
	for _, path := range availableFiles {
		if len(selected) >= fallbackMaxFiles {
			break
		}
		if looksLikeEntrypoint(path) {
			selected = append(selected, path)
		}
	}
	return types.ContextOptimization{
		SelectedFiles:  selected,
		TotalTokens:    fallbackTokensPerFile * len(selected),
		RelevanceRatio: fallbackRelevanceRatio,
	}
}

var manifestNames = map[string]bool{
	"package.json":   true,
	"go.mod":         true,
	"cargo.toml":     true,
	"pyproject.toml": true,
	"gemfile":        true,
	"composer.json":  true,
}

func looksLikeEntrypoint(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	if manifestNames[base] {
		return true
	}
	return strings.Contains(base, "index") ||
		strings.Contains(base, "main") ||
		strings.Contains(base, "app")
}
