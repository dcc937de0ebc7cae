package optimizer

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sce/internal/cache"
	"github.com/standardbeagle/sce/internal/graph"
	"github.com/standardbeagle/sce/internal/interfaces"
	"github.com/standardbeagle/sce/internal/semantic"
	"github.com/standardbeagle/sce/internal/types"
)

func newTestOptimizer(fsys interfaces.FileSystem) *Optimizer {
	builder := graph.NewBuilder(fsys)
	matcher := semantic.NewMatcher(fsys, 2)
	opts := graph.DefaultOptions()
	opts.RespectGitignore = false
	return New(fsys, builder, matcher, opts,
		cache.NewStore(cache.DefaultConfig()),
		cache.NewStore(cache.DefaultConfig()))
}

func writeProject(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	}
}

func TestSelectContextTypoScenario(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, map[string]string{
		"src/index.ts": "import { helper } from './util';\nexport const main = () => helper();\n",
		"src/util.ts":  "export function helper() { return 1; }\n",
		"src/other.ts": "export const unrelated = true;\n",
	})

	o := newTestOptimizer(interfaces.NewOSFileSystem())
	files := []string{"src/index.ts", "src/other.ts", "src/util.ts"}
	cfg := types.ContextConfig{
		Sensitivity:     types.SensitivityBalanced,
		MaxTokens:       8000,
		DependencyDepth: 1,
	}

	result := o.SelectContext(context.Background(), "fix the typo in src/index.ts", dir, files, cfg)

	assert.Contains(t, result.SelectedFiles, "src/index.ts")
	assert.Contains(t, result.SelectedFiles, "src/util.ts", "depth-1 dependency of the seed")
	assert.NotContains(t, result.SelectedFiles, "src/other.ts", "unrelated file with no matching content")
	assert.Greater(t, result.RelevanceRatio, 0.0)
}

func TestSelectContextNeverExceedsBudget(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	names := make([]string, 0, 8)
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		rel := "src/login_" + name + ".ts"
		files[rel] = "export const login" + name + " = 'login handler';\n"
		names = append(names, rel)
	}
	writeProject(t, dir, files)

	o := newTestOptimizer(interfaces.NewOSFileSystem())

	for _, budget := range []int{0, 10, 25, 100, 10000} {
		cfg := types.ContextConfig{
			Sensitivity:     types.SensitivityAggressive,
			MaxTokens:       budget,
			DependencyDepth: 2,
		}
		result := o.SelectContext(context.Background(), "fix the login handler", dir, names, cfg)
		assert.LessOrEqual(t, result.TotalTokens, budget, "budget %d", budget)
	}
}

func TestSelectContextEmptyWhenNothingFits(t *testing.T) {
	got := packBudget([]candidate{
		{path: "a.ts", tokens: 500, relevance: 1.0},
		{path: "b.ts", tokens: 700, relevance: 0.9},
	}, 100)

	assert.Empty(t, got.SelectedFiles)
	assert.Zero(t, got.TotalTokens)
	assert.Zero(t, got.RelevanceRatio)
}

func TestPackBudgetGreedyOrder(t *testing.T) {
	got := packBudget([]candidate{
		{path: "cheap.ts", tokens: 10, relevance: 0.5},  // 0.05 per token
		{path: "dense.ts", tokens: 5, relevance: 0.9},   // 0.18 per token
		{path: "heavy.ts", tokens: 100, relevance: 1.0}, // 0.01 per token
	}, 15)

	assert.Equal(t, []string{"dense.ts", "cheap.ts"}, got.SelectedFiles)
	assert.Equal(t, 15, got.TotalTokens)
	assert.InDelta(t, 1.4/2.4, got.RelevanceRatio, 0.001)
}

func TestPackBudgetDeterministicTieBreak(t *testing.T) {
	candidates := func() []candidate {
		return []candidate{
			{path: "b.ts", tokens: 10, relevance: 0.5},
			{path: "a.ts", tokens: 10, relevance: 0.5},
		}
	}
	first := packBudget(candidates(), 10)
	second := packBudget(candidates(), 10)

	assert.Equal(t, first.SelectedFiles, second.SelectedFiles)
	assert.Equal(t, []string{"a.ts"}, first.SelectedFiles, "ties break on path order")
}

// failingFS fails every operation, forcing the conservative fallback.
type failingFS struct{}

func (failingFS) ReadFile(string) ([]byte, error)      { return nil, errors.New("boom") }
func (failingFS) Stat(string) (fs.FileInfo, error)     { return nil, errors.New("boom") }
func (failingFS) WalkDir(string, fs.WalkDirFunc) error { return errors.New("boom") }

func TestSelectContextFallbackOnFailure(t *testing.T) {
	o := newTestOptimizer(failingFS{})
	files := []string{
		"src/index.ts", "src/main.go", "src/app.tsx", "package.json",
		"src/extra-main.ts", "src/another-index.ts", "src/misc.ts",
	}
	cfg := types.ContextConfig{Sensitivity: types.SensitivityBalanced, MaxTokens: 8000, DependencyDepth: 2}

	result := o.SelectContext(context.Background(), "do anything", "/nowhere", files, cfg)

	assert.LessOrEqual(t, len(result.SelectedFiles), 5)
	assert.NotEmpty(t, result.SelectedFiles, "entrypoint-looking files should be picked")
	assert.Equal(t, 0.5, result.RelevanceRatio)
	assert.Equal(t, 500*len(result.SelectedFiles), result.TotalTokens)
	for _, f := range result.SelectedFiles {
		assert.True(t, looksLikeEntrypoint(f), f)
	}
}

func TestLooksLikeEntrypoint(t *testing.T) {
	assert.True(t, looksLikeEntrypoint("src/index.ts"))
	assert.True(t, looksLikeEntrypoint("cmd/app/main.go"))
	assert.True(t, looksLikeEntrypoint("package.json"))
	assert.True(t, looksLikeEntrypoint("Cargo.toml"))
	assert.False(t, looksLikeEntrypoint("src/helpers.ts"))
	assert.False(t, looksLikeEntrypoint("README.md"))
}

func TestFileRelevanceRanking(t *testing.T) {
	code := fileRelevance("src/app.ts", 5000)
	doc := fileRelevance("README.md", 5000)
	assert.Greater(t, code, doc, "source files outrank docs")

	mid := fileRelevance("a.go", 5000)
	huge := fileRelevance("a.go", 500_000)
	assert.Greater(t, mid, huge, "mid-size files outrank huge ones")
}

func TestGraphCached(t *testing.T) {
	dir := t.TempDir()
	writeProject(t, dir, map[string]string{"a.ts": "export const a = 1;\n"})

	o := newTestOptimizer(interfaces.NewOSFileSystem())
	g1, err := o.Graph(context.Background(), dir)
	require.NoError(t, err)
	g2, err := o.Graph(context.Background(), dir)
	require.NoError(t, err)

	assert.Same(t, g1, g2, "second build must come from cache")
}
