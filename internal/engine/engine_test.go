package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/sce/internal/types"
	"github.com/standardbeagle/sce/testhelpers"
)

func TestMain(m *testing.M) {
	testhelpers.VerifyNoLeaks(m)
}

func fixtureEngine(t *testing.T) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	testhelpers.WriteProjectFiles(t, dir, map[string]string{
		"src/index.ts":              "import { helper } from './util';\nexport const main = () => helper();\n",
		"src/util.ts":               "export function helper() { return 1; }\n",
		"src/login.ts":              "export function login(user: string) { return user; }\n",
		"src/other.ts":              "export const unrelated = true;\n",
		"node_modules/pkg/index.js": "module.exports = {};\n",
	})
	return New(testhelpers.TestConfig(dir)), dir
}

func TestProjectFilesExcludesDefaults(t *testing.T) {
	e, dir := fixtureEngine(t)

	files, err := e.ProjectFiles(context.Background(), dir)
	require.NoError(t, err)

	assert.Contains(t, files, "src/index.ts")
	assert.Contains(t, files, "src/util.ts")
	for _, f := range files {
		assert.False(t, strings.HasPrefix(f, "node_modules/"), f)
	}
	assert.IsNonDecreasing(t, files)
}

func TestSelectContextEndToEnd(t *testing.T) {
	e, dir := fixtureEngine(t)

	result := e.SelectContext(context.Background(), "fix the typo in src/index.ts", dir)

	assert.Contains(t, result.SelectedFiles, "src/index.ts")
	assert.Contains(t, result.SelectedFiles, "src/util.ts")
	assert.NotContains(t, result.SelectedFiles, "src/other.ts")
	assert.LessOrEqual(t, result.TotalTokens, testhelpers.TestConfig(dir).Context.MaxTokens)
}

func TestSelectContextMissingRoot(t *testing.T) {
	e, _ := fixtureEngine(t)

	result := e.SelectContext(context.Background(), "anything", filepath.Join(t.TempDir(), "missing"))

	// Nothing enumerable means nothing to select, but never an error
	assert.Empty(t, result.SelectedFiles)
	assert.Zero(t, result.TotalTokens)
}

func TestEstimateComplexityReadsFile(t *testing.T) {
	e, dir := fixtureEngine(t)

	got := e.EstimateComplexity("fix the typo in the greeting", filepath.Join(dir, "src", "util.ts"))

	assert.Equal(t, types.ComplexitySimple, got.Complexity)
	assert.Equal(t, types.ModelFast, got.SuggestedStrategy.ModelSelection)
	assert.Equal(t, types.ValidationBasic, got.SuggestedStrategy.ValidationLevel)
}

func TestEstimateComplexityUnreadableFile(t *testing.T) {
	e, dir := fixtureEngine(t)

	got := e.EstimateComplexity("refactor the session architecture", filepath.Join(dir, "no-such-file.ts"))

	assert.Equal(t, types.ComplexityComplex, got.Complexity, "classifies on the prompt alone")
}

func TestOptimizeEditRendersPrompt(t *testing.T) {
	e, dir := fixtureEngine(t)
	target := filepath.Join(dir, "src", "login.ts")

	got := e.OptimizeEdit("fix the typo in the login message", target)

	assert.Contains(t, got.OptimizedPrompt, "fix the typo in the login message")
	assert.Contains(t, got.OptimizedPrompt, "Target file: "+target)
	assert.Contains(t, got.OptimizedPrompt, "Edit complexity: SIMPLE")
	assert.Contains(t, got.OptimizedPrompt, "minimal change")
	assert.Equal(t, "complete file content", got.ExpectedOutputFormat)
	assert.Equal(t, []string{"syntax", "structure", "length"}, got.ValidationRules)
	assert.NotEmpty(t, got.ProcessingHints)
}

func TestOptimizeEditMultiFile(t *testing.T) {
	e, _ := fixtureEngine(t)

	got := e.OptimizeEdit("rename the logger across files in the whole project", "src/app.ts")

	assert.Equal(t, "per-file unified diff blocks", got.ExpectedOutputFormat)
	assert.Contains(t, got.ValidationRules, "security")
	assert.Contains(t, got.ValidationRules, "typescript")
	assert.Contains(t, got.OptimizedPrompt, "spans multiple files")
}

func TestValidateEditRoundTrip(t *testing.T) {
	e, _ := fixtureEngine(t)
	original := "export function f() { return 1; }\n"

	clean := e.ValidateEdit(original, original, "src/f.ts", types.ValidationEnhanced)
	assert.True(t, clean.SyntaxValid)
	assert.True(t, clean.StructureIntact)

	broken := e.ValidateEdit(original, "export function f() { return 1;\n", "src/f.ts", types.ValidationEnhanced)
	assert.False(t, broken.StructureIntact)
}

func TestCacheStatsAndClear(t *testing.T) {
	e, dir := fixtureEngine(t)
	ctx := context.Background()

	e.SelectContext(ctx, "fix the login flow", dir)
	e.SelectContext(ctx, "fix the login flow", dir)

	stats := e.CacheStats()
	assert.Positive(t, stats["graphs"].Hits, "second selection reuses the graph")
	assert.Positive(t, stats["matches"].Hits)

	e.ClearCaches()
	stats = e.CacheStats()
	assert.Zero(t, stats["graphs"].Entries)
	assert.Zero(t, stats["matches"].Entries)
}

func TestSelectStrategyFollowsModelPreference(t *testing.T) {
	dir := t.TempDir()
	cfg := testhelpers.TestConfig(dir)
	cfg.Edit.ModelStrategy = "quality"
	e := New(cfg)

	got := e.SelectStrategy(types.EditAnalysis{Complexity: types.ComplexitySimple}, "a.ts")

	assert.Equal(t, types.ModelBalanced, got.ModelSelection, "quality preference upgrades the simple tier")
}

func TestSelectContextWithLeavesConfigUntouched(t *testing.T) {
	e, dir := fixtureEngine(t)
	before := e.ContextConfig()

	ccfg := before
	ccfg.MaxTokens = 1
	result := e.SelectContextWith(context.Background(), "fix the typo in src/index.ts", dir, ccfg)
	assert.Empty(t, result.SelectedFiles, "nothing fits in a 1-token budget")

	assert.Equal(t, before, e.ContextConfig(), "explicit parameters must not mutate the engine config")

	followUp := e.SelectContext(context.Background(), "fix the typo in src/index.ts", dir)
	assert.NotEmpty(t, followUp.SelectedFiles)
}
