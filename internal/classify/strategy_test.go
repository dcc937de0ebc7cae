package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/sce/internal/cache"
	"github.com/standardbeagle/sce/internal/types"
)

func analysisFor(c types.Complexity) types.EditAnalysis {
	return types.EditAnalysis{Complexity: c, Confidence: 0.7}
}

func TestSelectBaseStrategyPerTier(t *testing.T) {
	s := NewStrategySelector(nil)

	cases := []struct {
		complexity types.Complexity
		model      types.ModelTier
		maxTokens  int
		validation types.ValidationLevel
		attempts   int
	}{
		{types.ComplexitySimple, types.ModelFast, 1000, types.ValidationBasic, 2},
		{types.ComplexityModerate, types.ModelBalanced, 2000, types.ValidationEnhanced, 3},
		{types.ComplexityComplex, types.ModelPowerful, 4000, types.ValidationEnhanced, 3},
		{types.ComplexityMultiFile, types.ModelPowerful, 8000, types.ValidationStrict, 4},
	}
	for _, tc := range cases {
		got := s.Select(analysisFor(tc.complexity), types.PreferBalanced, "src/a.ts")
		assert.Equal(t, tc.model, got.ModelSelection, tc.complexity)
		assert.Equal(t, tc.maxTokens, got.MaxTokens, tc.complexity)
		assert.Equal(t, tc.validation, got.ValidationLevel, tc.complexity)
		assert.Equal(t, tc.attempts, got.RetryPolicy.MaxAttempts, tc.complexity)
	}
}

func TestSelectPreferenceOverrides(t *testing.T) {
	s := NewStrategySelector(nil)

	// A fast preference never drops below the tier's floor
	got := s.Select(analysisFor(types.ComplexityModerate), types.PreferFast, "a.ts")
	assert.Equal(t, types.ModelBalanced, got.ModelSelection)

	got = s.Select(analysisFor(types.ComplexityMultiFile), types.PreferFast, "a.ts")
	assert.Equal(t, types.ModelPowerful, got.ModelSelection)

	// A quality preference upgrades low tiers
	got = s.Select(analysisFor(types.ComplexitySimple), types.PreferQuality, "a.ts")
	assert.Equal(t, types.ModelBalanced, got.ModelSelection)

	got = s.Select(analysisFor(types.ComplexityComplex), types.PreferQuality, "a.ts")
	assert.Equal(t, types.ModelPowerful, got.ModelSelection)
}

func TestSelectUnknownPreferenceKeepsBase(t *testing.T) {
	s := NewStrategySelector(nil)

	got := s.Select(analysisFor(types.ComplexityModerate), types.ModelPreference("turbo"), "a.ts")
	assert.Equal(t, types.ModelBalanced, got.ModelSelection)
}

func TestSelectUnknownTierFallsBackToModerate(t *testing.T) {
	s := NewStrategySelector(nil)

	got := s.Select(analysisFor(types.Complexity(99)), types.PreferBalanced, "a.ts")
	assert.Equal(t, 2000, got.MaxTokens)
	assert.Equal(t, types.ValidationEnhanced, got.ValidationLevel)
}

func TestSelectScalesMonotonicallyWithTier(t *testing.T) {
	s := NewStrategySelector(nil)

	tiers := []types.Complexity{
		types.ComplexitySimple,
		types.ComplexityModerate,
		types.ComplexityComplex,
		types.ComplexityMultiFile,
	}
	var prev types.EditStrategy
	for i, tier := range tiers {
		got := s.Select(analysisFor(tier), types.PreferBalanced, "a.ts")
		if i > 0 {
			assert.GreaterOrEqual(t, got.MaxTokens, prev.MaxTokens, tier)
			assert.GreaterOrEqual(t, got.ValidationLevel, prev.ValidationLevel, tier)
			assert.GreaterOrEqual(t, got.RetryPolicy.MaxAttempts, prev.RetryPolicy.MaxAttempts, tier)
			assert.GreaterOrEqual(t, got.RetryPolicy.BackoffMultiplier, prev.RetryPolicy.BackoffMultiplier, tier)
			assert.GreaterOrEqual(t, got.RetryPolicy.InitialDelayMs, prev.RetryPolicy.InitialDelayMs, tier)
		}
		prev = got
	}
}

func TestSelectCachesByExtension(t *testing.T) {
	strategies := cache.NewStore(cache.DefaultConfig())
	s := NewStrategySelector(strategies)

	first := s.Select(analysisFor(types.ComplexitySimple), types.PreferBalanced, "src/a.ts")
	second := s.Select(analysisFor(types.ComplexitySimple), types.PreferBalanced, "lib/b.ts")

	assert.Equal(t, first, second, "same extension shares a cache entry")
	stats := strategies.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}
