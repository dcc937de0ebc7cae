package classify

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/sce/internal/cache"
	"github.com/standardbeagle/sce/internal/types"
)

// baseStrategy is the per-tier starting point before the preference override.
// MaxTokens and retry aggressiveness scale monotonically with the tier.
var baseStrategies = map[types.Complexity]types.EditStrategy{
	types.ComplexitySimple: {
		ModelSelection:  types.ModelFast,
		MaxTokens:       1000,
		ValidationLevel: types.ValidationBasic,
		RetryPolicy:     types.RetryPolicy{MaxAttempts: 2, BackoffMultiplier: 1.5, InitialDelayMs: 1000},
	},
	types.ComplexityModerate: {
		ModelSelection:  types.ModelBalanced,
		MaxTokens:       2000,
		ValidationLevel: types.ValidationEnhanced,
		RetryPolicy:     types.RetryPolicy{MaxAttempts: 3, BackoffMultiplier: 2.0, InitialDelayMs: 1500},
	},
	types.ComplexityComplex: {
		ModelSelection:  types.ModelPowerful,
		MaxTokens:       4000,
		ValidationLevel: types.ValidationEnhanced,
		RetryPolicy:     types.RetryPolicy{MaxAttempts: 3, BackoffMultiplier: 2.5, InitialDelayMs: 2000},
	},
	types.ComplexityMultiFile: {
		ModelSelection:  types.ModelPowerful,
		MaxTokens:       8000,
		ValidationLevel: types.ValidationStrict,
		RetryPolicy:     types.RetryPolicy{MaxAttempts: 4, BackoffMultiplier: 3.0, InitialDelayMs: 3000},
	},
}

// modelOverrides adjusts the base model pick for the user's preference.
// The override is tier-specific: "fast" at MODERATE still gets a balanced
// model because a fast one would churn retries.
var modelOverrides = map[types.Complexity]map[types.ModelPreference]types.ModelTier{
	types.ComplexitySimple: {
		types.PreferFast:     types.ModelFast,
		types.PreferBalanced: types.ModelFast,
		types.PreferQuality:  types.ModelBalanced,
	},
	types.ComplexityModerate: {
		types.PreferFast:     types.ModelBalanced,
		types.PreferBalanced: types.ModelBalanced,
		types.PreferQuality:  types.ModelPowerful,
	},
	types.ComplexityComplex: {
		types.PreferFast:     types.ModelBalanced,
		types.PreferBalanced: types.ModelPowerful,
		types.PreferQuality:  types.ModelPowerful,
	},
	types.ComplexityMultiFile: {
		types.PreferFast:     types.ModelPowerful,
		types.PreferBalanced: types.ModelPowerful,
		types.PreferQuality:  types.ModelPowerful,
	},
}

// StrategySelector maps an analysis to execution parameters. Pure: the same
// (complexity, preference, extension) triple always yields the same strategy.
type StrategySelector struct {
	strategies *cache.Store
}

// NewStrategySelector wires a selector. A nil cache disables caching.
func NewStrategySelector(strategies *cache.Store) *StrategySelector {
	return &StrategySelector{strategies: strategies}
}

// Select picks the execution strategy for an analysis. Only the complexity
// tier, the preference, and the file extension participate; file content is
// never re-read here.
func (s *StrategySelector) Select(analysis types.EditAnalysis, preference types.ModelPreference, filePath string) types.EditStrategy {
	ext := strings.ToLower(filepath.Ext(filePath))
	key := cache.StrategyKey(analysis.Complexity.String(), string(preference), ext)
	if s.strategies != nil {
		if cached := s.strategies.Get(key); cached != nil {
			return cached.(types.EditStrategy)
		}
	}

	strategy, ok := baseStrategies[analysis.Complexity]
	if !ok {
		strategy = baseStrategies[types.ComplexityModerate]
	}
	if override, ok := modelOverrides[analysis.Complexity][preference]; ok {
		strategy.ModelSelection = override
	}

	if s.strategies != nil {
		s.strategies.Put(key, strategy)
	}
	return strategy
}
