// Package classify estimates edit complexity and picks execution strategies.
package classify

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/standardbeagle/sce/internal/cache"
	"github.com/standardbeagle/sce/internal/debug"
	"github.com/standardbeagle/sce/internal/types"
)

// Baseline verdict before any evidence is collected.
const (
	baseConfidence = 0.8
	baseTokens     = 1000

	minConfidence = 0.1
	maxConfidence = 1.0

	largeFileBytes      = 50 * 1024
	longFileLines       = 1000
	longPromptChars     = 500
	minEvidencePieces   = 2
	lowEvidencePenalty  = 0.2
	structuralRefsLimit = 2
)

// complexityTier binds a keyword group to the tier it escalates to.
// Tiers are checked lowest first; escalation is monotonic upward, so a
// later low-tier match never downgrades an earlier high-tier one.
type complexityTier struct {
	level      types.Complexity
	keywords   []string
	tokens     int
	confidence float64
}

var tiers = []complexityTier{
	{
		level:      types.ComplexitySimple,
		keywords:   []string{"typo", "rename", "spelling", "comment", "format", "whitespace", "spacing"},
		tokens:     500,
		confidence: 0.9,
	},
	{
		level:      types.ComplexityModerate,
		keywords:   []string{"refactor", "implement", "add", "update", "modify", "change", "extend", "fix bug"},
		tokens:     2000,
		confidence: 0.7,
	},
	{
		level:      types.ComplexityComplex,
		keywords:   []string{"architecture", "redesign", "restructure", "optimize", "migrate", "async", "concurrency", "algorithm", "performance"},
		tokens:     4000,
		confidence: 0.6,
	},
	{
		level:      types.ComplexityMultiFile,
		keywords:   []string{"across files", "multiple files", "entire", "all files", "whole project", "codebase", "throughout"},
		tokens:     8000,
		confidence: 0.5,
	},
}

// complexExtensions are file types whose edits tend to be harder than their
// size suggests.
var complexExtensions = map[string]bool{
	".tsx": true,
	".jsx": true,
	".vue": true,
	".rs":  true,
	".cpp": true,
	".cc":  true,
	".hpp": true,
	".sql": true,
}

var structuralRefPattern = regexp.MustCompile(`\b(class|interface|function|func|import|export|struct|trait)\b`)

// Classifier estimates how hard an edit request is.
type Classifier struct {
	selector *StrategySelector
	analyses *cache.Store
}

// NewClassifier wires a classifier. A nil cache disables caching.
func NewClassifier(selector *StrategySelector, analyses *cache.Store) *Classifier {
	return &Classifier{selector: selector, analyses: analyses}
}

// EstimateComplexity classifies one edit request. The verdict starts at
// SIMPLE and only escalates as evidence accumulates. Pure given its inputs,
// so results are cached by (prompt, filePath, content length).
func (c *Classifier) EstimateComplexity(prompt, filePath, fileContent string, preference types.ModelPreference) types.EditAnalysis {
	key := cache.AnalysisKey(prompt, filePath, len(fileContent))
	if c.analyses != nil {
		if cached := c.analyses.Get(key); cached != nil {
			return cached.(types.EditAnalysis)
		}
	}

	analysis := c.classify(prompt, filePath, fileContent)
	analysis.SuggestedStrategy = c.selector.Select(analysis, preference, filePath)

	if c.analyses != nil {
		c.analyses.Put(key, analysis)
	}
	return analysis
}

func (c *Classifier) classify(prompt, filePath, fileContent string) types.EditAnalysis {
	promptLower := strings.ToLower(prompt)

	complexity := types.ComplexitySimple
	confidence := baseConfidence
	tokens := baseTokens
	var reasoning []string
	evidence := 0

	// Keyword tiers, lowest first. Escalation only ever raises the tier.
	for _, tier := range tiers {
		matched := matchedKeywords(promptLower, tier.keywords)
		if len(matched) == 0 {
			continue
		}
		evidence++
		reasoning = append(reasoning, fmt.Sprintf("%s keywords: %s", tier.level, strings.Join(matched, ", ")))
		if tier.level >= complexity {
			complexity = tier.level
			confidence = tier.confidence
			tokens = tier.tokens
		}
	}

	// Independent escalators
	if len(fileContent) > largeFileBytes {
		complexity = escalate(complexity, types.ComplexityModerate)
		confidence -= 0.1
		tokens += len(fileContent) / (types.TokenCharRatio * 4)
		evidence++
		reasoning = append(reasoning, fmt.Sprintf("large file (%d bytes)", len(fileContent)))
	}
	if lines := strings.Count(fileContent, "\n"); lines > longFileLines {
		complexity = escalate(complexity, types.ComplexityModerate)
		confidence -= 0.1
		evidence++
		reasoning = append(reasoning, fmt.Sprintf("long file (%d lines)", lines))
	}
	if ext := strings.ToLower(extOf(filePath)); complexExtensions[ext] {
		complexity = escalate(complexity, types.ComplexityModerate)
		evidence++
		reasoning = append(reasoning, "complex file type "+ext)
	}
	if refs := structuralRefPattern.FindAllString(promptLower, -1); len(refs) > structuralRefsLimit {
		complexity = escalate(complexity, types.ComplexityComplex)
		confidence -= 0.1
		evidence++
		reasoning = append(reasoning, fmt.Sprintf("%d structural references in prompt", len(refs)))
	}
	if len(prompt) > longPromptChars {
		complexity = escalate(complexity, types.ComplexityModerate)
		tokens += len(prompt) / types.TokenCharRatio
		evidence++
		reasoning = append(reasoning, fmt.Sprintf("long prompt (%d chars)", len(prompt)))
	}

	if evidence < minEvidencePieces {
		confidence -= lowEvidencePenalty
		reasoning = append(reasoning, "limited evidence, reduced confidence")
	}
	confidence = clamp(confidence, minConfidence, maxConfidence)

	debug.Log("classify", "%s confidence=%.2f tokens=%d for %s\n", complexity, confidence, tokens, filePath)

	return types.EditAnalysis{
		Complexity:      complexity,
		Confidence:      confidence,
		EstimatedTokens: tokens,
		Reasoning:       reasoning,
	}
}

func matchedKeywords(promptLower string, keywords []string) []string {
	var matched []string
	for _, kw := range keywords {
		if strings.Contains(promptLower, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func escalate(current, floor types.Complexity) types.Complexity {
	if floor > current {
		return floor
	}
	return current
}

func extOf(filePath string) string {
	if i := strings.LastIndex(filePath, "."); i >= 0 {
		return filePath[i:]
	}
	return ""
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
