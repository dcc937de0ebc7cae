// Package types defines the shared data model for the smart context engine.
//
// Architecture Pattern:
// All cross-package result types live here so that graph, semantic, optimizer,
// classify and validate can exchange values without import cycles. Types are
// immutable snapshots: producers build them once and consumers never mutate.
package types

import "time"

// FileNode is an immutable snapshot of one scanned file.
type FileNode struct {
	Path         string    `json:"path"`          // project-relative path, unique identity
	Imports      []string  `json:"imports"`       // raw import targets in source order
	Exports      []string  `json:"exports"`       // declared export symbols in source order
	Size         int64     `json:"size"`          // byte size at scan time
	LastModified time.Time `json:"last_modified"` // mtime at scan time
}

// MatchType tags the highest-priority signal that fired for a semantic match.
// direct > semantic > structural.
type MatchType string

const (
	MatchDirect     MatchType = "direct"
	MatchSemantic   MatchType = "semantic"
	MatchStructural MatchType = "structural"
)

// Priority returns the ordering rank of a match type (higher wins).
func (m MatchType) Priority() int {
	switch m {
	case MatchDirect:
		return 3
	case MatchSemantic:
		return 2
	case MatchStructural:
		return 1
	}
	return 0
}

// EntityExtraction holds the deduplicated token sets pulled from a prompt.
// Categories may overlap: a token can be both an entity and a keyword.
type EntityExtraction struct {
	Entities  []string `json:"entities"`   // identifier-like tokens
	Keywords  []string `json:"keywords"`   // content words after stoplist filtering
	FileTypes []string `json:"file_types"` // extension hints ("ts", "go", ...)
	Concepts  []string `json:"concepts"`   // technical concepts and action verbs
}

// SemanticMatch scores one file's relevance to a prompt.
type SemanticMatch struct {
	FilePath          string    `json:"file_path"`
	RelevanceScore    float64   `json:"relevance_score"`    // additive, capped at 10
	MatchedEntities   []string  `json:"matched_entities"`   // deduplicated
	ContextImportance float64   `json:"context_importance"` // [0,1]
	MatchType         MatchType `json:"match_type"`
}

// Sensitivity controls the semantic score threshold for seeding context.
type Sensitivity string

const (
	SensitivityConservative Sensitivity = "conservative"
	SensitivityBalanced     Sensitivity = "balanced"
	SensitivityAggressive   Sensitivity = "aggressive"
)

// Threshold returns the minimum relevance score a file needs to seed the
// candidate set. Lower threshold admits more files.
func (s Sensitivity) Threshold() float64 {
	switch s {
	case SensitivityConservative:
		return 0.8
	case SensitivityAggressive:
		return 0.4
	default:
		return 0.6
	}
}

// ContextConfig configures one context selection request.
type ContextConfig struct {
	Sensitivity     Sensitivity `json:"sensitivity"`
	MaxTokens       int         `json:"max_tokens"`
	DependencyDepth int         `json:"dependency_depth"`
}

// ContextOptimization is the result of token-budgeted file selection.
type ContextOptimization struct {
	SelectedFiles  []string `json:"selected_files"` // selection order, not relevance order
	TotalTokens    int      `json:"total_tokens"`
	RelevanceRatio float64  `json:"relevance_ratio"` // achieved / maximum possible, 0 if no candidates
}

// Complexity is the ordinal difficulty tier of an edit request.
type Complexity int

const (
	ComplexitySimple Complexity = iota
	ComplexityModerate
	ComplexityComplex
	ComplexityMultiFile
)

// String returns the wire name of the tier.
func (c Complexity) String() string {
	switch c {
	case ComplexitySimple:
		return "SIMPLE"
	case ComplexityModerate:
		return "MODERATE"
	case ComplexityComplex:
		return "COMPLEX"
	case ComplexityMultiFile:
		return "MULTI_FILE"
	}
	return "UNKNOWN"
}

// ModelTier selects which model class an edit should be sent to.
type ModelTier string

const (
	ModelFast     ModelTier = "fast"
	ModelBalanced ModelTier = "balanced"
	ModelPowerful ModelTier = "powerful"
)

// ModelPreference is the user's stated speed/quality preference.
type ModelPreference string

const (
	PreferFast     ModelPreference = "fast"
	PreferBalanced ModelPreference = "balanced"
	PreferQuality  ModelPreference = "quality"
)

// ValidationLevel is the ordinal strictness for edit validation.
// Rule membership is strictly additive: enhanced runs everything basic runs,
// strict runs everything enhanced runs.
type ValidationLevel int

const (
	ValidationBasic ValidationLevel = iota
	ValidationEnhanced
	ValidationStrict
)

// String returns the wire name of the level.
func (v ValidationLevel) String() string {
	switch v {
	case ValidationEnhanced:
		return "enhanced"
	case ValidationStrict:
		return "strict"
	}
	return "basic"
}

// RetryPolicy controls re-attempts after a failed edit generation.
type RetryPolicy struct {
	MaxAttempts       int     `json:"max_attempts"`
	BackoffMultiplier float64 `json:"backoff_multiplier"`
	InitialDelayMs    int     `json:"initial_delay_ms"`
}

// EditStrategy bundles the execution parameters chosen for an edit.
type EditStrategy struct {
	ModelSelection  ModelTier       `json:"model_selection"`
	MaxTokens       int             `json:"max_tokens"`
	ValidationLevel ValidationLevel `json:"validation_level"`
	RetryPolicy     RetryPolicy     `json:"retry_policy"`
}

// EditAnalysis is the classifier's verdict on one edit request.
type EditAnalysis struct {
	Complexity        Complexity   `json:"complexity"`
	Confidence        float64      `json:"confidence"` // [0.1, 1.0]
	EstimatedTokens   int          `json:"estimated_tokens"`
	Reasoning         []string     `json:"reasoning"` // human-readable evidence, in discovery order
	SuggestedStrategy EditStrategy `json:"suggested_strategy"`
}

// EditValidation is the validator's verdict on a proposed edit.
type EditValidation struct {
	SyntaxValid      bool            `json:"syntax_valid"`     // the syntax rule passed
	StructureIntact  bool            `json:"structure_intact"` // the structure rule passed
	PotentialIssues  []string        `json:"potential_issues"` // findings from all rules, not just failing ones
	Confidence       float64         `json:"confidence"`       // weight-normalized average of rule confidences
	ValidationLevel  ValidationLevel `json:"validation_level"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

// OptimizedEdit is the prompt package handed to the text-generation layer.
type OptimizedEdit struct {
	Strategy             EditStrategy `json:"strategy"`
	OptimizedPrompt      string       `json:"optimized_prompt"`
	ExpectedOutputFormat string       `json:"expected_output_format"`
	ValidationRules      []string     `json:"validation_rules"`
	ProcessingHints      []string     `json:"processing_hints"`
}
