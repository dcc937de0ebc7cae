// Package validate checks proposed edits against a registry of weighted
// rules. Validation always returns a verdict; a misbehaving rule degrades
// to a low-confidence failure instead of aborting the run.
package validate

import (
	"fmt"
	"time"

	"github.com/standardbeagle/sce/internal/debug"
	sceerrors "github.com/standardbeagle/sce/internal/errors"
	"github.com/standardbeagle/sce/internal/types"
)

// RuleResult is one rule's verdict on an edit.
type RuleResult struct {
	Passed     bool
	Issues     []string
	Confidence float64
}

// Rule is a tagged registry entry. MinLevel gates membership (levels are
// strictly additive) and Applies gates by file type; a nil Applies means the
// rule runs for every file.
type Rule struct {
	Name     string
	Weight   float64
	MinLevel types.ValidationLevel
	Applies  func(filePath string) bool
	Check    func(original, edited, filePath string) RuleResult
}

const (
	ruleSyntax    = "syntax"
	ruleStructure = "structure"

	panicConfidence = 0.1
)

// Validator runs the active rule subset and aggregates the results.
type Validator struct {
	rules []Rule
}

// NewValidator builds a validator with the default rule registry.
func NewValidator() *Validator {
	return &Validator{rules: defaultRules()}
}

// Register appends a rule to the registry.
func (v *Validator) Register(rule Rule) {
	v.rules = append(v.rules, rule)
}

// Validate checks editedContent against originalContent at the given level.
// SyntaxValid and StructureIntact report the named rules specifically, not
// an aggregate. Never returns an error and never panics.
func (v *Validator) Validate(originalContent, editedContent, filePath string, level types.ValidationLevel) types.EditValidation {
	start := time.Now()

	syntaxValid := true
	structureIntact := true
	var issues []string
	weightSum := 0.0
	weightedConfidence := 0.0

	for _, rule := range v.rules {
		if rule.MinLevel > level {
			continue
		}
		if rule.Applies != nil && !rule.Applies(filePath) {
			continue
		}

		result := runRule(rule, originalContent, editedContent, filePath)
		issues = append(issues, result.Issues...)
		weightSum += rule.Weight
		weightedConfidence += rule.Weight * result.Confidence

		switch rule.Name {
		case ruleSyntax:
			syntaxValid = result.Passed
		case ruleStructure:
			structureIntact = result.Passed
		}
	}

	confidence := 1.0
	if weightSum > 0 {
		confidence = weightedConfidence / weightSum
	}

	return types.EditValidation{
		SyntaxValid:      syntaxValid,
		StructureIntact:  structureIntact,
		PotentialIssues:  issues,
		Confidence:       confidence,
		ValidationLevel:  level,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}
}

// runRule isolates rule execution so one faulty rule cannot abort the run.
func runRule(rule Rule, original, edited, filePath string) (result RuleResult) {
	defer func() {
		if r := recover(); r != nil {
			rerr := sceerrors.NewRuleError(rule.Name, filePath, fmt.Errorf("panic: %v", r))
			debug.LogValidate("%v\n", rerr)
			result = RuleResult{
				Passed:     false,
				Issues:     []string{rerr.Error()},
				Confidence: panicConfidence,
			}
		}
	}()
	return rule.Check(original, edited, filePath)
}
