package engine

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/sce/internal/types"
)

// OptimizeEdit packages an edit request for the text-generation layer:
// classify the request, pick a strategy, and render a prompt with
// tier-appropriate instructions and validation expectations.
func (e *Engine) OptimizeEdit(prompt, filePath string) types.OptimizedEdit {
	analysis := e.EstimateComplexity(prompt, filePath)
	strategy := analysis.SuggestedStrategy

	return types.OptimizedEdit{
		Strategy:             strategy,
		OptimizedPrompt:      renderPrompt(prompt, filePath, analysis),
		ExpectedOutputFormat: outputFormatFor(analysis.Complexity),
		ValidationRules:      validationRulesFor(strategy.ValidationLevel, filePath),
		ProcessingHints:      processingHintsFor(analysis),
	}
}

func renderPrompt(prompt, filePath string, analysis types.EditAnalysis) string {
	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\n")
	if filePath != "" {
		fmt.Fprintf(&b, "Target file: %s\n", filePath)
	}
	fmt.Fprintf(&b, "Edit complexity: %s (confidence %.0f%%)\n", analysis.Complexity, analysis.Confidence*100)

	switch analysis.Complexity {
	case types.ComplexitySimple:
		b.WriteString("Make the minimal change required. Do not restructure surrounding code.\n")
	case types.ComplexityModerate:
		b.WriteString("Keep the existing structure and naming. Preserve all imports and exports.\n")
	case types.ComplexityComplex:
		b.WriteString("Plan the change before editing. Preserve public interfaces and explain non-obvious decisions in comments.\n")
	case types.ComplexityMultiFile:
		b.WriteString("This change spans multiple files. List every affected file first, then produce each edit separately.\n")
	}
	return b.String()
}

func outputFormatFor(complexity types.Complexity) string {
	if complexity >= types.ComplexityMultiFile {
		return "per-file unified diff blocks"
	}
	return "complete file content"
}

func validationRulesFor(level types.ValidationLevel, filePath string) []string {
	rules := []string{"syntax", "structure", "length"}
	if level >= types.ValidationEnhanced {
		rules = append(rules, "imports", "style")
		ext := strings.ToLower(filePath)
		if strings.HasSuffix(ext, ".ts") || strings.HasSuffix(ext, ".tsx") {
			rules = append(rules, "typescript")
		}
		if strings.HasSuffix(ext, ".js") || strings.HasSuffix(ext, ".jsx") {
			rules = append(rules, "javascript")
		}
	}
	if level >= types.ValidationStrict {
		rules = append(rules, "security", "performance")
	}
	return rules
}

func processingHintsFor(analysis types.EditAnalysis) []string {
	hints := make([]string, 0, len(analysis.Reasoning)+2)
	hints = append(hints, analysis.Reasoning...)
	hints = append(hints, fmt.Sprintf("estimated output budget: %d tokens", analysis.EstimatedTokens))
	if analysis.Confidence < 0.5 {
		hints = append(hints, "low classification confidence, prefer conservative edits")
	}
	return hints
}
