package validate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/sce/internal/types"
)

func defaultRules() []Rule {
	return []Rule{
		{Name: ruleSyntax, Weight: 1.0, MinLevel: types.ValidationBasic, Check: checkSyntax},
		{Name: ruleStructure, Weight: 1.0, MinLevel: types.ValidationBasic, Check: checkStructure},
		{Name: "length", Weight: 0.5, MinLevel: types.ValidationBasic, Check: checkLength},
		{Name: "imports", Weight: 0.7, MinLevel: types.ValidationEnhanced, Check: checkImports},
		{Name: "style", Weight: 0.3, MinLevel: types.ValidationEnhanced, Check: checkStyle},
		{Name: "typescript", Weight: 0.5, MinLevel: types.ValidationEnhanced, Applies: hasExt(".ts", ".tsx"), Check: checkTypeScript},
		{Name: "javascript", Weight: 0.5, MinLevel: types.ValidationEnhanced, Applies: hasExt(".js", ".jsx", ".mjs", ".cjs"), Check: checkJavaScript},
		{Name: "security", Weight: 1.0, MinLevel: types.ValidationStrict, Check: checkSecurity},
		{Name: "performance", Weight: 0.4, MinLevel: types.ValidationStrict, Check: checkPerformance},
		{Name: "accessibility", Weight: 0.3, MinLevel: types.ValidationStrict, Applies: hasExt(".tsx", ".jsx", ".html"), Check: checkAccessibility},
	}
}

func hasExt(exts ...string) func(string) bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		set[e] = true
	}
	return func(filePath string) bool {
		return set[strings.ToLower(filepath.Ext(filePath))]
	}
}

// checkSyntax catches gross lexical breakage: per-line double-quote
// imbalance and embedded null bytes. Deliberately coarse; it is not a
// parser. Single quotes are skipped because apostrophes in comments make
// them too noisy to count.
func checkSyntax(_, edited, _ string) RuleResult {
	var issues []string
	if strings.ContainsRune(edited, '\x00') {
		issues = append(issues, "edited content contains null bytes")
	}
	for i, line := range strings.Split(edited, "\n") {
		if countUnescaped(line, '"')%2 != 0 {
			issues = append(issues, fmt.Sprintf("unbalanced double quotes on line %d", i+1))
		}
	}
	if countUnescaped(edited, '`')%2 != 0 {
		issues = append(issues, "unbalanced backtick quotes")
	}
	return RuleResult{Passed: len(issues) == 0, Issues: issues, Confidence: confidenceFor(issues, 0.7)}
}

var bracePairs = []struct {
	open, close byte
	name        string
}{
	{'{', '}', "braces"},
	{'(', ')', "parentheses"},
	{'[', ']', "brackets"},
}

// checkStructure enforces brace/paren/bracket balance and flags a >10%
// relative shift in brace counts versus the original as a regression signal.
// Only the balance itself fails the rule.
func checkStructure(original, edited, _ string) RuleResult {
	var issues []string
	balanced := true
	for _, pair := range bracePairs {
		open := strings.Count(edited, string(pair.open))
		closed := strings.Count(edited, string(pair.close))
		if open != closed {
			balanced = false
			issues = append(issues, fmt.Sprintf("unbalanced %s: %d open vs %d close", pair.name, open, closed))
		}
	}

	origOpen := strings.Count(original, "{")
	editOpen := strings.Count(edited, "{")
	if origOpen > 0 && relativeChange(origOpen, editOpen) > 0.10 {
		issues = append(issues, fmt.Sprintf("brace count changed by more than 10%% (%d to %d)", origOpen, editOpen))
	}

	confidence := 1.0
	if !balanced {
		confidence = 0.5
	} else if len(issues) > 0 {
		confidence = 0.8
	}
	return RuleResult{Passed: balanced, Issues: issues, Confidence: confidence}
}

// checkLength guards against truncated or runaway generations.
func checkLength(original, edited, _ string) RuleResult {
	if edited == "" && original != "" {
		return RuleResult{Passed: false, Issues: []string{"edited content is empty"}, Confidence: 0.3}
	}
	var issues []string
	if original != "" {
		ratio := float64(len(edited)) / float64(len(original))
		if ratio > 3.0 {
			issues = append(issues, fmt.Sprintf("edited content grew %.1fx, possible runaway generation", ratio))
		} else if ratio < 1.0/3.0 {
			issues = append(issues, fmt.Sprintf("edited content shrank to %.0f%%, possible truncation", ratio*100))
		}
	}
	return RuleResult{Passed: true, Issues: issues, Confidence: confidenceFor(issues, 0.7)}
}

// checkImports flags imports the edit dropped. Dropping over half of them
// fails the rule; smaller drops are warnings.
func checkImports(original, edited, _ string) RuleResult {
	origImports := importLines(original)
	if len(origImports) == 0 {
		return RuleResult{Passed: true, Confidence: 1.0}
	}
	editedSet := make(map[string]bool)
	for _, line := range importLines(edited) {
		editedSet[line] = true
	}
	var removed []string
	for _, line := range origImports {
		if !editedSet[line] {
			removed = append(removed, line)
		}
	}
	if len(removed) == 0 {
		return RuleResult{Passed: true, Confidence: 1.0}
	}
	issues := make([]string, 0, len(removed))
	for _, line := range removed {
		issues = append(issues, "import removed: "+line)
	}
	passed := len(removed)*2 <= len(origImports)
	confidence := 0.8
	if !passed {
		confidence = 0.4
	}
	return RuleResult{Passed: passed, Issues: issues, Confidence: confidence}
}

var importPrefixes = []string{"import ", "from ", "require(", "const ", "use ", "#include ", "using "}

func importLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		for _, prefix := range importPrefixes {
			if strings.HasPrefix(trimmed, prefix) && looksLikeImport(trimmed) {
				lines = append(lines, trimmed)
				break
			}
		}
	}
	return lines
}

func looksLikeImport(line string) bool {
	return strings.Contains(line, "import") ||
		strings.Contains(line, "require") ||
		strings.Contains(line, "include") ||
		strings.HasPrefix(line, "use ") ||
		strings.HasPrefix(line, "using ")
}

// checkStyle reports style regressions the edit introduced. Advisory only.
func checkStyle(original, edited, _ string) RuleResult {
	var issues []string
	if !strings.Contains(original, "\t") && strings.Contains(edited, "\t") {
		issues = append(issues, "tab indentation introduced into a space-indented file")
	}
	if n := longLines(edited) - longLines(original); n > 0 {
		issues = append(issues, fmt.Sprintf("%d lines over 200 characters introduced", n))
	}
	if n := trailingWhitespaceLines(edited) - trailingWhitespaceLines(original); n > 0 {
		issues = append(issues, fmt.Sprintf("%d lines with trailing whitespace introduced", n))
	}
	return RuleResult{Passed: true, Issues: issues, Confidence: confidenceFor(issues, 0.9)}
}

func longLines(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if len(line) > 200 {
			n++
		}
	}
	return n
}

func trailingWhitespaceLines(content string) int {
	n := 0
	for _, line := range strings.Split(content, "\n") {
		if line != strings.TrimRight(line, " \t") {
			n++
		}
	}
	return n
}

func checkTypeScript(original, edited, _ string) RuleResult {
	var issues []string
	if d := strings.Count(edited, "as any") - strings.Count(original, "as any"); d > 0 {
		issues = append(issues, fmt.Sprintf("%d new 'as any' casts", d))
	}
	if d := strings.Count(edited, "@ts-ignore") - strings.Count(original, "@ts-ignore"); d > 0 {
		issues = append(issues, fmt.Sprintf("%d new @ts-ignore directives", d))
	}
	return RuleResult{Passed: true, Issues: issues, Confidence: confidenceFor(issues, 0.8)}
}

func checkJavaScript(original, edited, _ string) RuleResult {
	var issues []string
	if d := strings.Count(edited, "var ") - strings.Count(original, "var "); d > 0 {
		issues = append(issues, fmt.Sprintf("%d new 'var' declarations", d))
	}
	if d := looseEquality(edited) - looseEquality(original); d > 0 {
		issues = append(issues, fmt.Sprintf("%d new loose equality comparisons", d))
	}
	if d := strings.Count(edited, "console.log") - strings.Count(original, "console.log"); d > 0 {
		issues = append(issues, fmt.Sprintf("%d new console.log calls", d))
	}
	return RuleResult{Passed: true, Issues: issues, Confidence: confidenceFor(issues, 0.8)}
}

// looseEquality counts == and != comparisons after stripping their strict
// variants, so === and !== are not misattributed.
func looseEquality(content string) int {
	cleaned := strings.ReplaceAll(content, "===", " ")
	cleaned = strings.ReplaceAll(cleaned, "!==", " ")
	cleaned = strings.ReplaceAll(cleaned, "<=", " ")
	cleaned = strings.ReplaceAll(cleaned, ">=", " ")
	return strings.Count(cleaned, "==") + strings.Count(cleaned, "!=")
}

var dangerousPatterns = []string{"eval(", "innerHTML =", "dangerouslySetInnerHTML", "child_process.exec", "os.system(", "subprocess.call("}

// checkSecurity fails when the edit introduces a known-dangerous construct.
func checkSecurity(original, edited, _ string) RuleResult {
	var issues []string
	for _, pattern := range dangerousPatterns {
		if strings.Count(edited, pattern) > strings.Count(original, pattern) {
			issues = append(issues, "dangerous pattern introduced: "+pattern)
		}
	}
	confidence := 1.0
	if len(issues) > 0 {
		confidence = 0.3
	}
	return RuleResult{Passed: len(issues) == 0, Issues: issues, Confidence: confidence}
}

var slowPatterns = []string{"JSON.parse(JSON.stringify", "readFileSync", "writeFileSync", ".forEach(async"}

func checkPerformance(original, edited, _ string) RuleResult {
	var issues []string
	for _, pattern := range slowPatterns {
		if strings.Count(edited, pattern) > strings.Count(original, pattern) {
			issues = append(issues, "slow pattern introduced: "+pattern)
		}
	}
	return RuleResult{Passed: true, Issues: issues, Confidence: confidenceFor(issues, 0.8)}
}

func checkAccessibility(original, edited, _ string) RuleResult {
	var issues []string
	if imagesWithoutAlt(edited) > imagesWithoutAlt(original) {
		issues = append(issues, "img element without alt attribute introduced")
	}
	return RuleResult{Passed: true, Issues: issues, Confidence: confidenceFor(issues, 0.9)}
}

func imagesWithoutAlt(content string) int {
	n := 0
	rest := content
	for {
		i := strings.Index(rest, "<img")
		if i < 0 {
			return n
		}
		rest = rest[i+4:]
		end := strings.IndexByte(rest, '>')
		tag := rest
		if end >= 0 {
			tag = rest[:end]
		}
		if !strings.Contains(tag, "alt=") {
			n++
		}
	}
}

// countUnescaped counts occurrences of ch not preceded by a backslash.
func countUnescaped(content string, ch byte) int {
	n := 0
	for i := 0; i < len(content); i++ {
		if content[i] == ch && (i == 0 || content[i-1] != '\\') {
			n++
		}
	}
	return n
}

func relativeChange(before, after int) float64 {
	if before == 0 {
		return 0
	}
	diff := after - before
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(before)
}

func confidenceFor(issues []string, withIssues float64) float64 {
	if len(issues) == 0 {
		return 1.0
	}
	return withIssues
}
