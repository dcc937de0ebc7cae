package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/sce/internal/types"
)

const cleanSource = `import { helper } from './util';

export function greet(name: string) {
	return "hello " + name;
}
`

func TestValidateIdenticalContentIsClean(t *testing.T) {
	v := NewValidator()

	for _, level := range []types.ValidationLevel{types.ValidationBasic, types.ValidationEnhanced, types.ValidationStrict} {
		got := v.Validate(cleanSource, cleanSource, "src/greet.ts", level)
		assert.True(t, got.SyntaxValid, level)
		assert.True(t, got.StructureIntact, level)
		assert.Empty(t, got.PotentialIssues, level)
		assert.Equal(t, 1.0, got.Confidence, level)
		assert.Equal(t, level, got.ValidationLevel)
	}
}

func TestValidateUnbalancedBraceFailsEveryLevel(t *testing.T) {
	v := NewValidator()
	edited := strings.Replace(cleanSource, "}\n", "\n", 1)

	for _, level := range []types.ValidationLevel{types.ValidationBasic, types.ValidationEnhanced, types.ValidationStrict} {
		got := v.Validate(cleanSource, edited, "src/greet.ts", level)
		assert.False(t, got.StructureIntact, level)
		assert.True(t, got.SyntaxValid, level)
		assert.Contains(t, strings.Join(got.PotentialIssues, "; "), "unbalanced braces: 2 open vs 1 close")
		assert.Less(t, got.Confidence, 1.0, level)
	}
}

func TestValidateUnbalancedQuotesFailSyntax(t *testing.T) {
	v := NewValidator()
	edited := "const s = \"unterminated;\n"

	got := v.Validate("const s = \"done\";\n", edited, "a.ts", types.ValidationBasic)

	assert.False(t, got.SyntaxValid)
	assert.Contains(t, strings.Join(got.PotentialIssues, "; "), "unbalanced double quotes on line 1")
}

func TestValidateApostrophesDoNotTripSyntax(t *testing.T) {
	v := NewValidator()
	content := "// don't touch this\nconst x = 1;\n"

	got := v.Validate(content, content, "a.ts", types.ValidationBasic)

	assert.True(t, got.SyntaxValid)
	assert.Empty(t, got.PotentialIssues)
}

func TestValidateEmptyEditedContent(t *testing.T) {
	v := NewValidator()

	got := v.Validate(cleanSource, "", "a.ts", types.ValidationBasic)

	// The length rule fails; syntax and structure trivially pass on empty input
	assert.Contains(t, strings.Join(got.PotentialIssues, "; "), "edited content is empty")
	assert.Less(t, got.Confidence, 1.0)
}

func TestValidateLevelsAreAdditive(t *testing.T) {
	v := NewValidator()
	// Clean at basic, but drops an import and adds an any-cast at enhanced
	edited := "export function greet(name: string) {\n\treturn (\"hello \" + name) as any;\n}\n"

	basic := v.Validate(cleanSource, edited, "src/greet.ts", types.ValidationBasic)
	enhanced := v.Validate(cleanSource, edited, "src/greet.ts", types.ValidationEnhanced)

	joinedBasic := strings.Join(basic.PotentialIssues, "; ")
	assert.NotContains(t, joinedBasic, "import removed")
	assert.NotContains(t, joinedBasic, "as any")

	joinedEnhanced := strings.Join(enhanced.PotentialIssues, "; ")
	assert.Contains(t, joinedEnhanced, "import removed: import { helper } from './util';")
	assert.Contains(t, joinedEnhanced, "as any")
}

func TestValidateFileTypeGating(t *testing.T) {
	v := NewValidator()
	original := "let ok = true;\n"
	edited := "var ok = true;\nconsole.log(ok);\n"

	js := v.Validate(original, edited, "src/a.js", types.ValidationEnhanced)
	assert.Contains(t, strings.Join(js.PotentialIssues, "; "), "var")

	goFile := v.Validate(original, edited, "src/a.go", types.ValidationEnhanced)
	assert.NotContains(t, strings.Join(goFile.PotentialIssues, "; "), "console.log")
}

func TestValidateSecurityRuleOnlyAtStrict(t *testing.T) {
	v := NewValidator()
	original := "function run(cmd) { allow(cmd); }\n"
	edited := "function run(cmd) { eval(cmd); }\n"

	enhanced := v.Validate(original, edited, "a.js", types.ValidationEnhanced)
	assert.NotContains(t, strings.Join(enhanced.PotentialIssues, "; "), "dangerous pattern")

	strict := v.Validate(original, edited, "a.js", types.ValidationStrict)
	assert.Contains(t, strings.Join(strict.PotentialIssues, "; "), "dangerous pattern introduced: eval(")
	assert.Less(t, strict.Confidence, enhanced.Confidence)
}

func TestValidatePanickingRuleDegrades(t *testing.T) {
	v := NewValidator()
	v.Register(Rule{
		Name:     "explosive",
		Weight:   1.0,
		MinLevel: types.ValidationBasic,
		Check: func(_, _, _ string) RuleResult {
			panic("boom")
		},
	})

	got := v.Validate(cleanSource, cleanSource, "a.ts", types.ValidationBasic)

	issues := strings.Join(got.PotentialIssues, "; ")
	assert.Contains(t, issues, "validation rule explosive failed for a.ts")
	assert.Contains(t, issues, "panic: boom")
	assert.Less(t, got.Confidence, 1.0, "panicking rule contributes 0.1 confidence")
	assert.True(t, got.SyntaxValid, "other rules still ran")
}

func TestValidateBraceCountShiftWarnsWithoutFailing(t *testing.T) {
	v := NewValidator()
	original := strings.Repeat("if (a) { b(); }\n", 20)
	edited := strings.Repeat("if (a) { b(); }\n", 15)

	got := v.Validate(original, edited, "a.ts", types.ValidationBasic)

	assert.True(t, got.StructureIntact, "balanced content passes even when counts shift")
	assert.Contains(t, strings.Join(got.PotentialIssues, "; "), "brace count changed by more than 10%")
}

func TestValidateAccessibilityRule(t *testing.T) {
	v := NewValidator()
	original := "export const Logo = () => <img src=\"logo.png\" alt=\"logo\" />;\n"
	edited := "export const Logo = () => <img src=\"logo.png\" />;\n"

	got := v.Validate(original, edited, "Logo.tsx", types.ValidationStrict)

	assert.Contains(t, strings.Join(got.PotentialIssues, "; "), "img element without alt attribute")
}

func TestLooseEquality(t *testing.T) {
	assert.Equal(t, 0, looseEquality("if (a === b || c !== d) {}"))
	assert.Equal(t, 2, looseEquality("if (a == b || c != d) {}"))
	assert.Equal(t, 0, looseEquality("if (a <= b && c >= d) {}"))
}

func TestCountUnescaped(t *testing.T) {
	assert.Equal(t, 2, countUnescaped(`say "hi"`, '"'))
	assert.Equal(t, 2, countUnescaped(`say "\"hi\""`, '"'))
	assert.Equal(t, 0, countUnescaped(`nothing here`, '"'))
}
