package extract

import (
	"regexp"
	"strings"
)

// patternExtractor runs ordered lists of pre-compiled capture rules.
// Import rules capture the raw import target; export rules capture the
// declared symbol name.
type patternExtractor struct {
	language    string
	importRules []*regexp.Regexp
	exportRules []*regexp.Regexp
	// exportListRules capture comma-separated name lists, e.g. "export {a, b}"
	exportListRules []*regexp.Regexp
}

// Language implements Extractor
func (pe *patternExtractor) Language() string {
	return pe.language
}

// Extract implements Extractor
func (pe *patternExtractor) Extract(content string) Extraction {
	var result Extraction

	for _, rule := range pe.importRules {
		for _, m := range rule.FindAllStringSubmatch(content, -1) {
			if len(m) > 1 {
				result.Imports = append(result.Imports, m[1])
			}
		}
	}

	for _, rule := range pe.exportRules {
		for _, m := range rule.FindAllStringSubmatch(content, -1) {
			if len(m) > 1 {
				result.Exports = append(result.Exports, m[1])
			}
		}
	}

	for _, rule := range pe.exportListRules {
		for _, m := range rule.FindAllStringSubmatch(content, -1) {
			if len(m) > 1 {
				result.Exports = append(result.Exports, splitNameList(m[1])...)
			}
		}
	}

	result.Imports = dedupe(result.Imports)
	result.Exports = dedupe(result.Exports)
	return result
}

// splitNameList splits "a, b as c, default" into bare exported names.
func splitNameList(list string) []string {
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := strings.TrimSpace(part)
		// "orig as alias" exports the alias
		if idx := strings.Index(name, " as "); idx >= 0 {
			name = strings.TrimSpace(name[idx+4:])
		}
		if name != "" && name != "default" {
			names = append(names, name)
		}
	}
	return names
}

// newJavaScriptExtractor covers the ES module and CommonJS syntax shared by
// JS, JSX, TS and TSX sources.
func newJavaScriptExtractor() Extractor {
	return &patternExtractor{
		language: "javascript",
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`import\s+(?:type\s+)?[\w{}\s*,$]*?\s*from\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`import\s+['"]([^'"]+)['"]`),
			regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`),
			regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`),
			regexp.MustCompile(`export\s+(?:\*|\{[^}]*\})\s+from\s+['"]([^'"]+)['"]`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`export\s+(?:default\s+)?(?:abstract\s+)?(?:async\s+)?(?:function|class|const|let|var|interface|type|enum|namespace)\s+([A-Za-z_$][\w$]*)`),
			regexp.MustCompile(`module\.exports\s*=\s*([A-Za-z_$][\w$]*)`),
			regexp.MustCompile(`exports\.([A-Za-z_$][\w$]*)\s*=`),
		},
		exportListRules: []*regexp.Regexp{
			regexp.MustCompile(`export\s*\{([^}]*)\}(?:\s*;|\s*$)`),
		},
	}
}

// goExtractor handles both single-line and block import declarations.
type goExtractor struct {
	singleImport *regexp.Regexp
	importBlock  *regexp.Regexp
	blockEntry   *regexp.Regexp
	exportRules  []*regexp.Regexp
}

func newGoExtractor() Extractor {
	return &goExtractor{
		singleImport: regexp.MustCompile(`(?m)^import\s+(?:\w+\s+)?"([^"]+)"`),
		importBlock:  regexp.MustCompile(`(?s)import\s*\((.*?)\)`),
		blockEntry:   regexp.MustCompile(`(?m)^\s*(?:[\w.]+\s+)?"([^"]+)"`),
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^func\s+(?:\([^)]*\)\s+)?([A-Z]\w*)`),
			regexp.MustCompile(`(?m)^type\s+([A-Z]\w*)`),
			regexp.MustCompile(`(?m)^(?:var|const)\s+([A-Z]\w*)`),
		},
	}
}

// Language implements Extractor
func (ge *goExtractor) Language() string { return "go" }

// Extract implements Extractor
func (ge *goExtractor) Extract(content string) Extraction {
	var result Extraction

	for _, m := range ge.singleImport.FindAllStringSubmatch(content, -1) {
		result.Imports = append(result.Imports, m[1])
	}
	for _, block := range ge.importBlock.FindAllStringSubmatch(content, -1) {
		for _, entry := range ge.blockEntry.FindAllStringSubmatch(block[1], -1) {
			result.Imports = append(result.Imports, entry[1])
		}
	}
	for _, rule := range ge.exportRules {
		for _, m := range rule.FindAllStringSubmatch(content, -1) {
			result.Exports = append(result.Exports, m[1])
		}
	}

	result.Imports = dedupe(result.Imports)
	result.Exports = dedupe(result.Exports)
	return result
}

func newPythonExtractor() Extractor {
	return &patternExtractor{
		language: "python",
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*import\s+([\w.]+)`),
			regexp.MustCompile(`(?m)^\s*from\s+([\w.]+)\s+import`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^def\s+(\w+)`),
			regexp.MustCompile(`(?m)^class\s+(\w+)`),
			regexp.MustCompile(`(?m)^([A-Z][A-Z0-9_]*)\s*=`),
		},
	}
}

func newJavaExtractor() Extractor {
	return &patternExtractor{
		language: "java",
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^import\s+(?:static\s+)?([\w.]+(?:\.\*)?)\s*;`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)public\s+(?:final\s+|abstract\s+|static\s+)*(?:class|interface|enum|record)\s+(\w+)`),
		},
	}
}

func newRustExtractor() Extractor {
	return &patternExtractor{
		language: "rust",
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*use\s+([\w:]+)`),
			regexp.MustCompile(`(?m)^\s*mod\s+(\w+)\s*;`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*pub\s+(?:unsafe\s+|async\s+)?(?:fn|struct|enum|trait|mod|const|static|type)\s+(\w+)`),
		},
	}
}

func newCExtractor() Extractor {
	return &patternExtractor{
		language: "c",
		importRules: []*regexp.Regexp{
			// Quoted includes only - angle-bracket includes are system headers
			regexp.MustCompile(`(?m)^\s*#include\s+"([^"]+)"`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*(?:class|struct)\s+(\w+)`),
			regexp.MustCompile(`(?m)^\s*#define\s+(\w+)`),
		},
	}
}

func newRubyExtractor() Extractor {
	return &patternExtractor{
		language: "ruby",
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`require(?:_relative)?\s+['"]([^'"]+)['"]`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*(?:class|module)\s+([A-Z]\w*)`),
			regexp.MustCompile(`(?m)^\s*def\s+(\w+)`),
		},
	}
}

func newPHPExtractor() Extractor {
	return &patternExtractor{
		language: "php",
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`(?:require|include)(?:_once)?\s*\(?\s*['"]([^'"]+)['"]`),
			regexp.MustCompile(`(?m)^use\s+([\w\\]+)\s*;`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)(?:class|interface|trait|function)\s+(\w+)`),
		},
	}
}

func newCSharpExtractor() Extractor {
	return &patternExtractor{
		language: "csharp",
		importRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)^\s*using\s+(?:static\s+)?([\w.]+)\s*;`),
		},
		exportRules: []*regexp.Regexp{
			regexp.MustCompile(`(?m)(?:public|internal)\s+(?:static\s+|abstract\s+|sealed\s+|partial\s+)*(?:class|interface|struct|enum|record)\s+(\w+)`),
		},
	}
}
