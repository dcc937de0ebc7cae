// Package extract pulls import targets and exported symbols out of source
// files using per-language pattern rules.
//
// Architecture Pattern:
// Extraction is best-effort and regex-based - a deliberate stand-in for real
// parsing. The Extractor interface isolates the pattern rules from the graph
// algorithm so an AST-backed implementation can be substituted per language
// without touching graph construction. Pattern misses silently produce empty
// extractions; they are never errors.
package extract

import (
	"path/filepath"
	"strings"
)

// Extraction is the raw result of scanning one file.
type Extraction struct {
	Imports []string // import targets in source order, duplicates removed
	Exports []string // exported symbol names in source order, duplicates removed
}

// Extractor extracts imports and exports from source content.
type Extractor interface {
	// Extract scans content and returns the discovered references.
	Extract(content string) Extraction
	// Language names the rule set, for diagnostics.
	Language() string
}

// Registry maps file extensions to extractors.
type Registry struct {
	byExtension map[string]Extractor
}

// NewRegistry creates a registry with the built-in language rule sets.
func NewRegistry() *Registry {
	r := &Registry{byExtension: make(map[string]Extractor)}

	register := func(e Extractor, exts ...string) {
		for _, ext := range exts {
			r.byExtension[ext] = e
		}
	}

	register(newJavaScriptExtractor(), ".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts")
	register(newGoExtractor(), ".go")
	register(newPythonExtractor(), ".py", ".pyi")
	register(newJavaExtractor(), ".java")
	register(newRustExtractor(), ".rs")
	register(newCExtractor(), ".c", ".h", ".cc", ".cpp", ".hpp", ".cxx")
	register(newRubyExtractor(), ".rb")
	register(newPHPExtractor(), ".php")
	register(newCSharpExtractor(), ".cs")

	return r
}

// Register installs or replaces the extractor for the given extensions.
func (r *Registry) Register(e Extractor, extensions ...string) {
	for _, ext := range extensions {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// ForPath returns the extractor for a file path, or nil if the extension has
// no rule set.
func (r *Registry) ForPath(path string) Extractor {
	return r.byExtension[strings.ToLower(filepath.Ext(path))]
}

// SupportedExtensions returns every extension with a registered rule set.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.byExtension))
	for ext := range r.byExtension {
		exts = append(exts, ext)
	}
	return exts
}

// dedupe removes duplicates while preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
