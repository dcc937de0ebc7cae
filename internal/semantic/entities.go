// Package semantic scores how pertinent each candidate file is to a natural
// language prompt. Scoring is additive across independent weak signals -
// deliberately crude but explainable and stable. False positives only cost
// extra context; false negatives lose the file entirely, so every tie breaks
// toward inclusion.
package semantic

import (
	"regexp"
	"strings"

	"github.com/surgebase/porter2"

	"github.com/standardbeagle/sce/internal/types"
)

// Ordered pattern categories for entity extraction. Categories may overlap:
// a token can surface as both an entity and a keyword.
var (
	filenamePattern  = regexp.MustCompile(`[\w./-]+\.[A-Za-z]{1,6}\b`)
	camelCasePattern = regexp.MustCompile(`\b[a-z]+(?:[A-Z][a-z0-9]*)+\b|\b[A-Z][a-z0-9]+(?:[A-Z][a-z0-9]*)+\b`)
	snakeCasePattern = regexp.MustCompile(`\b[a-z0-9]+(?:_[a-z0-9]+)+\b`)
	wordPattern      = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)
	extPattern       = regexp.MustCompile(`\.([a-z]{1,4})\b`)
)

// stopwords are content-free words dropped from the keyword set.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "has": true,
	"have": true, "this": true, "that": true, "with": true, "from": true,
	"they": true, "will": true, "would": true, "there": true, "their": true,
	"what": true, "about": true, "which": true, "when": true, "make": true,
	"like": true, "time": true, "just": true, "him": true, "know": true,
	"take": true, "into": true, "your": true, "some": true, "could": true,
	"them": true, "than": true, "then": true, "its": true, "also": true,
	"after": true, "use": true, "two": true, "how": true, "our": true,
	"please": true, "should": true, "need": true, "want": true,
}

// fileTypeHints maps prompt vocabulary to file extensions.
var fileTypeHints = map[string][]string{
	"typescript": {"ts", "tsx"},
	"javascript": {"js", "jsx"},
	"react":      {"jsx", "tsx"},
	"vue":        {"vue"},
	"golang":     {"go"},
	"python":     {"py"},
	"rust":       {"rs"},
	"java":       {"java"},
	"ruby":       {"rb"},
	"css":        {"css", "scss", "less"},
	"html":       {"html"},
	"json":       {"json"},
	"yaml":       {"yaml", "yml"},
	"markdown":   {"md"},
	"sql":        {"sql"},
}

// concepts is the technical concept and action verb dictionary. Hits score
// higher than plain keywords because they carry intent.
var concepts = map[string]bool{
	"fix": true, "bug": true, "error": true, "refactor": true, "rename": true,
	"implement": true, "add": true, "remove": true, "delete": true,
	"optimize": true, "performance": true, "test": true, "testing": true,
	"auth": true, "authentication": true, "login": true, "logout": true,
	"database": true, "query": true, "migration": true, "schema": true,
	"api": true, "endpoint": true, "route": true, "routing": true,
	"request": true, "response": true, "component": true, "render": true,
	"style": true, "styling": true, "layout": true, "config": true,
	"configuration": true, "settings": true, "cache": true, "caching": true,
	"log": true, "logging": true, "validate": true, "validation": true,
	"security": true, "encrypt": true, "session": true, "token": true,
	"state": true, "store": true, "reducer": true, "hook": true,
	"middleware": true, "handler": true, "service": true, "model": true,
	"controller": true, "view": true, "typo": true, "import": true,
	"export": true, "dependency": true, "architecture": true, "async": true,
	"upgrade": true, "update": true, "install": true, "deploy": true,
}

// EntityExtractor turns free-text prompts into deduplicated token sets.
type EntityExtractor struct{}

// NewEntityExtractor creates a new entity extractor
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// Extract applies the ordered pattern categories and dictionaries to a
// prompt. All result sets are deduplicated; order within a set carries no
// meaning.
func (ee *EntityExtractor) Extract(prompt string) types.EntityExtraction {
	result := types.EntityExtraction{}
	seen := map[string]map[string]bool{
		"entity":  {},
		"keyword": {},
		"type":    {},
		"concept": {},
	}

	add := func(category string, dst *[]string, value string) {
		if value == "" || seen[category][value] {
			return
		}
		seen[category][value] = true
		*dst = append(*dst, value)
	}

	// Category 1: file names with extension
	for _, m := range filenamePattern.FindAllString(prompt, -1) {
		add("entity", &result.Entities, m)
	}

	// Category 2: camelCase / PascalCase identifiers
	for _, m := range camelCasePattern.FindAllString(prompt, -1) {
		add("entity", &result.Entities, m)
	}

	// Category 3: snake_case identifiers
	for _, m := range snakeCasePattern.FindAllString(prompt, -1) {
		add("entity", &result.Entities, m)
	}

	lower := strings.ToLower(prompt)
	for _, word := range wordPattern.FindAllString(lower, -1) {
		if hints, ok := fileTypeHints[word]; ok {
			for _, hint := range hints {
				add("type", &result.FileTypes, hint)
			}
		}
		if concepts[word] || concepts[porter2.Stem(word)] {
			add("concept", &result.Concepts, word)
		}
		if !stopwords[word] {
			add("keyword", &result.Keywords, word)
		}
	}

	// Bare extensions (".ts" outside a concrete filename) hint file types.
	// A named file is already an entity; letting its extension hint the
	// type would pull in every sibling with the same suffix.
	scrubbed := filenamePattern.ReplaceAllString(lower, " ")
	for _, m := range extPattern.FindAllStringSubmatch(scrubbed, -1) {
		add("type", &result.FileTypes, m[1])
	}

	return result
}

// StemKeyword normalizes a keyword the same way matching does, so callers
// can compare prompt words to content words in stem space.
func StemKeyword(word string) string {
	return porter2.Stem(strings.ToLower(word))
}
