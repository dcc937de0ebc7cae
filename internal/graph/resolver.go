package graph

import (
	"path"
	"strings"
)

// resolutionExtensions is the fixed candidate list tried when a relative
// import omits its extension, in priority order.
var resolutionExtensions = []string{
	".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs",
	".go", ".py", ".rs", ".java", ".rb", ".php", ".cs",
}

// indexFallbacks are the conventional directory entry files tried when a
// relative import points at a directory.
var indexFallbacks = []string{
	"index.ts", "index.tsx", "index.js", "index.jsx",
	"__init__.py", "mod.rs",
}

// resolveImport resolves a raw import target from a file to a known node
// path. Only relative targets are resolved; absolute and bare (external
// package) targets return "". Resolution succeeds only when the candidate is
// itself a node, which keeps the no-dangling-edges invariant.
func resolveImport(fromPath, target string, known map[string]bool) string {
	if !strings.HasPrefix(target, "./") && !strings.HasPrefix(target, "../") {
		return ""
	}

	base := path.Join(path.Dir(toSlash(fromPath)), target)

	// Exact hit: the import already carries its extension
	if known[base] {
		return base
	}

	// Extension candidates
	for _, ext := range resolutionExtensions {
		if candidate := base + ext; known[candidate] {
			return candidate
		}
	}

	// Directory import: try conventional index files
	for _, index := range indexFallbacks {
		if candidate := path.Join(base, index); known[candidate] {
			return candidate
		}
	}

	return ""
}

// toSlash normalizes a node path to forward slashes for joining.
func toSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
