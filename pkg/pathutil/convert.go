// Package pathutil provides utilities for converting between absolute and relative paths.
//
// Architecture Pattern:
// The engine uses project-relative paths internally for consistency and to avoid ambiguity.
// Hosts may hand in absolute paths, and user-facing output should always use relative
// paths for readability and portability. This package provides the conversion layer
// between the two representations.
package pathutil

import (
	"path/filepath"
	"strings"

	"github.com/standardbeagle/sce/internal/types"
)

// ToRelative converts an absolute path to relative based on a root directory.
// Falls back to the original path if conversion fails or path is already relative.
//
// Examples:
//   - ToRelative("/home/user/project/src/main.go", "/home/user/project") → "src/main.go"
//   - ToRelative("/other/location/file.go", "/home/user/project") → "/other/location/file.go" (outside root)
//   - ToRelative("src/main.go", "/home/user/project") → "src/main.go" (already relative)
func ToRelative(absPath, rootDir string) string {
	// Handle empty inputs
	if absPath == "" || rootDir == "" {
		return absPath
	}

	// If path is already relative, return as-is
	if !filepath.IsAbs(absPath) {
		return absPath
	}

	// Clean both paths to normalize separators and remove redundant elements
	absPath = filepath.Clean(absPath)
	rootDir = filepath.Clean(rootDir)

	// Try to make relative
	relPath, err := filepath.Rel(rootDir, absPath)
	if err != nil {
		// Conversion failed (e.g., different drives on Windows) - return absolute
		return absPath
	}

	// If the relative path starts with ".." it means the file is outside the root
	// In this case, return the absolute path as it's clearer
	if strings.HasPrefix(relPath, "..") {
		return absPath
	}

	return relPath
}

// ToRelativeAll converts every path in a selection from absolute to relative.
// Creates a new slice without modifying the original.
//
// This function is designed for use at output boundaries where selections are
// displayed to users:
//   - CLI context output
//   - JSON serialization
//   - MCP server responses
func ToRelativeAll(paths []string, rootDir string) []string {
	if len(paths) == 0 {
		return paths
	}

	converted := make([]string, len(paths))
	for i, p := range paths {
		converted[i] = ToRelative(p, rootDir)
	}
	return converted
}

// ToRelativeMatches converts paths in a SemanticMatch slice from absolute to
// relative. Creates a new slice without modifying the original matches.
func ToRelativeMatches(matches []types.SemanticMatch, rootDir string) []types.SemanticMatch {
	if len(matches) == 0 {
		return matches
	}

	converted := make([]types.SemanticMatch, len(matches))
	copy(converted, matches)

	for i := range converted {
		converted[i].FilePath = ToRelative(converted[i].FilePath, rootDir)
	}
	return converted
}
