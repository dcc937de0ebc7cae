package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser handles parsing and matching .gitignore files.
// Wildcard patterns are matched with doublestar globs; exact, prefix and
// suffix patterns take fast paths.
type GitignoreParser struct {
	patterns []GitignorePattern
}

type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool
	Absolute  bool
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{
		patterns: make([]GitignorePattern, 0),
	}
}

// LoadGitignore loads patterns from rootPath/.gitignore. A missing file is
// not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if err != nil {
		return nil
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		gp.AddPattern(line)
	}
	return scanner.Err()
}

// AddPattern adds a single gitignore pattern line
func (gp *GitignoreParser) AddPattern(line string) {
	pattern := GitignorePattern{}

	if strings.HasPrefix(line, "!") {
		pattern.Negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		pattern.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		pattern.Absolute = true
		line = line[1:]
	}

	pattern.Pattern = line
	gp.patterns = append(gp.patterns, pattern)
}

// IsIgnored reports whether a project-relative path matches the loaded
// patterns. Later patterns override earlier ones, matching git semantics.
func (gp *GitignoreParser) IsIgnored(relPath string, isDir bool) bool {
	relPath = filepath.ToSlash(relPath)
	ignored := false

	for _, p := range gp.patterns {
		if p.Directory && !isDir && !pathHasDirComponent(relPath, p.Pattern) {
			continue
		}
		if gp.matches(p, relPath, isDir) {
			ignored = !p.Negate
		}
	}

	return ignored
}

// matches checks one pattern against one path
func (gp *GitignoreParser) matches(p GitignorePattern, relPath string, isDir bool) bool {
	target := p.Pattern

	if p.Absolute {
		return globMatch(target, relPath) || strings.HasPrefix(relPath, target+"/")
	}

	// Unanchored patterns match the basename or any path component
	if globMatch(target, relPath) || globMatch(target, filepath.Base(relPath)) {
		return true
	}
	if globMatch("**/"+target, relPath) || globMatch("**/"+target+"/**", relPath) {
		return true
	}
	return false
}

// globMatch wraps doublestar.Match, treating a malformed pattern as no match
func globMatch(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}

// pathHasDirComponent reports whether any directory component of relPath
// equals name, used for directory-only patterns against file paths.
func pathHasDirComponent(relPath, name string) bool {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." {
		return false
	}
	for _, part := range strings.Split(dir, "/") {
		if ok := globMatch(name, part); ok {
			return true
		}
	}
	return false
}
