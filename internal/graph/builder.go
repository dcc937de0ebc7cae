package graph

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/sce/internal/config"
	"github.com/standardbeagle/sce/internal/debug"
	sceerrors "github.com/standardbeagle/sce/internal/errors"
	"github.com/standardbeagle/sce/internal/extract"
	"github.com/standardbeagle/sce/internal/interfaces"
	"github.com/standardbeagle/sce/internal/security"
	"github.com/standardbeagle/sce/internal/types"
)

// Options configures one graph build.
type Options struct {
	Include          []string // doublestar globs; empty means include everything
	Exclude          []string // doublestar globs; defaults exclude build/dependency dirs
	MaxFileSize      int64    // files larger than this are skipped; 0 = config default
	MaxGoroutines    int      // bounded fan-out for file reads; 0 = NumCPU
	RespectGitignore bool     // also honor .gitignore patterns
}

// DefaultOptions returns build options matching the engine defaults.
func DefaultOptions() Options {
	return Options{
		Exclude:          append([]string{}, config.DefaultExcludes...),
		MaxFileSize:      config.DefaultMaxFileSize,
		MaxGoroutines:    runtime.NumCPU(),
		RespectGitignore: true,
	}
}

// Large files get a header sniff before extraction so a renamed binary
// cannot feed garbage imports into the graph.
const sniffThresholdKB = 256

// Builder constructs dependency graphs from project trees.
type Builder struct {
	fs       interfaces.FileSystem
	registry *extract.Registry
	sniffer  *security.Sniffer
}

// NewBuilder creates a builder over the given filesystem capability.
func NewBuilder(fsys interfaces.FileSystem) *Builder {
	return &Builder{
		fs:       fsys,
		registry: extract.NewRegistry(),
		sniffer:  security.NewSniffer(sniffThresholdKB),
	}
}

// Registry exposes the extractor registry so hosts can install custom
// language rule sets before building.
func (b *Builder) Registry() *extract.Registry {
	return b.registry
}

// scannedFile carries one file's raw extraction out of the parallel phase.
type scannedFile struct {
	node    *types.FileNode
	imports []string
}

// Build scans rootPath and constructs the dependency graph.
//
// Per-file read or pattern failures are logged and the file skipped - a
// single bad file never aborts the build. The returned graph holds no
// dangling edges.
func (b *Builder) Build(ctx context.Context, rootPath string, opts Options) (*DependencyGraph, error) {
	paths, err := b.enumerate(rootPath, opts)
	if err != nil {
		return nil, sceerrors.NewBuildError("walk", err).WithFile(rootPath)
	}

	results := b.scanFiles(ctx, rootPath, paths, opts)

	g := NewDependencyGraph()
	for _, sf := range results {
		g.Nodes[sf.node.Path] = sf.node
	}

	known := make(map[string]bool, len(g.Nodes))
	for p := range g.Nodes {
		known[p] = true
	}

	// Resolve imports only against known nodes; order follows the node's
	// recorded import order so edge lists are deterministic.
	for _, sf := range results {
		var deps []string
		seen := make(map[string]bool)
		for _, raw := range sf.imports {
			resolved := resolveImport(sf.node.Path, raw, known)
			if resolved == "" || resolved == sf.node.Path || seen[resolved] {
				continue
			}
			seen[resolved] = true
			deps = append(deps, resolved)
		}
		if len(deps) > 0 {
			g.Edges[sf.node.Path] = deps
		}
	}

	g.computeWeights()

	debug.LogGraph("built graph for %s: %d nodes, %d files scanned\n", rootPath, len(g.Nodes), len(paths))
	return g, nil
}

// enumerate walks rootPath and returns the project-relative paths matching
// the include/exclude patterns, sorted for determinism.
func (b *Builder) enumerate(rootPath string, opts Options) ([]string, error) {
	gitignore := config.NewGitignoreParser()
	if opts.RespectGitignore {
		_ = gitignore.LoadGitignore(rootPath)
	}

	var paths []string
	err := b.fs.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directory entries are skipped, not fatal
			debug.LogGraph("skipping %s: %v\n", path, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(rootPath, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if excludesDir(opts.Exclude, rel) {
				return fs.SkipDir
			}
			if opts.RespectGitignore && gitignore.IsIgnored(rel, true) {
				return fs.SkipDir
			}
			return nil
		}

		if matchesAny(opts.Exclude, rel) {
			return nil
		}
		if len(opts.Include) > 0 && !matchesAny(opts.Include, rel) {
			return nil
		}
		if opts.RespectGitignore && gitignore.IsIgnored(rel, false) {
			return nil
		}
		if b.registry.ForPath(rel) == nil {
			return nil
		}

		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// scanFiles reads and extracts all files with bounded fan-out. Results merge
// order-independently and are sorted afterwards, so concurrency never leaks
// into output ordering.
func (b *Builder) scanFiles(ctx context.Context, rootPath string, paths []string, opts Options) []scannedFile {
	maxWorkers := opts.MaxGoroutines
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	var mu sync.Mutex
	var results []scannedFile

	eg, _ := errgroup.WithContext(ctx)
	eg.SetLimit(maxWorkers)

	for _, rel := range paths {
		rel := rel
		eg.Go(func() error {
			sf, ok := b.scanOne(rootPath, rel, opts)
			if !ok {
				return nil
			}
			mu.Lock()
			results = append(results, sf)
			mu.Unlock()
			return nil
		})
	}

	// Workers only report skips, never errors
	_ = eg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].node.Path < results[j].node.Path
	})
	return results
}

// scanOne reads and extracts a single file. Returns ok=false on any failure,
// which the caller treats as a skip.
func (b *Builder) scanOne(rootPath, rel string, opts Options) (scannedFile, bool) {
	full := filepath.Join(rootPath, rel)

	info, err := b.fs.Stat(full)
	if err != nil {
		debug.LogGraph("stat failed for %s: %v\n", rel, err)
		return scannedFile{}, false
	}
	if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
		debug.LogGraph("skipping oversized file %s (%d bytes)\n", rel, info.Size())
		return scannedFile{}, false
	}

	content, err := b.fs.ReadFile(full)
	if err != nil {
		debug.LogGraph("read failed for %s: %v\n", rel, err)
		return scannedFile{}, false
	}
	if err := b.sniffer.Check(rel, content); err != nil {
		debug.LogGraph("skipping suspicious file %s: %v\n", rel, err)
		return scannedFile{}, false
	}

	extractor := b.registry.ForPath(rel)
	extraction := extractor.Extract(string(content))

	return scannedFile{
		node: &types.FileNode{
			Path:         rel,
			Imports:      extraction.Imports,
			Exports:      extraction.Exports,
			Size:         info.Size(),
			LastModified: info.ModTime(),
		},
		imports: extraction.Imports,
	}, true
}

// matchesAny reports whether rel matches any of the doublestar patterns.
func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// excludesDir reports whether a directory should be pruned. Patterns of the
// form "**/dir/**" exclude everything under dir, so the directory itself is
// matched against the pattern with its trailing "/**" stripped.
func excludesDir(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if trimmed, found := strings.CutSuffix(pattern, "/**"); found {
			if ok, err := doublestar.Match(trimmed, rel); err == nil && ok {
				return true
			}
		}
	}
	return false
}
