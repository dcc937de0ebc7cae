// Package graph builds and queries the directed file-dependency graph used
// for context expansion.
package graph

import (
	"sort"

	"github.com/standardbeagle/sce/internal/types"
)

// DependencyGraph is an immutable snapshot of one project scan.
//
// Invariant: every edge target exists as a node key. Unresolvable imports
// are dropped during construction, never stored as dangling entries.
type DependencyGraph struct {
	Nodes   map[string]*types.FileNode // path -> node, unique keys
	Edges   map[string][]string        // path -> dependency paths, "depends on" direction
	Weights map[string]float64         // edge key -> normalized weight in [0,1]
}

// NewDependencyGraph creates an empty graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes:   make(map[string]*types.FileNode),
		Edges:   make(map[string][]string),
		Weights: make(map[string]float64),
	}
}

// EdgeKey builds the weight-map key for a from->to edge
func EdgeKey(from, to string) string {
	return from + " -> " + to
}

// HasNode reports whether path is a node in the graph
func (g *DependencyGraph) HasNode(path string) bool {
	_, ok := g.Nodes[path]
	return ok
}

// Dependencies returns the direct dependencies of path, in edge order.
func (g *DependencyGraph) Dependencies(path string) []string {
	return g.Edges[path]
}

// ReverseDependencies returns every file that depends on path, sorted for
// determinism. This is a linear scan over the edge map - reverse indices are
// not maintained because reverse lookups are rare.
func (g *DependencyGraph) ReverseDependencies(path string) []string {
	var dependents []string
	for from, targets := range g.Edges {
		for _, to := range targets {
			if to == path {
				dependents = append(dependents, from)
				break
			}
		}
	}
	sort.Strings(dependents)
	return dependents
}

// TransitiveDependencies walks the dependency edges breadth-first from path
// up to maxDepth hops, visiting each node once. The starting file itself is
// not included in the result.
func (g *DependencyGraph) TransitiveDependencies(path string, maxDepth int) []string {
	if maxDepth <= 0 || !g.HasNode(path) {
		return nil
	}

	visited := map[string]bool{path: true}
	var result []string

	frontier := []string{path}
	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, current := range frontier {
			for _, dep := range g.Edges[current] {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				result = append(result, dep)
				next = append(next, dep)
			}
		}
		frontier = next
	}

	return result
}

// DetectCycles finds simple cycles via depth-first search with a recursion
// stack. Each cycle is reported rooted at its first-discovered node;
// rotations of the same cycle are not canonicalized, so traversal order
// determines which representative is returned. Known limitation, documented
// rather than papered over.
func (g *DependencyGraph) DetectCycles() [][]string {
	var cycles [][]string
	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	// Sorted roots give a stable traversal order
	roots := make([]string, 0, len(g.Nodes))
	for path := range g.Nodes {
		roots = append(roots, path)
	}
	sort.Strings(roots)

	var dfs func(path string)
	dfs = func(path string) {
		visited[path] = true
		onStack[path] = true
		stack = append(stack, path)

		for _, dep := range g.Edges[path] {
			if !visited[dep] {
				dfs(dep)
			} else if onStack[dep] {
				// Found a back edge - slice the cycle out of the stack
				for i, p := range stack {
					if p == dep {
						cycle := make([]string, len(stack)-i)
						copy(cycle, stack[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		onStack[path] = false
	}

	for _, root := range roots {
		if !visited[root] {
			dfs(root)
		}
	}

	return cycles
}

// Stats summarizes the graph for diagnostics.
type Stats struct {
	NodeCount int     `json:"node_count"`
	EdgeCount int     `json:"edge_count"`
	MaxInDegree int   `json:"max_in_degree"`
	AvgOutDegree float64 `json:"avg_out_degree"`
}

// Stats computes summary statistics over the graph
func (g *DependencyGraph) Stats() Stats {
	s := Stats{NodeCount: len(g.Nodes)}

	inDegree := g.inDegrees()
	for _, d := range inDegree {
		if d > s.MaxInDegree {
			s.MaxInDegree = d
		}
	}
	for _, targets := range g.Edges {
		s.EdgeCount += len(targets)
	}
	if s.NodeCount > 0 {
		s.AvgOutDegree = float64(s.EdgeCount) / float64(s.NodeCount)
	}
	return s
}

// inDegrees counts incoming edges per node
func (g *DependencyGraph) inDegrees() map[string]int {
	in := make(map[string]int, len(g.Nodes))
	for _, targets := range g.Edges {
		for _, to := range targets {
			in[to]++
		}
	}
	return in
}

// computeWeights assigns each edge a weight equal to the target's in-degree
// divided by the maximum in-degree in the graph. Frequently-depended-on files
// carry more weight during expansion.
func (g *DependencyGraph) computeWeights() {
	inDegree := g.inDegrees()

	maxIn := 0
	for _, d := range inDegree {
		if d > maxIn {
			maxIn = d
		}
	}
	if maxIn == 0 {
		return
	}

	for from, targets := range g.Edges {
		for _, to := range targets {
			g.Weights[EdgeKey(from, to)] = float64(inDegree[to]) / float64(maxIn)
		}
	}
}
