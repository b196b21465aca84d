// Package fastcheck implements the incremental, multi-file analysis
// engine: a file-level dependency graph, a
// memory-capped semantic cache, and a watch loop driving a bounded
// worker pool over changed files.
package fastcheck

import (
	"os"
	"sync"
	"time"
)

// FileNode is one node of the dependency graph: a source file's staleness fingerprint plus its
// forward (deps) and reverse (dependents) edges.
type FileNode struct {
	Path        string
	ContentHash uint64
	LastModTime time.Time
	Deps        map[string]bool
	Dependents  map[string]bool
}

// Graph is the project-wide dependency graph. A single reader-writer
// lock guards all mutation and traversal — the graph is a shared,
// mutable structure accessed from the watch loop's worker pool as
// well as the engine's synchronous API.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*FileNode
}

// NewGraph builds an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[string]*FileNode)}
}

// AddFile ensures path has a node, (re)computing its content hash and
// mtime from disk.
// It's idempotent: calling it again refreshes the fingerprint in
// place rather than discarding the file's existing edges.
func (g *Graph) AddFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[path]
	if !ok {
		n = &FileNode{Path: path, Deps: make(map[string]bool), Dependents: make(map[string]bool)}
		g.nodes[path] = n
	}
	n.ContentHash = djb2(data)
	n.LastModTime = info.ModTime()
	return nil
}

// ensureNode returns (creating if needed) the node for path without
// touching the filesystem. Must be called with g.mu held.
func (g *Graph) ensureNode(path string) *FileNode {
	n, ok := g.nodes[path]
	if !ok {
		n = &FileNode{Path: path, Deps: make(map[string]bool), Dependents: make(map[string]bool)}
		g.nodes[path] = n
	}
	return n
}

// AddDependency records that `from` imports/depends on `to`, adding
// both the forward edge (from->to) and the reverse edge (to->from)
// symmetrically and idempotently. Import cycles are
// permitted — the graph never rejects an edge that would close a
// cycle, since Ferrite modules may legally import each other
// circularly.
func (g *Graph) AddDependency(from, to string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn := g.ensureNode(from)
	tn := g.ensureNode(to)
	fn.Deps[to] = true
	tn.Dependents[from] = true
}

// IsStale reports whether path needs re-analysis: its on-disk mtime
// is newer than the cached fingerprint, its content hash has changed,
// or any transitive dependency is itself stale. A file
// with no node is considered stale (never analyzed).
func (g *Graph) IsStale(path string) bool {
	return g.isStaleVisit(path, make(map[string]bool))
}

func (g *Graph) isStaleVisit(path string, visiting map[string]bool) bool {
	if visiting[path] {
		// Already on the current traversal's path: cycles don't get
		// to recurse forever, and a cycle member's own staleness is
		// decided by its direct check below, not by its neighbors.
		return false
	}
	visiting[path] = true

	g.mu.RLock()
	n, ok := g.nodes[path]
	if !ok {
		g.mu.RUnlock()
		return true
	}
	cachedHash, cachedMTime := n.ContentHash, n.LastModTime
	deps := make([]string, 0, len(n.Deps))
	for d := range n.Deps {
		deps = append(deps, d)
	}
	g.mu.RUnlock()

	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	if info.ModTime().After(cachedMTime) {
		return true
	}
	data, err := os.ReadFile(path)
	if err != nil || djb2(data) != cachedHash {
		return true
	}
	for _, d := range deps {
		if g.isStaleVisit(d, visiting) {
			return true
		}
	}
	return false
}

// Dependents returns the direct reverse edges of path — the set of
// files that stop being valid when path changes.
func (g *Graph) Dependents(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[path]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(n.Dependents))
	for d := range n.Dependents {
		out = append(out, d)
	}
	return out
}

// djb2 is Dan Bernstein's classic string hash, applied over the raw
// file bytes — fast, allocation-free, and more than adequate for
// change detection rather than cryptographic integrity.
func djb2(data []byte) uint64 {
	var h uint64 = 5381
	for _, b := range data {
		h = (h << 5) + h + uint64(b) // h*33 + b
	}
	return h
}
