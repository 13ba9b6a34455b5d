// Package astindex implements the Parent Index & Node Registry (spec.md
// §4.3): a single traversal per tree that produces a per-file node list
// and a child→parent mapping for O(1) ancestry. Grounded on the
// teacher's internal/core/symbol_store.go parallel-array SymbolStore
// (data []T + index map[ID]int), generalized from SymbolID to
// lsptypes.NodeHandle. Unlike that store it keeps no reverse index and
// has no delete operation: a Registry is built once per tree.
package astindex

import (
	"sort"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// Registry is the per-URI index: every non-synthetic node of one tree,
// its parent, and a position-sorted view for lookup. It is rebuilt
// wholesale on every successful re-parse (spec.md §3's ownership
// invariant: "replacing it invalidates and replaces all derived per-URI
// indexes atomically").
type Registry struct {
	nodes   []ast.Node                        // insertion (pre-order) order
	handles map[lsptypes.NodeHandle]int        // handle -> index into nodes
	parent  map[lsptypes.NodeHandle]ast.Node    // child handle -> parent node (root absent)

	byStart []ast.Node // nodes sorted by (start, -end) for position lookup
	next    lsptypes.NodeHandle
}

// Build performs the single traversal over root and returns a fresh
// Registry. Synthetic nodes are never pushed onto the stack and never
// descended into, per spec.md §4.3 ("Never descends into nodes marked
// synthetic").
func Build(root ast.Node, startHandle lsptypes.NodeHandle) *Registry {
	r := &Registry{
		handles: make(map[lsptypes.NodeHandle]int),
		parent:  make(map[lsptypes.NodeHandle]ast.Node),
		next:    startHandle,
	}
	if root == nil {
		return r
	}
	r.walk(root, nil)
	r.byStart = append([]ast.Node(nil), r.nodes...)
	sort.SliceStable(r.byStart, func(i, j int) bool {
		a, b := r.byStart[i].Span(), r.byStart[j].Span()
		if a.Start != b.Start {
			return a.Start.Less(b.Start)
		}
		// Ties broken by widest range first (outermost first), so a
		// stable inward scan finds the innermost containing node last.
		return b.End.Less(a.End)
	})
	return r
}

func (r *Registry) walk(n ast.Node, parent ast.Node) {
	if n == nil || n.Synthetic() {
		return
	}
	ast.Assign(n, r.next)
	r.next++

	idx := len(r.nodes)
	r.nodes = append(r.nodes, n)
	r.handles[n.Handle()] = idx
	if parent != nil {
		r.parent[n.Handle()] = parent
	}

	for _, c := range n.Children() {
		r.walk(c, n)
	}
}

// Nodes returns every non-synthetic node of the tree, in pre-order.
func (r *Registry) Nodes() []ast.Node {
	out := make([]ast.Node, len(r.nodes))
	copy(out, r.nodes)
	return out
}

// Parent returns n's parent, or nil if n is the root or unknown to this
// registry.
func (r *Registry) Parent(n ast.Node) ast.Node {
	if n == nil {
		return nil
	}
	return r.parent[n.Handle()]
}

// Contains reports whether handle belongs to a node in this registry.
func (r *Registry) Contains(h lsptypes.NodeHandle) bool {
	_, ok := r.handles[h]
	return ok
}

// NodeAt returns the innermost node whose range contains pos. Ties are
// broken first by highest start, then by lowest end, then by
// parent-containment (spec.md §4.7), which the (start asc, end desc)
// sort plus a linear inward scan realizes directly.
func (r *Registry) NodeAt(pos lsptypes.Position) ast.Node {
	chain := r.NodesAt(pos)
	if len(chain) == 0 {
		return nil
	}
	return chain[0]
}

// NodesAt returns the ancestor chain containing pos, innermost first
// (spec.md §4.7's getNodesAtLineAndColumn).
func (r *Registry) NodesAt(pos lsptypes.Position) []ast.Node {
	var candidates []ast.Node
	for _, n := range r.byStart {
		if n.Span().Contains(pos) {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	// candidates preserves byStart's (start asc, end desc) order, which
	// for well-formed (properly nested) ranges is already outermost-first;
	// reverse it for the innermost-first chain spec.md §4.7 asks for.
	out := make([]ast.Node, len(candidates))
	for i, c := range candidates {
		out[len(candidates)-1-i] = c
	}
	return out
}
