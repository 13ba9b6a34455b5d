// Package features implements the Feature Provider contracts (spec.md
// §4.9): pure query functions over an *astcache.Cache; no feature reads a
// *filecache.Cache, and the edits Rename and Format produce are derived
// from the cached trees. Grounded on internal/symbollinker/linker_engine.go's
// cross-file SymbolLink model (DefinitionFile/References, resolved once
// and queried repeatedly) — generalized here from the teacher's
// persisted cross-file link table to an on-demand walk of the already-
// built resolve.Scope chain, since this analyzer keeps the full AST
// resident rather than a compacted symbol table.
package features

import (
	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/resolve"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// Location pairs a URI with a range, the LSP-shaped result every
// navigation feature ultimately returns.
type Location struct {
	URI   lsptypes.URI
	Range lsptypes.Range
}

// identifierChainAt returns the innermost Identifier or PropertyAccess at
// pos, which every navigation feature starts from.
func identifierChainAt(c *astcache.Cache, uri lsptypes.URI, pos lsptypes.Position) ast.Node {
	for _, n := range c.GetNodesAtLineAndColumn(uri, pos) {
		switch n.(type) {
		case *ast.Identifier, *ast.PropertyAccess:
			return n
		}
	}
	return nil
}

// rootIdentifier walks a PropertyAccess chain down to its root
// Identifier, e.g. `a.b.c` → the Identifier for `a`.
func rootIdentifier(n ast.Node) *ast.Identifier {
	for {
		switch v := n.(type) {
		case *ast.PropertyAccess:
			n = v.Target
		case *ast.Identifier:
			return v
		default:
			return nil
		}
	}
}

// declarationFor resolves name against script's top-level scope
// (includes/functions/processes/workflows/schema params), following an
// IncludeVariable straight through to its bound Target. Returns nil if
// name has no user-defined declaration (a builtin or unresolved name).
func declarationFor(script *ast.Script, paramSchema *schema.ParamSchema, name string) ast.Node {
	r := &resolve.NameResolver{ParamSchema: paramSchema}
	scope := r.TopLevelScope(script)
	b, ok := scope.Lookup(name)
	if !ok || b.Node == nil {
		return nil
	}
	if iv, ok := b.Node.(*ast.IncludeVariable); ok {
		if iv.Target != nil {
			return iv.Target
		}
		return iv // unresolved include; still a valid (if unhelpful) jump target
	}
	return b.Node
}

// declNameAndRange returns a declaration node's own name and its whole
// declaration span (the tree records no separate name range), for
// Definition/Hover's label and for Rename's declaration-site edit.
func declNameAndRange(n ast.Node) (name string, span lsptypes.Range) {
	switch v := n.(type) {
	case *ast.Process:
		return v.Name, v.Span()
	case *ast.Workflow:
		return v.Name, v.Span()
	case *ast.Function:
		return v.Name, v.Span()
	case *ast.IncludeVariable:
		return v.LocalName(), v.Span()
	default:
		return "", n.Span()
	}
}
