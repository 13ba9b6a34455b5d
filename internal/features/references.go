package features

import (
	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// References returns every node across the workspace that resolves to
// the same declaration as the identifier under cursor (spec.md §4.9),
// optionally including the declaration site itself. Grounded on
// internal/symbollinker/linker_engine.go's SymbolLink.References list,
// generalized from a persisted cross-file link table to a live scan
// driven by declarationFor since this analyzer keeps full ASTs resident.
func References(c *astcache.Cache, uri lsptypes.URI, pos lsptypes.Position, paramSchema *schema.ParamSchema, includeDeclaration bool) []Location {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return nil
	}
	chain := identifierChainAt(c, uri, pos)
	if chain == nil {
		return nil
	}
	root := rootIdentifier(chain)
	if root == nil {
		return nil
	}
	decl := declarationFor(u.Script, paramSchema, root.Name)
	if decl == nil {
		return nil
	}

	var out []Location
	for _, refURI := range c.URIs() {
		refUnit, ok := c.GetSourceUnit(refURI)
		if !ok || refUnit.Script == nil {
			continue
		}
		for _, n := range refUnit.Registry.Nodes() {
			id, ok := n.(*ast.Identifier)
			if !ok || id.Name != root.Name {
				continue
			}
			if declarationFor(refUnit.Script, paramSchema, id.Name) != decl {
				continue
			}
			out = append(out, Location{URI: refURI, Range: id.Span()})
		}
	}
	if includeDeclaration {
		_, span := declNameAndRange(decl)
		declURI := c.GetURI(decl)
		if declURI == "" {
			declURI = uri
		}
		out = append(out, Location{URI: declURI, Range: span})
	}
	return out
}
