package features

import (
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// Definition resolves the identifier under cursor to its declaration
// (spec.md §4.9): a process/workflow/function declaration or an
// include's resolved target. Returns false if the node under cursor has
// no user-defined declaration (a builtin, a literal, an unresolved
// reference, or no node at all).
func Definition(c *astcache.Cache, uri lsptypes.URI, pos lsptypes.Position, paramSchema *schema.ParamSchema) (Location, bool) {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return Location{}, false
	}
	chain := identifierChainAt(c, uri, pos)
	if chain == nil {
		return Location{}, false
	}
	root := rootIdentifier(chain)
	if root == nil {
		return Location{}, false
	}
	decl := declarationFor(u.Script, paramSchema, root.Name)
	if decl == nil {
		return Location{}, false
	}
	_, span := declNameAndRange(decl)
	declURI := c.GetURI(decl)
	if declURI == "" {
		declURI = uri // declaration lives in this same file
	}
	return Location{URI: declURI, Range: span}, true
}
