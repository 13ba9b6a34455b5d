package features

import (
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// CodeLens is one lens: a range to anchor it at, a title, and an opaque
// command name a host LSP server maps to its own command registry.
type CodeLens struct {
	Range   lsptypes.Range
	Title   string
	Command string
}

// CodeLenses returns a "Preview workflow DAG" lens over every named
// workflow declaration and the entry workflow, per spec.md §4.9's
// "workflow DAG preview command".
func CodeLenses(c *astcache.Cache, uri lsptypes.URI) []CodeLens {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return nil
	}
	var out []CodeLens
	for _, w := range u.Script.Workflows {
		out = append(out, CodeLens{Range: w.Span(), Title: "Preview workflow DAG", Command: "wflsp.previewDag"})
	}
	return out
}

// DocumentLink is one navigable span within a file, e.g. an include's
// source path.
type DocumentLink struct {
	Range  lsptypes.Range
	Target lsptypes.URI
}

// DocumentLinks returns one link per include statement, pointing at the
// resolved source file (spec.md §4.9's "include-path links").
func DocumentLinks(c *astcache.Cache, uri lsptypes.URI) []DocumentLink {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return nil
	}
	var out []DocumentLink
	for _, inc := range u.Script.Includes {
		var target lsptypes.URI
		for _, v := range inc.Variables {
			if v.Target != nil {
				if t := c.GetURI(v.Target); t != "" {
					target = t
					break
				}
			}
		}
		out = append(out, DocumentLink{Range: inc.Span(), Target: target})
	}
	return out
}
