package features

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// Hover is the label (kind + signature) plus Markdown documentation for
// the node under cursor (spec.md §4.9).
type Hover struct {
	Label string
	Doc   string
}

// HoverAt builds a Hover for the identifier under cursor, resolving it to
// its declaration the same way Definition does.
func HoverAt(c *astcache.Cache, uri lsptypes.URI, pos lsptypes.Position, paramSchema *schema.ParamSchema) (Hover, bool) {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return Hover{}, false
	}
	chain := identifierChainAt(c, uri, pos)
	if chain == nil {
		return Hover{}, false
	}
	root := rootIdentifier(chain)
	if root == nil {
		return Hover{}, false
	}
	decl := declarationFor(u.Script, paramSchema, root.Name)
	if decl == nil {
		return Hover{}, false
	}
	return hoverFor(decl), true
}

func hoverFor(n ast.Node) Hover {
	switch v := n.(type) {
	case *ast.Process:
		return Hover{Label: fmt.Sprintf("process %s(%d input%s)", v.Name, v.InputCount(), plural(v.InputCount())), Doc: v.DocComment()}
	case *ast.Workflow:
		name := v.Name
		if v.IsEntry() {
			name = "(entry)"
		}
		return Hover{Label: fmt.Sprintf("workflow %s(%d take%s)", name, v.DeclaredTakeCount(), plural(v.DeclaredTakeCount())), Doc: v.DocComment()}
	case *ast.Function:
		return Hover{Label: fmt.Sprintf("def %s(%s)", v.Name, strings.Join(v.Params, ", ")), Doc: v.DocComment()}
	case *ast.IncludeVariable:
		return Hover{Label: fmt.Sprintf("include %s", v.LocalName()), Doc: ""}
	default:
		return Hover{Label: n.Kind().String()}
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
