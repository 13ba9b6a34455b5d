package features

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// Format pretty-prints uri's whole file, requiring no syntax errors
// (spec.md §4.9). ok is false (no edit produced) when the file has a
// syntax-phase error, since formatting an unparseable file would
// silently discard the malformed text.
func Format(c *astcache.Cache, uri lsptypes.URI) (string, bool) {
	if c.HasSyntaxErrors(uri) {
		return "", false
	}
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return "", false
	}
	var b strings.Builder
	printScript(&b, u.Script)
	return b.String(), true
}

func printScript(b *strings.Builder, s *ast.Script) {
	for _, f := range s.FeatureFlags {
		fmt.Fprintf(b, "%s = %s\n", f.DottedName, exprText(f.Value))
	}
	for _, inc := range s.Includes {
		names := make([]string, len(inc.Variables))
		for i, v := range inc.Variables {
			if v.Alias != "" {
				names[i] = v.Name + " as " + v.Alias
			} else {
				names[i] = v.Name
			}
		}
		fmt.Fprintf(b, "include { %s } from '%s'\n", strings.Join(names, "; "), inc.SourcePath)
	}
	if len(s.Includes) > 0 {
		b.WriteString("\n")
	}
	for _, p := range s.Params {
		fmt.Fprintf(b, "params.%s = %s\n", p.Name(), exprText(p.Value))
	}
	for _, fn := range s.Functions {
		fmt.Fprintf(b, "\ndef %s(%s) {\n", fn.Name, strings.Join(fn.Params, ", "))
		printBlock(b, fn.Body, "    ")
		b.WriteString("}\n")
	}
	for _, p := range s.Processes {
		fmt.Fprintf(b, "\nprocess %s {\n", p.Name)
		printBlock(b, p.Directives, "    ")
		if p.Inputs != nil {
			b.WriteString("    input:\n")
			printBlock(b, p.Inputs, "    ")
		}
		if p.Outputs != nil {
			b.WriteString("    output:\n")
			printBlock(b, p.Outputs, "    ")
		}
		b.WriteString("}\n")
	}
	for _, w := range s.Workflows {
		if w.IsEntry() {
			b.WriteString("\nworkflow {\n")
		} else {
			fmt.Fprintf(b, "\nworkflow %s {\n", w.Name)
		}
		if w.Takes != nil {
			b.WriteString("    take:\n")
			printBlock(b, w.Takes, "    ")
		}
		if w.Main != nil {
			b.WriteString("    main:\n")
			printBlock(b, w.Main, "    ")
		}
		if w.Emits != nil {
			b.WriteString("    emit:\n")
			printBlock(b, w.Emits, "    ")
		}
		b.WriteString("}\n")
	}
	if s.Output != nil {
		b.WriteString("\noutput {\n")
		printBlock(b, s.Output.Body, "    ")
		b.WriteString("}\n")
	}
}

func printBlock(b *strings.Builder, block *ast.Block, indent string) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		fmt.Fprintf(b, "%s%s\n", indent, exprText(stmt))
	}
}

// exprText renders n back to source text for the common statement/
// expression shapes the formatter prints; it falls back to the node
// kind's name for anything it doesn't special-case, which keeps
// formatting total (never panics) at the cost of perfect fidelity for
// exotic expression shapes — acceptable since the parser's own
// OpaqueExpr fallback already accepts that tradeoff at parse time.
func exprText(n ast.Node) string {
	switch v := n.(type) {
	case nil:
		return ""
	case *ast.Identifier:
		return v.Name
	case *ast.Literal:
		return v.Text
	case *ast.PropertyAccess:
		return exprText(v.Target) + "." + v.Name
	case *ast.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = exprText(a)
		}
		return exprText(v.Callee) + "(" + strings.Join(args, ", ") + ")"
	case *ast.BinaryExpr:
		return exprText(v.Left) + " " + v.Op + " " + exprText(v.Right)
	case *ast.UnaryExpr:
		return v.Op + exprText(v.Operand)
	case *ast.ExprStatement:
		return exprText(v.Expr)
	case *ast.OpaqueExpr:
		return v.RawText
	case *ast.ListExpr:
		elems := make([]string, len(v.Elements))
		for i, e := range v.Elements {
			elems[i] = exprText(e)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	default:
		return n.Kind().String()
	}
}
