package resolve

import (
	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/errs"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// suggestionThreshold is the minimum Jaro-Winkler similarity score for an
// unresolved name to earn a "did you mean" suggestion, matching
// internal/semantic/fuzzy_matcher.go's TranslationDictionary default.
const suggestionThreshold = 0.80

// NameResolver binds every identifier reference in a script against its
// declared functions/processes/workflows, imported include variables,
// the built-in DSL surface, and (when present) a schema-synthesized
// virtual params class (spec.md §4.4).
type NameResolver struct {
	ParamSchema *schema.ParamSchema // nil if no adjacent schema document
}

// Resolve walks script's top-level declarations and bodies, returning one
// diagnostic per unresolved identifier reference. It does not mutate the
// tree; binding results are not cached onto nodes (spec.md §4.4 treats
// name resolution as a pure query pass, re-run wholesale on re-parse).
func (r *NameResolver) Resolve(script *ast.Script) []errs.Diagnostic {
	top := r.TopLevelScope(script)

	var diags []errs.Diagnostic
	for _, fn := range script.Functions {
		fnScope := NewScope(top)
		for _, param := range fn.Params {
			fnScope.Declare(Binding{Name: param, Kind: BindingLocal})
		}
		diags = append(diags, r.resolveBlock(fn.Body, fnScope)...)
	}
	for _, proc := range script.Processes {
		procScope := NewScope(top)
		declareBlockNames(proc.Inputs, procScope)
		if proc.When != nil {
			diags = append(diags, r.resolveExpr(proc.When, procScope)...)
		}
	}
	for _, wf := range script.Workflows {
		wfScope := NewScope(top)
		declareBlockNames(wf.Takes, wfScope)
		diags = append(diags, r.resolveBlock(wf.Main, wfScope)...)
		diags = append(diags, r.resolveBlock(wf.Emits, wfScope)...)
		diags = append(diags, r.resolveBlock(wf.Publishers, wfScope)...)
	}
	if script.Output != nil {
		diags = append(diags, r.resolveBlock(script.Output.Body, top)...)
	}
	for _, p := range script.Params {
		if p.Value != nil {
			diags = append(diags, r.resolveExpr(p.Value, top)...)
		}
	}
	return diags
}

// TopLevelScope builds script's top-level scope (declarations, includes,
// schema params, over the built-in DSL surface). Exported so the Feature
// Providers can resolve a name at a cursor position without re-running a
// full Resolve pass just to get the scope chain (spec.md §4.9's
// "resolve the node under cursor to its definition").
func (r *NameResolver) TopLevelScope(script *ast.Script) *Scope {
	top := NewScope(RootScope())
	r.declareTopLevel(script, top)
	return top
}

func (r *NameResolver) declareTopLevel(script *ast.Script, scope *Scope) {
	for _, fn := range script.Functions {
		scope.Declare(Binding{Name: fn.Name, Kind: BindingFunction, Node: fn})
	}
	for _, proc := range script.Processes {
		scope.Declare(Binding{Name: proc.Name, Kind: BindingProcess, Node: proc})
	}
	for _, wf := range script.Workflows {
		if wf.Name != "" {
			scope.Declare(Binding{Name: wf.Name, Kind: BindingWorkflow, Node: wf})
		}
	}
	for _, inc := range script.Includes {
		for _, v := range inc.Variables {
			scope.Declare(Binding{Name: v.LocalName(), Kind: BindingInclude, Node: v})
		}
	}
	if r.ParamSchema != nil {
		for _, name := range r.ParamSchema.Names() {
			scope.Declare(Binding{Name: name, Kind: BindingParam})
		}
	}
}

// declareBlockNames declares the name each input/take statement introduces
// as a local binding for the rest of the enclosing body: the first
// identifier argument (`val name`, `each x`, `matrix combos, 3`), or the
// callee itself for a bare entry such as `x`, per
// spec.md §4.4 ("input/take declarations introduce locals scoped to the
// remainder of the process/workflow").
func declareBlockNames(b *ast.Block, scope *Scope) {
	if b == nil {
		return
	}
	for _, stmt := range b.Statements {
		es, ok := stmt.(*ast.ExprStatement)
		if !ok {
			continue
		}
		call, ok := es.Expr.(*ast.Call)
		if !ok {
			continue
		}
		if len(call.Args) == 0 {
			if id, ok := call.Callee.(*ast.Identifier); ok {
				scope.Declare(Binding{Name: id.Name, Kind: BindingLocal, Node: id})
			}
			continue
		}
		for _, a := range call.Args {
			if id, ok := a.(*ast.Identifier); ok {
				scope.Declare(Binding{Name: id.Name, Kind: BindingLocal, Node: id})
				break
			}
		}
	}
}

func (r *NameResolver) resolveBlock(b *ast.Block, scope *Scope) []errs.Diagnostic {
	if b == nil {
		return nil
	}
	var diags []errs.Diagnostic
	for _, stmt := range b.Statements {
		diags = append(diags, r.resolveExpr(stmt, scope)...)
	}
	return diags
}

// resolveExpr walks an expression subtree, checking bare Identifier leaves
// against scope. PropertyAccess/Call nodes recurse into their operands but
// do not themselves require a binding (spec.md §4.4: only the root
// identifier of a reference chain is resolved; member names are opaque).
func (r *NameResolver) resolveExpr(n ast.Node, scope *Scope) []errs.Diagnostic {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *ast.Identifier:
		if _, ok := scope.Lookup(v.Name); ok {
			return nil
		}
		return []errs.Diagnostic{r.unresolved(v.Name, v.Span(), scope)}
	case *ast.PropertyAccess:
		return r.resolveExpr(v.Target, scope)
	case *ast.Call:
		var diags []errs.Diagnostic
		diags = append(diags, r.resolveExpr(v.Callee, scope)...)
		for _, a := range v.Args {
			diags = append(diags, r.resolveExpr(a, scope)...)
		}
		return diags
	case *ast.BinaryExpr:
		return append(r.resolveExpr(v.Left, scope), r.resolveExpr(v.Right, scope)...)
	case *ast.UnaryExpr:
		return r.resolveExpr(v.Operand, scope)
	case *ast.ListExpr:
		var diags []errs.Diagnostic
		for _, e := range v.Elements {
			diags = append(diags, r.resolveExpr(e, scope)...)
		}
		return diags
	case *ast.MapExpr:
		var diags []errs.Diagnostic
		for _, e := range v.Entries {
			diags = append(diags, r.resolveExpr(e.Value, scope)...)
		}
		return diags
	case *ast.Closure:
		inner := NewScope(scope)
		for _, p := range v.Params {
			inner.Declare(Binding{Name: p, Kind: BindingLocal})
		}
		var diags []errs.Diagnostic
		for _, stmt := range v.Body {
			diags = append(diags, r.resolveExpr(stmt, inner)...)
		}
		return diags
	case *ast.ExprStatement:
		return r.resolveExpr(v.Expr, scope)
	case *ast.OpaqueExpr:
		// Opaque text contributes no resolvable identifiers (spec.md §7).
		return nil
	default:
		return nil
	}
}

func (r *NameResolver) unresolved(name string, span lsptypes.Range, scope *Scope) errs.Diagnostic {
	d := errs.Error(errs.PhaseNameResolution, span, "unresolved reference %q", name)
	if suggestion, ok := bestSuggestion(name, scope.Names()); ok {
		d.Message += ": did you mean " + suggestion + "?"
	}
	return d
}

// bestSuggestion returns the candidate with the highest Jaro-Winkler
// similarity to name, if it clears suggestionThreshold, grounded on
// internal/semantic/fuzzy_matcher.go's jaroWinkler method (same
// edlib.StringsSimilarity call, same 0.80 convention).
func bestSuggestion(name string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		if c == name {
			continue
		}
		score, err := edlib.StringsSimilarity(name, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = c
		}
	}
	if bestScore >= suggestionThreshold {
		return best, true
	}
	return "", false
}
