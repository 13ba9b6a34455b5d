// Package validate implements the Semantic Validators (spec.md §4.6): the
// process/workflow call checker, the parameter-schema checker, and the
// config-schema checker. Grounded on internal/config/validator.go's
// Validator decomposition into one method per sub-concern, each method
// returning its own typed diagnostics rather than accumulating them on a
// shared mutable receiver.
package validate

import (
	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/errs"
)

// CallChecker validates process/workflow invocation arity and `.out`
// accessor usage (spec.md §4.6).
type CallChecker struct{}

// calleeTable indexes a script's locally-declared and included
// process/workflow/function names so a bare Identifier callee can be
// resolved back to its declaration, without mutating the syntax tree the
// Name Resolver already walked (spec.md §3's "the syntax tree is never
// rewritten by a later pass" invariant).
type calleeTable struct {
	processes map[string]*ast.Process
	workflows map[string]*ast.Workflow
	includes  map[string]*ast.IncludeVariable
}

func buildCalleeTable(script *ast.Script) calleeTable {
	t := calleeTable{
		processes: make(map[string]*ast.Process, len(script.Processes)),
		workflows: make(map[string]*ast.Workflow, len(script.Workflows)),
		includes:  make(map[string]*ast.IncludeVariable),
	}
	for _, p := range script.Processes {
		t.processes[p.Name] = p
	}
	for _, w := range script.Workflows {
		if w.Name != "" {
			t.workflows[w.Name] = w
		}
	}
	for _, inc := range script.Includes {
		for _, v := range inc.Variables {
			t.includes[v.LocalName()] = v
		}
	}
	return t
}

// CheckScript walks every workflow's main: section of script, checking
// each call against the arity and named-output rules of its resolved
// callee.
func (c CallChecker) CheckScript(script *ast.Script) []errs.Diagnostic {
	t := buildCalleeTable(script)
	var diags []errs.Diagnostic
	for _, wf := range script.Workflows {
		diags = append(diags, c.checkBlock(wf.Main, t)...)
	}
	if script.Output != nil {
		diags = append(diags, c.checkBlock(script.Output.Body, t)...)
	}
	return diags
}

func (c CallChecker) checkBlock(b *ast.Block, t calleeTable) []errs.Diagnostic {
	if b == nil {
		return nil
	}
	var diags []errs.Diagnostic
	for _, stmt := range b.Statements {
		diags = append(diags, c.checkNode(stmt, t)...)
	}
	return diags
}

func (c CallChecker) checkNode(n ast.Node, t calleeTable) []errs.Diagnostic {
	switch v := n.(type) {
	case *ast.ExprStatement:
		return c.checkNode(v.Expr, t)
	case *ast.Call:
		var diags []errs.Diagnostic
		diags = append(diags, c.checkCall(v, t)...)
		for _, a := range v.Args {
			diags = append(diags, c.checkNode(a, t)...)
		}
		return diags
	case *ast.PropertyAccess:
		var diags []errs.Diagnostic
		if d := c.CheckOutAccess(v, t); d != nil {
			diags = append(diags, *d)
		}
		diags = append(diags, c.checkNode(v.Target, t)...)
		return diags
	case *ast.BinaryExpr:
		return append(c.checkNode(v.Left, t), c.checkNode(v.Right, t)...)
	default:
		return nil
	}
}

// checkCall validates one call against its resolved callee, when the
// callee names a locally-declared or included process/workflow. Arity is
// checked against InputCount()/DeclaredTakeCount() — the latter reports a
// workflow's declared cardinality, not its literal `take:` statement
// count, since a `matrix name, N` entry bundles N call-site arguments
// into one take name. This checker does not itself perform name
// resolution, so an unresolved callee produces no diagnostic here (the
// Name Resolver already reported it).
func (c CallChecker) checkCall(call *ast.Call, t calleeTable) []errs.Diagnostic {
	decl := t.resolveCallee(call.Callee)
	if decl == nil {
		return nil
	}
	switch v := decl.(type) {
	case *ast.Process:
		if want := v.InputCount(); want != len(call.Args) {
			return []errs.Diagnostic{errs.Error(errs.PhaseTypeInference, call.Span(),
				"Incorrect number of call arguments, expected %d but received %d", want, len(call.Args))}
		}
	case *ast.Workflow:
		if want := v.DeclaredTakeCount(); want != len(call.Args) {
			return []errs.Diagnostic{errs.Error(errs.PhaseTypeInference, call.Span(),
				"Incorrect number of call arguments, expected %d but received %d", want, len(call.Args))}
		}
	}
	return nil
}

// resolveCallee maps a callee expression to the Process/Workflow
// declaration it names: an included variable's Target once the Include
// Resolver has bound it, or a name declared directly in this script.
func (t calleeTable) resolveCallee(n ast.Node) ast.Node {
	id, ok := n.(*ast.Identifier)
	if !ok {
		return nil
	}
	if inc, ok := t.includes[id.Name]; ok {
		return inc.Target
	}
	if p, ok := t.processes[id.Name]; ok {
		return p
	}
	if w, ok := t.workflows[id.Name]; ok {
		return w
	}
	return nil
}

// CheckOutAccess validates `CALL.out.NAME` property accesses against the
// resolved call's declared output names, per spec.md §4.6: `.out` alone
// is always valid, `.out.NAME` requires NAME to be one of the callee's
// declared emit names, and named access is only meaningful when the
// callee is the entry workflow or a process (spec.md's restriction on
// named-output addressing for non-entry workflows, enforced earlier at
// parse time in dsl_parser.go's parseWorkflow). The receiver of `.out` is
// either a fresh invocation (`greet().out.bye`) or a bare identifier
// referencing a process/workflow invoked earlier as its own statement
// (`P(); P.out.bar`, the idiomatic Nextflow style) — both resolve through
// the same calleeTable lookup.
func (c CallChecker) CheckOutAccess(pa *ast.PropertyAccess, t calleeTable) *errs.Diagnostic {
	outer, ok := pa.Target.(*ast.PropertyAccess)
	if !ok || outer.Name != "out" {
		return nil
	}
	var callee ast.Node
	switch target := outer.Target.(type) {
	case *ast.Call:
		callee = target.Callee
	case *ast.Identifier:
		callee = target
	default:
		return nil
	}
	decl := t.resolveCallee(callee)
	if decl == nil {
		return nil
	}
	var names []string
	var kind, declName string
	switch d := decl.(type) {
	case *ast.Process:
		names = d.OutputNames()
		kind, declName = "process", d.Name
	case *ast.Workflow:
		names = d.EmitNames()
		kind, declName = "workflow", d.Name
	default:
		return nil
	}
	for _, n := range names {
		if n == pa.Name {
			return nil
		}
	}
	d := errs.Error(errs.PhaseTypeInference, pa.Span(),
		"Unrecognized output `%s` for %s `%s`", pa.Name, kind, declName)
	return &d
}
