package ast

import "strconv"

// Script is the root node of one source file: a collection of feature
// flags, includes, param assignments, functions, processes, workflows,
// and an optional entry workflow and output block (spec.md §3).
type Script struct {
	Base
	FeatureFlags []*FeatureFlag
	Includes     []*Include
	Params       []*Param
	Functions    []*Function
	Processes    []*Process
	Workflows    []*Workflow
	Output       *Output
}

func (n *Script) Kind() Kind { return KindScript }

// EntryWorkflow returns the script's nameless entry workflow, or nil if
// none is declared.
func (n *Script) EntryWorkflow() *Workflow {
	for _, w := range n.Workflows {
		if w.IsEntry() {
			return w
		}
	}
	return nil
}

func (n *Script) Children() []Node {
	out := make([]Node, 0, len(n.FeatureFlags)+len(n.Includes)+len(n.Params)+len(n.Functions)+len(n.Processes)+len(n.Workflows)+1)
	for _, f := range n.FeatureFlags {
		out = append(out, f)
	}
	for _, i := range n.Includes {
		out = append(out, i)
	}
	for _, p := range n.Params {
		out = append(out, p)
	}
	for _, f := range n.Functions {
		out = append(out, f)
	}
	for _, p := range n.Processes {
		out = append(out, p)
	}
	for _, w := range n.Workflows {
		out = append(out, w)
	}
	if n.Output != nil {
		out = append(out, n.Output)
	}
	return out
}

// IncludeVariable is one imported symbol from an Include: `x` or `x as z`.
type IncludeVariable struct {
	Base
	Name  string
	Alias string // empty if no `as` clause

	// Target is set by the Include Resolver (spec.md §4.5) once the
	// include's source path resolves to a concrete definition. It is nil
	// until then, and the variable is reported as an Unresolved include
	// diagnostic.
	Target Node
}

func (n *IncludeVariable) Kind() Kind      { return KindIncludeVariable }
func (n *IncludeVariable) Children() []Node { return nil }

// LocalName is the name this variable is known by in the including file:
// the alias if present, otherwise the imported name.
func (n *IncludeVariable) LocalName() string {
	if n.Alias != "" {
		return n.Alias
	}
	return n.Name
}

// Include is `include { x; y as z } from '<source path>'`.
type Include struct {
	Base
	SourcePath string
	Variables  []*IncludeVariable
}

func (n *Include) Kind() Kind { return KindInclude }
func (n *Include) Children() []Node {
	out := make([]Node, len(n.Variables))
	for i, v := range n.Variables {
		out[i] = v
	}
	return out
}

// ProcessBodyKind distinguishes a process's execution body shape.
type ProcessBodyKind int

const (
	ProcessBodyScript ProcessBodyKind = iota
	ProcessBodyShell
	ProcessBodyExec
)

// Process is `process NAME { directives inputs outputs when exec stub }`.
type Process struct {
	Base
	Name       string
	Directives *Block
	Inputs     *Block
	Outputs    *Block
	When       Node // optional when-expression
	BodyKind   ProcessBodyKind
	Exec       *Block
	Stub       *Block // optional
}

func (n *Process) Kind() Kind { return KindProcess }
func (n *Process) Children() []Node {
	var out []Node
	if n.Directives != nil {
		out = append(out, n.Directives)
	}
	if n.Inputs != nil {
		out = append(out, n.Inputs)
	}
	if n.Outputs != nil {
		out = append(out, n.Outputs)
	}
	if n.When != nil {
		out = append(out, n.When)
	}
	if n.Exec != nil {
		out = append(out, n.Exec)
	}
	if n.Stub != nil {
		out = append(out, n.Stub)
	}
	return out
}

// InputCount returns the number of declared input statements, used by the
// process-call arity checker (spec.md §4.6).
func (n *Process) InputCount() int {
	if n.Inputs == nil {
		return 0
	}
	return len(n.Inputs.Statements)
}

// OutputNames returns the declared `emit:` names of the process's outputs
// block, for validating `CALL.out.NAME` accesses (spec.md §4.6).
func (n *Process) OutputNames() []string {
	return blockEmitNames(n.Outputs)
}

// Workflow is `workflow [NAME] { [take:] [main:] [emit:] [publish:] }`. A
// missing name marks the entry workflow (spec.md §3's `isEntry()`).
type Workflow struct {
	Base
	Name       string // empty ⇒ entry workflow
	Takes      *Block
	Main       *Block
	Emits      *Block
	Publishers *Block
}

func (n *Workflow) Kind() Kind { return KindWorkflow }

// IsEntry reports whether this is the script's nameless entry workflow.
func (n *Workflow) IsEntry() bool { return n.Name == "" }

func (n *Workflow) Children() []Node {
	var out []Node
	if n.Takes != nil {
		out = append(out, n.Takes)
	}
	if n.Main != nil {
		out = append(out, n.Main)
	}
	if n.Emits != nil {
		out = append(out, n.Emits)
	}
	if n.Publishers != nil {
		out = append(out, n.Publishers)
	}
	return out
}

// TakeCount returns the number of declared `take:` entries, used by the
// workflow-call arity checker (spec.md §4.6).
func (n *Workflow) TakeCount() int {
	if n.Takes == nil {
		return 0
	}
	return len(n.Takes.Statements)
}

// DeclaredTakeCount returns the workflow's declared call-arity: a plain
// take entry (`name`, or an `each name` fan-out marker) counts for 1, but
// a `matrix name, N` entry counts for its literal N — it bundles N
// call-site positional arguments into one take name (SPEC_FULL.md's
// matrix/each take modifiers). `each` changes per-element execution
// fan-out, not arity, so it does not add to the count beyond the 1 its
// entry already contributes.
func (n *Workflow) DeclaredTakeCount() int {
	if n.Takes == nil {
		return 0
	}
	count := 0
	for _, stmt := range n.Takes.Statements {
		count += takeEntryArity(stmt)
	}
	return count
}

func takeEntryArity(stmt Node) int {
	es, ok := stmt.(*ExprStatement)
	if !ok {
		return 1
	}
	call, ok := es.Expr.(*Call)
	if !ok {
		return 1
	}
	id, ok := call.Callee.(*Identifier)
	if !ok || id.Name != "matrix" || len(call.Args) != 2 {
		return 1
	}
	lit, ok := call.Args[1].(*Literal)
	if !ok || lit.LitKind != LiteralNumber {
		return 1
	}
	count, err := strconv.Atoi(lit.Text)
	if err != nil || count < 1 {
		return 1
	}
	return count
}

// EmitNames returns the declared emit names of this workflow.
func (n *Workflow) EmitNames() []string {
	return blockEmitNames(n.Emits)
}

func blockEmitNames(b *Block) []string {
	if b == nil {
		return nil
	}
	var names []string
	for _, stmt := range b.Statements {
		es, ok := stmt.(*ExprStatement)
		if !ok {
			continue
		}
		call, ok := es.Expr.(*Call)
		if !ok {
			continue
		}
		callee, ok := call.Callee.(*Identifier)
		if !ok {
			continue
		}
		switch callee.Name {
		case "emit":
			if len(call.Args) > 0 {
				if id, ok := call.Args[0].(*Identifier); ok {
					names = append(names, id.Name)
				}
			}
		}
	}
	return names
}

// Function is `def NAME(params) { body }`, a plain host-language function
// definition usable from workflow/process bodies.
type Function struct {
	Base
	Name   string
	Params []string
	Body   *Block
}

func (n *Function) Kind() Kind { return KindFunction }
func (n *Function) Children() []Node {
	if n.Body == nil {
		return nil
	}
	return []Node{n.Body}
}

// Output is the script's single `output { body }` block.
type Output struct {
	Base
	Body *Block
}

func (n *Output) Kind() Kind { return KindOutput }
func (n *Output) Children() []Node {
	if n.Body == nil {
		return nil
	}
	return []Node{n.Body}
}

// FeatureFlag is a top-level `nextflow.feature.name = literal` assignment.
type FeatureFlag struct {
	Base
	DottedName string
	Value      Node
}

func (n *FeatureFlag) Kind() Kind { return KindFeatureFlag }
func (n *FeatureFlag) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

// Param is a top-level `params.name = expr` assignment. Target is the
// property-access expression rooted at `params`.
type Param struct {
	Base
	Target *PropertyAccess
	Value  Node
}

func (n *Param) Kind() Kind { return KindParam }

// Name is the flattened dotted name under `params`, e.g. `sample` for
// `params.sample` or `reads.r1` for `params.reads.r1`.
func (n *Param) Name() string {
	return dottedPathUnder(n.Target, "params")
}

func (n *Param) Children() []Node {
	var out []Node
	if n.Target != nil {
		out = append(out, n.Target)
	}
	if n.Value != nil {
		out = append(out, n.Value)
	}
	return out
}

// ParamsAccessName returns the flattened dotted name under `params` for a
// property-access expression rooted there, e.g. "sample" for
// `params.sample`, or "" if pa is not such a chain (spec.md §4.6: schema
// checking applies to both `params.<name> = expr` assignments and bare
// `params.<name>` read references).
func ParamsAccessName(pa *PropertyAccess) string {
	return dottedPathUnder(pa, "params")
}

// dottedPathUnder walks a PropertyAccess chain rooted at an Identifier
// equal to root, returning the remaining dotted path, or "" if the chain
// isn't rooted there.
func dottedPathUnder(pa *PropertyAccess, root string) string {
	if pa == nil {
		return ""
	}
	var segs []string
	cur := Node(pa)
	for {
		switch t := cur.(type) {
		case *PropertyAccess:
			segs = append([]string{t.Name}, segs...)
			cur = t.Target
		case *Identifier:
			if t.Name != root {
				return ""
			}
			joined := ""
			for i, s := range segs {
				if i > 0 {
					joined += "."
				}
				joined += s
			}
			return joined
		default:
			return ""
		}
	}
}

var (
	_ Node = (*Script)(nil)
	_ Node = (*Include)(nil)
	_ Node = (*IncludeVariable)(nil)
	_ Node = (*Process)(nil)
	_ Node = (*Workflow)(nil)
	_ Node = (*Function)(nil)
	_ Node = (*Output)(nil)
	_ Node = (*FeatureFlag)(nil)
	_ Node = (*Param)(nil)
)
