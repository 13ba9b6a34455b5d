// Package resolve implements the Name Resolver and Include Resolver
// (spec.md §4.4, §4.5): a lexical scope chain over declared functions,
// processes, workflows, imported include variables, the built-in DSL
// surface, and schema-synthesized param fields, plus the cross-file
// include fixpoint that binds IncludeVariable.Target once a source
// script resolves.
package resolve

import "github.com/standardbeagle/wflsp/internal/ast"

// BindingKind tags what an identifier in scope refers to.
type BindingKind int

const (
	BindingBuiltin BindingKind = iota
	BindingProcess
	BindingWorkflow
	BindingFunction
	BindingInclude
	BindingParam
	BindingLocal
)

// Binding is one name available for reference at some point in a script.
type Binding struct {
	Name string
	Kind BindingKind
	Node ast.Node // declaration node, nil for builtins
}

// Scope is one lexical level of the name resolution chain: a script's
// top-level declarations, or a closure/function's parameter list.
type Scope struct {
	parent   *Scope
	bindings map[string]Binding
}

// NewScope creates a child scope of parent (nil for the root scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, bindings: make(map[string]Binding)}
}

// Declare adds or overwrites a binding in this scope.
func (s *Scope) Declare(b Binding) { s.bindings[b.Name] = b }

// Lookup searches this scope and its ancestors, innermost first.
func (s *Scope) Lookup(name string) (Binding, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.bindings[name]; ok {
			return b, true
		}
	}
	return Binding{}, false
}

// Names returns every name visible from this scope, used as "did you
// mean" suggestion candidates; a name declared at several levels is
// listed once (a closer binding simply wins on Lookup).
func (s *Scope) Names() []string {
	seen := make(map[string]bool)
	var out []string
	for cur := s; cur != nil; cur = cur.parent {
		for name := range cur.bindings {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// builtinNames is the DSL's built-in surface: channel factories and
// workflow-composition primitives that are always in scope, per spec.md
// §4.4's "built-in DSL surface" binding source. This is a name-resolution
// allowlist only; the analyzer core does not model their semantics
// (spec.md §2's non-goals exclude dataflow/channel-type inference).
var builtinNames = []string{
	"channel", "Channel",
	"file", "files", "path",
	"tuple", "val", "env", "stdin", "stdout",
	"params", "workflow", "nextflow",
	"println", "print", "log",
	"emit", "collect", "map", "filter", "view", "set", "combine", "mix", "flatten",
	"groupTuple", "splitCsv", "splitText", "fromPath", "fromFilePairs", "of",
}

// RootScope builds the outermost scope containing only the built-in DSL
// surface; every script's top-level scope is a child of it.
func RootScope() *Scope {
	s := NewScope(nil)
	for _, name := range builtinNames {
		s.Declare(Binding{Name: name, Kind: BindingBuiltin})
	}
	return s
}
