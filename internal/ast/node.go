// Package ast is the Syntax Tree Model (spec.md §3): tagged-variant nodes
// for scripts, includes, processes, workflows, functions, params, output
// blocks, config assignments/blocks, and generic expression/statement
// nodes. Per the redesign note in spec.md §9 ("deep inheritance of
// visitor/node hierarchies → tagged variants with a single traversal
// trait"), every concrete type implements the single Node interface and
// traversal is an exhaustive switch over Kind(), not virtual dispatch
// across a class hierarchy.
package ast

import "github.com/standardbeagle/wflsp/internal/lsptypes"

// Kind tags the concrete type of a Node for exhaustive switches.
type Kind int

const (
	KindScript Kind = iota
	KindInclude
	KindIncludeVariable
	KindProcess
	KindWorkflow
	KindFunction
	KindOutput
	KindFeatureFlag
	KindParam
	KindConfigFile
	KindConfigAssignment
	KindConfigBlock
	KindConfigInclude

	// Generic expression/statement nodes.
	KindIdentifier
	KindLiteral
	KindPropertyAccess
	KindCall
	KindBinaryExpr
	KindUnaryExpr
	KindClosure
	KindListExpr
	KindMapExpr
	KindExprStatement
	KindBlock
	KindOpaqueExpr // produced when expression sub-parsing fails; see SPEC_FULL.md
)

func (k Kind) String() string {
	switch k {
	case KindScript:
		return "Script"
	case KindInclude:
		return "Include"
	case KindIncludeVariable:
		return "IncludeVariable"
	case KindProcess:
		return "Process"
	case KindWorkflow:
		return "Workflow"
	case KindFunction:
		return "Function"
	case KindOutput:
		return "Output"
	case KindFeatureFlag:
		return "FeatureFlag"
	case KindParam:
		return "Param"
	case KindConfigFile:
		return "ConfigFile"
	case KindConfigAssignment:
		return "ConfigAssignment"
	case KindConfigBlock:
		return "ConfigBlock"
	case KindConfigInclude:
		return "ConfigInclude"
	case KindIdentifier:
		return "Identifier"
	case KindLiteral:
		return "Literal"
	case KindPropertyAccess:
		return "PropertyAccess"
	case KindCall:
		return "Call"
	case KindBinaryExpr:
		return "BinaryExpr"
	case KindUnaryExpr:
		return "UnaryExpr"
	case KindClosure:
		return "Closure"
	case KindListExpr:
		return "ListExpr"
	case KindMapExpr:
		return "MapExpr"
	case KindExprStatement:
		return "ExprStatement"
	case KindBlock:
		return "Block"
	case KindOpaqueExpr:
		return "OpaqueExpr"
	default:
		return "Unknown"
	}
}

// Node is the single traversal trait every syntax-tree node implements.
// Synthetic nodes (generated during resolution, e.g. a virtual params
// class from a flattened JSON schema) are excluded from a file's node
// list and parent index (spec.md §3's invariants) but still satisfy Node
// so resolution code can treat them uniformly.
type Node interface {
	Kind() Kind
	Span() lsptypes.Range
	DocComment() string
	Handle() lsptypes.NodeHandle
	Synthetic() bool
	// Children returns the node's immediate syntactic children, in source
	// order, for the single traversal the parent index performs per tree
	// (spec.md §4.3). Synthetic children are still returned here; the
	// registry is responsible for excluding them from its node list.
	Children() []Node

	setHandle(lsptypes.NodeHandle)
}

// Base is embedded by every concrete node and implements the bookkeeping
// fields of Node (handle, range, doc comment, synthetic flag).
type Base struct {
	NodeHandle lsptypes.NodeHandle
	RangeVal   lsptypes.Range
	Doc        string
	IsSynth    bool
}

func (b *Base) Span() lsptypes.Range         { return b.RangeVal }
func (b *Base) DocComment() string           { return b.Doc }
func (b *Base) Handle() lsptypes.NodeHandle  { return b.NodeHandle }
func (b *Base) Synthetic() bool              { return b.IsSynth }
func (b *Base) setHandle(h lsptypes.NodeHandle) { b.NodeHandle = h }

// Assign is called exactly once, by the node registry, when a node is
// first indexed. It is the only place a handle is set; spec.md requires
// handles be "assigned at construction" and stable thereafter, which in
// this implementation means "assigned at first-index", since construction
// happens before the node is attached to any tree.
func Assign(n Node, h lsptypes.NodeHandle) { n.setHandle(h) }
