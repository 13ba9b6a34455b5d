package features

import (
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/resolve"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// CompletionItemKind mirrors the handful of kinds the DSL's completion
// surface distinguishes (spec.md §4.9).
type CompletionItemKind int

const (
	CompletionProcess CompletionItemKind = iota
	CompletionWorkflow
	CompletionFunction
	CompletionVariable
	CompletionParam
	CompletionBuiltin
	CompletionSnippet
)

// CompletionItem is one candidate.
type CompletionItem struct {
	Label string
	Kind  CompletionItemKind
}

// maxCompletionItems bounds a single completion response; beyond it the
// list is marked incomplete rather than silently truncated (spec.md
// §4.9: "items beyond the configured limit mark the list incomplete").
const maxCompletionItems = 200

// Completion returns context-sensitive items for pos (spec.md §4.9):
// scope-based variables/functions/processes/workflows when inside a
// body, or a fixed set of top-level snippets when the file is empty.
func Completion(c *astcache.Cache, uri lsptypes.URI, pos lsptypes.Position, paramSchema *schema.ParamSchema) (items []CompletionItem, incomplete bool) {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return topLevelSnippets(), false
	}
	if len(u.Script.Processes) == 0 && len(u.Script.Workflows) == 0 && len(u.Script.Functions) == 0 {
		return topLevelSnippets(), false
	}

	r := &resolve.NameResolver{ParamSchema: paramSchema}
	scope := r.TopLevelScope(u.Script)
	for _, name := range scope.Names() {
		items = append(items, CompletionItem{Label: name, Kind: kindForBinding(scope, name)})
		if len(items) >= maxCompletionItems {
			return items, true
		}
	}
	return items, false
}

func kindForBinding(scope *resolve.Scope, name string) CompletionItemKind {
	b, ok := scope.Lookup(name)
	if !ok {
		return CompletionBuiltin
	}
	switch b.Kind {
	case resolve.BindingProcess:
		return CompletionProcess
	case resolve.BindingWorkflow:
		return CompletionWorkflow
	case resolve.BindingFunction:
		return CompletionFunction
	case resolve.BindingParam:
		return CompletionParam
	case resolve.BindingLocal, resolve.BindingInclude:
		return CompletionVariable
	default:
		return CompletionBuiltin
	}
}

func topLevelSnippets() []CompletionItem {
	return []CompletionItem{
		{Label: "process", Kind: CompletionSnippet},
		{Label: "workflow", Kind: CompletionSnippet},
		{Label: "include", Kind: CompletionSnippet},
		{Label: "def", Kind: CompletionSnippet},
		{Label: "output", Kind: CompletionSnippet},
		{Label: "params", Kind: CompletionSnippet},
	}
}
