package features

import (
	"strings"

	"github.com/surgebase/porter2"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// SymbolKind distinguishes the declaration kinds document/workspace
// symbols expose (spec.md §4.9: "declarations only").
type SymbolKind int

const (
	SymbolFunction SymbolKind = iota
	SymbolProcess
	SymbolWorkflow
)

// Symbol is one declaration-site result.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	URI   lsptypes.URI
	Range lsptypes.Range
}

// DocumentSymbols returns uri's function, process and named-workflow
// declarations: functions first, then processes, then workflows, each
// group in source order. The entry workflow is skipped.
func DocumentSymbols(c *astcache.Cache, uri lsptypes.URI) []Symbol {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return nil
	}
	var out []Symbol
	for _, fn := range u.Script.Functions {
		out = append(out, Symbol{Name: fn.Name, Kind: SymbolFunction, URI: uri, Range: fn.Span()})
	}
	for _, p := range u.Script.Processes {
		out = append(out, Symbol{Name: p.Name, Kind: SymbolProcess, URI: uri, Range: p.Span()})
	}
	for _, w := range u.Script.Workflows {
		if w.IsEntry() {
			continue
		}
		out = append(out, Symbol{Name: w.Name, Kind: SymbolWorkflow, URI: uri, Range: w.Span()})
	}
	return out
}

// WorkspaceSymbols searches every known unit's declarations for query,
// stemming both the query and candidate names with the Porter2 algorithm
// so "indexing"/"index"/"indexed"-style variants match each other.
// Grounded on internal/semantic/stemmer.go's Stemmer.Stem dispatch
// (porter2.Stem), narrowed here to the single always-on algorithm since
// the DSL workspace has no configurable stemming algorithm to select
// between.
// WorkspaceSymbols searches every file's document symbols for query,
// ranking exact name matches first, then prefix matches, then stemmed
// substring matches (SPEC_FULL.md's Feature Providers expansion: "exact
// and prefix matches are always ranked above stemmed matches").
func WorkspaceSymbols(c *astcache.Cache, query string) []Symbol {
	lowerQuery := strings.ToLower(query)
	needle := stem(query)

	var exact, prefix, stemmed []Symbol
	for _, uri := range c.URIs() {
		for _, sym := range DocumentSymbols(c, uri) {
			lowerName := strings.ToLower(sym.Name)
			switch {
			case needle == "" || lowerName == lowerQuery:
				exact = append(exact, sym)
			case strings.HasPrefix(lowerName, lowerQuery):
				prefix = append(prefix, sym)
			case strings.Contains(stem(sym.Name), needle):
				stemmed = append(stemmed, sym)
			}
		}
	}
	out := make([]Symbol, 0, len(exact)+len(prefix)+len(stemmed))
	out = append(out, exact...)
	out = append(out, prefix...)
	out = append(out, stemmed...)
	return out
}

func stem(s string) string {
	if s == "" {
		return ""
	}
	return strings.ToLower(porter2.Stem(s))
}
