package resolve

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/errs"
)

// ScriptSource supplies a resolved script tree for a URI, used by the
// Include Resolver to look up an include's source file without owning a
// reference to the full orchestrator (spec.md §4.5 keeps include
// resolution decoupled from the cache's lifecycle management).
type ScriptSource interface {
	ScriptFor(uri string) (*ast.Script, bool)
}

// IncludeResolver binds every Include's variables against the exported
// declarations of its source file, repeating until a fixpoint: an include
// whose source is itself mid-resolution (or whose processes/workflows are
// still being added) is retried on the next round, bounded by
// maxFixpointRounds so a genuine cycle or dangling include terminates
// with "unresolved include" diagnostics rather than looping forever
// (spec.md §4.5: "monotone binding; resolving is idempotent and
// identity-based, so cycles are tolerated rather than rejected").
type IncludeResolver struct {
	Sources ScriptSource
}

const maxFixpointRounds = 25

// Resolve resolves includes across every script in uris, returning the
// diagnostics produced for each URI. It mutates IncludeVariable.Target in
// place as bindings are discovered — grounded on
// internal/core/index_coordinator.go's poll-until-stable status loop,
// generalized here from lock-state polling to binding-state polling.
func (r *IncludeResolver) Resolve(scripts map[string]*ast.Script) map[string][]errs.Diagnostic {
	diags := make(map[string][]errs.Diagnostic)
	for round := 0; round < maxFixpointRounds; round++ {
		progressed := false
		for uri, script := range scripts {
			for _, inc := range script.Includes {
				for _, v := range inc.Variables {
					if v.Target != nil {
						continue
					}
					if target := r.resolveOne(uri, inc.SourcePath, v.Name, scripts); target != nil {
						v.Target = target
						progressed = true
					}
				}
			}
		}
		if !progressed {
			break
		}
	}

	for uri, script := range scripts {
		for _, inc := range script.Includes {
			for _, v := range inc.Variables {
				if v.Target == nil {
					diags[uri] = append(diags[uri], errs.Error(errs.PhaseIncludeResolution, v.Span(),
						"unresolved include: %q is not exported by %q", v.Name, inc.SourcePath))
				}
			}
		}
	}
	return diags
}

func (r *IncludeResolver) resolveOne(fromURI, sourcePath, name string, scripts map[string]*ast.Script) ast.Node {
	target := resolveSourceURI(fromURI, sourcePath)
	script, ok := scripts[target]
	if !ok && r.Sources != nil {
		script, ok = r.Sources.ScriptFor(target)
	}
	if !ok || script == nil {
		return nil
	}
	for _, proc := range script.Processes {
		if proc.Name == name {
			return proc
		}
	}
	for _, wf := range script.Workflows {
		if wf.Name == name {
			return wf
		}
	}
	for _, fn := range script.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

// resolveSourceURI resolves an include's relative source path against the
// including file's own URI. sourcePath always ends in the DSL's module
// extension or is extended with it if omitted, per spec.md §4.5.
func resolveSourceURI(fromURI, sourcePath string) string {
	dir := path.Dir(fromURI)
	joined := path.Join(dir, sourcePath)
	if filepath.Ext(joined) == "" {
		joined += ".wfl"
	}
	return joined
}

// SplitIncludeAlias separates a `from './lib/modules'` relative path into
// its cleaned directory and its base name without extension. No other
// package calls it; in particular the workspace watcher does not.
func SplitIncludeAlias(sourcePath string) (dir, base string) {
	return path.Dir(sourcePath), strings.TrimSuffix(path.Base(sourcePath), path.Ext(sourcePath))
}
