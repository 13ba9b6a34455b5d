// Package astcache implements the orchestrator (spec.md §4.7): it owns
// every open/scanned file's SourceUnit, drives the phase pipeline
// (parse → name resolution → include-resolution fixpoint → semantic
// validation) in order, and exposes the positional/symbolic query
// surface the Feature Providers call. Grounded on
// internal/core/ast_store.go's per-file storage-with-wholesale-replace
// pattern (here SourceUnit replaces a tree-sitter *Tree entry) and
// internal/core/index_coordinator.go's phase-ordered coordination with a
// sync.RWMutex-guarded registry.
package astcache

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/astindex"
	"github.com/standardbeagle/wflsp/internal/errs"
	"github.com/standardbeagle/wflsp/internal/filecache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/parser"
	"github.com/standardbeagle/wflsp/internal/resolve"
	"github.com/standardbeagle/wflsp/internal/schema"
	"github.com/standardbeagle/wflsp/internal/validate"
)

// SourceUnit is everything the cache knows about one file, replaced
// wholesale on every successful re-parse (spec.md §3's ownership
// invariant).
type SourceUnit struct {
	URI      lsptypes.URI
	IsConfig bool
	Script   *ast.Script
	Config   *ast.ConfigFile
	Registry *astindex.Registry

	// diags is keyed by phase so a phase re-run replaces only its own
	// subset (spec.md §4.11's "Diagnostic phase isolation").
	diags map[errs.Phase][]errs.Diagnostic
}

// Diagnostics returns every diagnostic for this unit across all phases,
// in a stable phase order.
func (u *SourceUnit) Diagnostics() []errs.Diagnostic {
	var out []errs.Diagnostic
	for _, phase := range []errs.Phase{
		errs.PhaseSyntax, errs.PhaseNameResolution, errs.PhaseIncludeResolution,
		errs.PhaseTypeInference, errs.PhaseSchema,
	} {
		out = append(out, u.diags[phase]...)
	}
	return out
}

func (u *SourceUnit) setPhase(phase errs.Phase, ds []errs.Diagnostic) {
	if u.diags == nil {
		u.diags = make(map[errs.Phase][]errs.Diagnostic)
	}
	u.diags[phase] = ds
}

func (u *SourceUnit) hasSeverity(sev errs.Severity) bool {
	for _, d := range u.Diagnostics() {
		if d.Severity == sev {
			return true
		}
	}
	return false
}

// hasEarlierPhaseErrors reports whether any of the phases that run before
// semantic validation (syntax, name resolution, include resolution) have
// an error-severity diagnostic recorded. Used to gate runValidation: a
// malformed tree has no business producing type-inference/schema
// diagnostics on top of it (spec.md §4.7 step 4, §7: "semantic validators
// are skipped for files that have any earlier-phase errors").
func (u *SourceUnit) hasEarlierPhaseErrors() bool {
	for _, phase := range []errs.Phase{errs.PhaseSyntax, errs.PhaseNameResolution, errs.PhaseIncludeResolution} {
		for _, d := range u.diags[phase] {
			if d.Severity == errs.SeverityError {
				return true
			}
		}
	}
	return false
}

// Cache is the orchestrator. One Cache serves one workspace.
type Cache struct {
	mu    sync.RWMutex
	files *filecache.Cache
	units map[lsptypes.URI]*SourceUnit

	ParamSchema  *schema.ParamSchema
	ConfigSchema *schema.ConfigSchema

	// maxParallelParses bounds the errgroup worker pool for one Analyze
	// batch, grounded on cmd/up/xpkg/push.go's errgroup.WithContext fan-out
	// over independent per-item work with a pinned loop variable.
	maxParallelParses int
}

// New creates an empty Cache over files.
func New(files *filecache.Cache) *Cache {
	return &Cache{
		files:             files,
		units:             make(map[lsptypes.URI]*SourceUnit),
		maxParallelParses: 8,
	}
}

// Analyze re-parses every URI in uris, then runs name resolution over
// the reparsed units, then the include-resolution fixpoint across the
// whole known unit set, then
// semantic validation over the expanded changed set, replacing each
// phase's diagnostics independently. Parsing of independent URIs is
// bounded-concurrent via errgroup; every later phase runs
// single-threaded over the resulting unit map, since those phases
// read/write shared cross-file state (include bindings). Returns every
// URI whose diagnostics may have changed: the reparsed set plus any
// other file whose include bindings shifted as a result (spec.md §4.7's
// "analyze(uris) → changedUris").
func (c *Cache) Analyze(ctx context.Context, uris []lsptypes.URI) ([]lsptypes.URI, error) {
	parsed, err := c.parseAll(ctx, uris)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	for uri, unit := range parsed {
		c.units[uri] = unit
	}
	allUnits := make(map[lsptypes.URI]*SourceUnit, len(c.units))
	for uri, unit := range c.units {
		allUnits[uri] = unit
	}
	c.mu.Unlock()

	c.runNameResolution(parsed)
	includeChanged := c.runIncludeResolution(allUnits)

	changed := make(map[lsptypes.URI]struct{}, len(parsed)+len(includeChanged))
	for uri := range parsed {
		changed[uri] = struct{}{}
	}
	for _, uri := range includeChanged {
		changed[uri] = struct{}{}
	}
	validateSet := make(map[lsptypes.URI]*SourceUnit, len(changed))
	for uri := range changed {
		if u, ok := allUnits[uri]; ok {
			validateSet[uri] = u
		}
	}
	c.runValidation(validateSet)

	out := make([]lsptypes.URI, 0, len(changed))
	for uri := range changed {
		out = append(out, uri)
	}
	return out, nil
}

func (c *Cache) parseAll(ctx context.Context, uris []lsptypes.URI) (map[lsptypes.URI]*SourceUnit, error) {
	results := make(map[lsptypes.URI]*SourceUnit, len(uris))
	var resultsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxParallelParses)
	for _, uri := range uris {
		uri := uri
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			unit, err := c.parseOne(uri)
			if err != nil {
				return err
			}
			resultsMu.Lock()
			results[uri] = unit
			resultsMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *Cache) parseOne(uri lsptypes.URI) (*SourceUnit, error) {
	text, err := c.files.ReadText(uri)
	if err != nil {
		return nil, err
	}
	isConfig := isConfigURI(uri)
	var res parser.Result
	if isConfig {
		res = parser.ParseConfig(string(uri), text)
	} else {
		res = parser.ParseScript(string(uri), text)
	}

	unit := &SourceUnit{URI: uri, IsConfig: isConfig, Script: res.Script, Config: res.Config}
	unit.setPhase(errs.PhaseSyntax, res.Diagnostics)

	var root ast.Node
	if res.Script != nil {
		root = res.Script
	} else if res.Config != nil {
		root = res.Config
	}
	unit.Registry = astindex.Build(root, 1)
	return unit, nil
}

func isConfigURI(uri lsptypes.URI) bool {
	s := string(uri)
	return len(s) >= 7 && s[len(s)-7:] == ".config"
}

func (c *Cache) runNameResolution(units map[lsptypes.URI]*SourceUnit) {
	resolver := resolve.NameResolver{ParamSchema: c.ParamSchema}
	for _, unit := range units {
		if unit.Script == nil {
			continue
		}
		unit.setPhase(errs.PhaseNameResolution, resolver.Resolve(unit.Script))
	}
}

// runIncludeResolution runs the include-resolution fixpoint over every
// known unit and returns the URIs whose include bindings changed as a
// result (newly resolved or newly reported unresolved), so the caller
// can extend Analyze's changedUris / validation set beyond the URIs that
// were themselves reparsed (spec.md §4.7 step 3).
func (c *Cache) runIncludeResolution(units map[lsptypes.URI]*SourceUnit) []lsptypes.URI {
	scripts := make(map[string]*ast.Script, len(units))
	before := make(map[string][]ast.Node)
	for uri, unit := range units {
		if unit.Script == nil {
			continue
		}
		scripts[string(uri)] = unit.Script
		var targets []ast.Node
		for _, inc := range unit.Script.Includes {
			for _, v := range inc.Variables {
				targets = append(targets, v.Target)
			}
		}
		before[string(uri)] = targets
	}

	resolver := resolve.IncludeResolver{}
	diagsByURI := resolver.Resolve(scripts)

	var changed []lsptypes.URI
	for uri, unit := range units {
		unit.setPhase(errs.PhaseIncludeResolution, diagsByURI[string(uri)])
		if unit.Script == nil {
			continue
		}
		i := 0
		shifted := false
		for _, inc := range unit.Script.Includes {
			for _, v := range inc.Variables {
				if before[string(uri)][i] != v.Target {
					shifted = true
				}
				i++
			}
		}
		if shifted {
			changed = append(changed, uri)
		}
	}
	return changed
}

func (c *Cache) runValidation(units map[lsptypes.URI]*SourceUnit) {
	callChecker := validate.CallChecker{}
	paramChecker := validate.ParamChecker{Schema: c.ParamSchema}
	configChecker := validate.ConfigChecker{Schema: c.ConfigSchema}
	for _, unit := range units {
		if unit.hasEarlierPhaseErrors() {
			unit.setPhase(errs.PhaseTypeInference, nil)
			unit.setPhase(errs.PhaseSchema, nil)
			continue
		}
		var diags []errs.Diagnostic
		if unit.Script != nil {
			diags = append(diags, callChecker.CheckScript(unit.Script)...)
			diags = append(diags, paramChecker.CheckAssignments(unit.Script)...)
		}
		if unit.Config != nil {
			diags = append(diags, configChecker.CheckConfig(unit.Config)...)
		}
		unit.setPhase(errs.PhaseTypeInference, filterPhase(diags, errs.PhaseTypeInference, unit))
		unit.setPhase(errs.PhaseSchema, filterPhase(diags, errs.PhaseSchema, unit))
	}
}

// filterPhase splits a mixed-phase diagnostic batch by its own Phase tag,
// since CallChecker reports under PhaseTypeInference while the schema
// checkers report under PhaseSchema but both run in the same validation
// pass.
func filterPhase(diags []errs.Diagnostic, phase errs.Phase, unit *SourceUnit) []errs.Diagnostic {
	var out []errs.Diagnostic
	for _, d := range diags {
		if d.Phase == phase {
			out = append(out, d)
		}
	}
	return out
}

// --- query surface (spec.md §4.7) ---

// GetSourceUnit returns the current unit for uri, if any.
func (c *Cache) GetSourceUnit(uri lsptypes.URI) (*SourceUnit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.units[uri]
	return u, ok
}

// HasAST reports whether uri has ever been successfully parsed.
func (c *Cache) HasAST(uri lsptypes.URI) bool {
	u, ok := c.GetSourceUnit(uri)
	return ok && (u.Script != nil || u.Config != nil)
}

// HasErrors reports whether uri has any error-severity diagnostic in any
// phase.
func (c *Cache) HasErrors(uri lsptypes.URI) bool {
	u, ok := c.GetSourceUnit(uri)
	return ok && u.hasSeverity(errs.SeverityError)
}

// HasWarnings reports whether uri has any warning-severity diagnostic.
func (c *Cache) HasWarnings(uri lsptypes.URI) bool {
	u, ok := c.GetSourceUnit(uri)
	return ok && u.hasSeverity(errs.SeverityWarning)
}

// HasSyntaxErrors reports whether uri's syntax phase alone has an error.
func (c *Cache) HasSyntaxErrors(uri lsptypes.URI) bool {
	u, ok := c.GetSourceUnit(uri)
	if !ok {
		return false
	}
	for _, d := range u.diags[errs.PhaseSyntax] {
		if d.Severity == errs.SeverityError {
			return true
		}
	}
	return false
}

// GetNodeAtLineAndColumn returns the innermost node at pos in uri.
func (c *Cache) GetNodeAtLineAndColumn(uri lsptypes.URI, pos lsptypes.Position) ast.Node {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Registry == nil {
		return nil
	}
	return u.Registry.NodeAt(pos)
}

// GetNodesAtLineAndColumn returns the ancestor chain at pos, innermost
// first.
func (c *Cache) GetNodesAtLineAndColumn(uri lsptypes.URI, pos lsptypes.Position) []ast.Node {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Registry == nil {
		return nil
	}
	return u.Registry.NodesAt(pos)
}

// GetParent returns n's parent within uri's tree.
func (c *Cache) GetParent(uri lsptypes.URI, n ast.Node) ast.Node {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Registry == nil {
		return nil
	}
	return u.Registry.Parent(n)
}

// GetURI returns the URI of the unit that owns n, or "" if n belongs to
// no currently-registered unit.
func (c *Cache) GetURI(n ast.Node) lsptypes.URI {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for uri, u := range c.units {
		if u.Registry == nil || !u.Registry.Contains(n.Handle()) {
			continue
		}
		// Handles are unique only within one unit's registry, so confirm
		// that the registered node is n itself.
		for _, m := range u.Registry.Nodes() {
			if m == n {
				return uri
			}
		}
	}
	return ""
}

// GetFunctionNodes returns every function declaration across uris (all
// known units if uris is empty).
func (c *Cache) GetFunctionNodes(uris ...lsptypes.URI) []*ast.Function {
	var out []*ast.Function
	c.forScripts(uris, func(s *ast.Script) {
		out = append(out, s.Functions...)
	})
	return out
}

// GetProcessNodes returns every process declaration across uris.
func (c *Cache) GetProcessNodes(uris ...lsptypes.URI) []*ast.Process {
	var out []*ast.Process
	c.forScripts(uris, func(s *ast.Script) {
		out = append(out, s.Processes...)
	})
	return out
}

// GetWorkflowNodes returns every workflow declaration across uris.
func (c *Cache) GetWorkflowNodes(uris ...lsptypes.URI) []*ast.Workflow {
	var out []*ast.Workflow
	c.forScripts(uris, func(s *ast.Script) {
		out = append(out, s.Workflows...)
	})
	return out
}

// GetIncludeNodes returns uri's include declarations.
func (c *Cache) GetIncludeNodes(uri lsptypes.URI) []*ast.Include {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Script == nil {
		return nil
	}
	return u.Script.Includes
}

// GetDefinitions returns the union of function, process, and workflow
// declarations across uris — the DSL has no enum construct (spec.md's
// getEnumNodes is a Non-goal here: see DESIGN.md).
func (c *Cache) GetDefinitions(uris ...lsptypes.URI) []ast.Node {
	var out []ast.Node
	c.forScripts(uris, func(s *ast.Script) {
		for _, fn := range s.Functions {
			out = append(out, fn)
		}
		for _, p := range s.Processes {
			out = append(out, p)
		}
		for _, w := range s.Workflows {
			out = append(out, w)
		}
	})
	return out
}

// forScripts invokes fn for each script among uris (or every known
// script, when uris is empty).
func (c *Cache) forScripts(uris []lsptypes.URI, fn func(*ast.Script)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(uris) == 0 {
		for _, u := range c.units {
			if u.Script != nil {
				fn(u.Script)
			}
		}
		return
	}
	for _, uri := range uris {
		if u, ok := c.units[uri]; ok && u.Script != nil {
			fn(u.Script)
		}
	}
}

// URIs returns every URI this cache currently holds a unit for.
func (c *Cache) URIs() []lsptypes.URI {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]lsptypes.URI, 0, len(c.units))
	for u := range c.units {
		out = append(out, u)
	}
	return out
}

// ScriptFor implements resolve.ScriptSource so the Include Resolver can
// look up a script outside the current Analyze batch (one already parsed
// in a prior batch).
func (c *Cache) ScriptFor(uri string) (*ast.Script, bool) {
	u, ok := c.GetSourceUnit(lsptypes.URI(uri))
	if !ok || u.Script == nil {
		return nil, false
	}
	return u.Script, true
}

// Remove drops uri's unit entirely, used when a file is deleted from the
// workspace.
func (c *Cache) Remove(uri lsptypes.URI) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.units, uri)
}
