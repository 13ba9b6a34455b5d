package validate

import (
	"github.com/hbollon/go-edlib"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/errs"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// paramSuggestionThreshold mirrors resolve.suggestionThreshold; kept as
// its own constant since validate does not import resolve (the two
// packages check distinct concerns against the same fuzzy-match
// convention from internal/semantic/fuzzy_matcher.go).
const paramSuggestionThreshold = 0.80

// ParamChecker validates `params.*` assignments and references against a
// loaded parameter schema (spec.md §4.6/§4.4): unknown dotted names are
// flagged, known ones are type-checked permissively against the
// expression's literal kind when one is present.
type ParamChecker struct {
	Schema *schema.ParamSchema // nil ⇒ no schema document; checker is a no-op
}

// CheckAssignments checks every `params.*` assignment and every bare
// `params.<name>` read reference in script against the schema (spec.md
// §4.6/§4.4: "References to params.<name> that do not match any
// synthesized field emit 'Unrecognized parameter'").
func (c ParamChecker) CheckAssignments(script *ast.Script) []errs.Diagnostic {
	if c.Schema == nil {
		return nil
	}
	var diags []errs.Diagnostic
	assigned := make(map[ast.Node]bool, len(script.Params))
	for _, p := range script.Params {
		assigned[ast.Node(p.Target)] = true
		name := p.Name()
		if name == "" {
			continue
		}
		field, ok := c.Schema.Lookup(name)
		if !ok {
			diags = append(diags, c.unrecognizedParam(p.Span(), name))
			continue
		}
		if lit, ok := p.Value.(*ast.Literal); ok {
			if mismatch := typeMismatch(field.Type, lit); mismatch != "" {
				diags = append(diags, errs.Warning(errs.PhaseSchema, p.Value.Span(),
					"params.%s declared as %s, assigned %s", name, field.Type, mismatch))
			}
		}
	}
	for _, p := range script.Params {
		diags = append(diags, c.checkReferences(p.Value, assigned)...)
	}
	for _, fn := range script.Functions {
		diags = append(diags, c.checkReferences(fn, assigned)...)
	}
	for _, p := range script.Processes {
		diags = append(diags, c.checkReferences(p, assigned)...)
	}
	for _, w := range script.Workflows {
		diags = append(diags, c.checkReferences(w, assigned)...)
	}
	if script.Output != nil {
		diags = append(diags, c.checkReferences(script.Output, assigned)...)
	}
	return diags
}

// checkReferences walks n's subtree for `params.<name>` property-access
// chains that are not one of the top-level assignment targets already
// handled above, reporting any whose name the schema does not recognize.
// It does not descend into the Target of a chain that itself resolved to
// a params path, since that target is consumed by the outer chain rather
// than being an independent reference.
func (c ParamChecker) checkReferences(n ast.Node, assigned map[ast.Node]bool) []errs.Diagnostic {
	if n == nil {
		return nil
	}
	if pa, ok := n.(*ast.PropertyAccess); ok && !assigned[ast.Node(pa)] {
		if name := ast.ParamsAccessName(pa); name != "" {
			if _, ok := c.Schema.Lookup(name); !ok {
				return []errs.Diagnostic{c.unrecognizedParam(pa.Span(), name)}
			}
			return nil
		}
	}
	var diags []errs.Diagnostic
	for _, child := range n.Children() {
		diags = append(diags, c.checkReferences(child, assigned)...)
	}
	return diags
}

func (c ParamChecker) unrecognizedParam(span lsptypes.Range, name string) errs.Diagnostic {
	d := errs.Error(errs.PhaseSchema, span, "Unrecognized parameter `%s`", name)
	if s, ok := bestFieldSuggestion(name, c.Schema.Names()); ok {
		d.Message += ": did you mean params." + s + "?"
	}
	return d
}

func typeMismatch(declared schema.FieldType, lit *ast.Literal) string {
	var actual schema.FieldType
	switch lit.LitKind {
	case ast.LiteralString:
		actual = schema.FieldString
	case ast.LiteralNumber:
		actual = schema.FieldFloat
	case ast.LiteralBool:
		actual = schema.FieldBool
	default:
		return ""
	}
	if declared == schema.FieldDynamic || declared == actual {
		return ""
	}
	// Integers satisfy a float-declared field and vice versa; the DSL's
	// numeric literal does not distinguish int/float at the token level
	// (spec.md §6: "permissive" numeric type compatibility).
	if (declared == schema.FieldInt && actual == schema.FieldFloat) ||
		(declared == schema.FieldFloat && actual == schema.FieldInt) {
		return ""
	}
	return actual.String()
}

func bestFieldSuggestion(name string, candidates []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, c := range candidates {
		score, err := edlib.StringsSimilarity(name, c, edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) > bestScore {
			bestScore = float64(score)
			best = c
		}
	}
	if bestScore >= paramSuggestionThreshold {
		return best, true
	}
	return "", false
}
