package validate

import (
	"strings"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/errs"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// ConfigChecker validates a parsed config file's assignments against the
// static built-in config schema (spec.md §4.6): profile-scoped blocks
// have their `profiles.<name>.` prefix stripped before lookup, and
// `params.*`/`process.ext.*` paths are always accepted as user-defined
// escape hatches (schema.ConfigSchema.Lookup implements both rules). A
// single-segment `env.*` name is likewise accepted without a declared
// type; a multi-segment one (`env.PATH.SUB`) is not a valid environment
// variable name and is reported here directly.
type ConfigChecker struct {
	Schema *schema.ConfigSchema // defaults to schema.BuiltinConfigSchema if nil
}

// CheckConfig walks cfg's top-level assignments and blocks, flattening
// dotted paths as it descends (a ConfigBlock named "process" containing
// an assignment "cpus" is checked as "process.cpus").
func (c ConfigChecker) CheckConfig(cfg *ast.ConfigFile) []errs.Diagnostic {
	s := c.Schema
	if s == nil {
		s = schema.BuiltinConfigSchema
	}
	var diags []errs.Diagnostic
	for _, a := range cfg.Assignments {
		diags = append(diags, checkAssignment(s, "", a)...)
	}
	for _, b := range cfg.Blocks {
		diags = append(diags, checkBlock(s, "", b)...)
	}
	return diags
}

func checkBlock(s *schema.ConfigSchema, prefix string, b *ast.ConfigBlock) []errs.Diagnostic {
	path := b.Name
	if prefix != "" {
		path = prefix + "." + b.Name
	}
	var diags []errs.Diagnostic
	for _, n := range b.Inner {
		switch v := n.(type) {
		case *ast.ConfigAssignment:
			diags = append(diags, checkAssignment(s, path, v)...)
		case *ast.ConfigBlock:
			diags = append(diags, checkBlock(s, path, v)...)
		}
	}
	return diags
}

func checkAssignment(s *schema.ConfigSchema, prefix string, a *ast.ConfigAssignment) []errs.Diagnostic {
	dotted := a.DottedName
	if prefix != "" {
		dotted = prefix + "." + a.DottedName
	}
	stripped := schema.StripProfilePrefix(dotted)
	if name, ok := schema.EnvVarName(stripped); ok {
		if strings.Contains(name, ".") {
			return []errs.Diagnostic{errs.Warning(errs.PhaseSchema, a.Span(),
				"Invalid environment variable name '%s'", name)}
		}
		return nil
	}
	if _, ok := s.Lookup(dotted); !ok {
		return []errs.Diagnostic{errs.Warning(errs.PhaseSchema, a.Span(),
			"%q is not a recognized configuration option", dotted)}
	}
	return nil
}
