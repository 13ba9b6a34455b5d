// Package errs holds the analyzer's diagnostic model (spec.md §4.11) and a
// small hierarchy of operational error types, grounded on the teacher's
// internal/errors package (typed structs with Operation/Underlying/Unwrap).
package errs

import (
	"fmt"

	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// Phase identifies which analysis stage produced a Diagnostic. Re-running
// a phase replaces only that phase's diagnostics for the affected URIs
// (spec.md §4.7, §8 "Diagnostic phase isolation").
type Phase string

const (
	PhaseSyntax            Phase = "syntax"
	PhaseNameResolution    Phase = "name-resolution"
	PhaseIncludeResolution Phase = "include-resolution"
	PhaseTypeInference     Phase = "type-inference"
	PhaseSchema            Phase = "schema"
)

// Severity is the diagnostic severity.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Related is a secondary location attached to a Diagnostic, e.g. pointing
// at a conflicting prior declaration.
type Related struct {
	Range   lsptypes.Range
	Message string
}

// Diagnostic is one finding, tagged with the phase that produced it so the
// orchestrator can replace phase-scoped subsets independently.
type Diagnostic struct {
	Phase    Phase
	Severity Severity
	Range    lsptypes.Range
	Message  string
	Related  *Related
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s@%s: %s", d.Severity, d.Phase, d.Range, d.Message)
}

func Error(phase Phase, r lsptypes.Range, format string, args ...any) Diagnostic {
	return Diagnostic{Phase: phase, Severity: SeverityError, Range: r, Message: fmt.Sprintf(format, args...)}
}

func Warning(phase Phase, r lsptypes.Range, format string, args ...any) Diagnostic {
	return Diagnostic{Phase: phase, Severity: SeverityWarning, Range: r, Message: fmt.Sprintf(format, args...)}
}

// WithRelated attaches a related location, returning the modified copy.
func (d Diagnostic) WithRelated(r lsptypes.Range, message string) Diagnostic {
	d.Related = &Related{Range: r, Message: message}
	return d
}
