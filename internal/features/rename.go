package features

import (
	"regexp"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// TextEdit is one replacement within a single file.
type TextEdit struct {
	Range   lsptypes.Range
	NewText string
}

// WorkspaceEdit groups TextEdits by the file they apply to.
type WorkspaceEdit struct {
	Changes map[lsptypes.URI][]TextEdit
}

var validIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Rename produces a WorkspaceEdit replacing every reference and the
// declaration of the identifier under cursor with newName (spec.md
// §4.9). Rejected (ok=false) when newName is not a valid identifier or
// the target under cursor has no user-defined declaration (a builtin or
// schema-only symbol can't be renamed).
func Rename(c *astcache.Cache, uri lsptypes.URI, pos lsptypes.Position, newName string, paramSchema *schema.ParamSchema) (WorkspaceEdit, bool) {
	if !validIdentifier.MatchString(newName) {
		return WorkspaceEdit{}, false
	}
	locs := References(c, uri, pos, paramSchema, true)
	if len(locs) == 0 {
		return WorkspaceEdit{}, false
	}
	edit := WorkspaceEdit{Changes: make(map[lsptypes.URI][]TextEdit)}
	for _, loc := range locs {
		edit.Changes[loc.URI] = append(edit.Changes[loc.URI], TextEdit{Range: loc.Range, NewText: newName})
	}
	return edit, true
}
