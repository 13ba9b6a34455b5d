package features

import (
	"sort"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// TokenType is an index into the fixed, ordered palette spec.md §4.9
// requires for semantic tokens ("token types drawn from a fixed, ordered
// palette"). The order here IS the token-type legend an LSP client
// would be given at initialize time.
type TokenType int

const (
	TokenKeyword TokenType = iota
	TokenProcess
	TokenWorkflow
	TokenFunction
	TokenParameter
	TokenString
	TokenNumber
	TokenComment
	TokenEscape
)

// TokenTypeNames is the legend, in TokenType order.
var TokenTypeNames = []string{"keyword", "process", "workflow", "function", "parameter", "string", "number", "comment", "escape"}

// rawToken is one token before delta-encoding.
type rawToken struct {
	line, char, length int
	tokType             TokenType
}

// SemanticTokens walks uri's tree and emits the LSP delta-encoded
// 5-tuple stream (deltaLine, deltaStart, length, tokenType, 0 modifiers)
// spec.md §4.9 calls for.
func SemanticTokens(c *astcache.Cache, uri lsptypes.URI) []int {
	u, ok := c.GetSourceUnit(uri)
	if !ok || u.Registry == nil {
		return nil
	}
	var raws []rawToken
	for _, n := range u.Registry.Nodes() {
		if tt, ok := classify(n); ok {
			span := n.Span()
			raws = append(raws, rawToken{line: span.Start.Line, char: span.Start.Character, length: tokenLength(n), tokType: tt})
		}
		if oe, ok := n.(*ast.OpaqueExpr); ok {
			for _, esc := range oe.Escapes {
				raws = append(raws, rawToken{line: esc.Start.Line, char: esc.Start.Character, length: rangeLength(esc), tokType: TokenEscape})
			}
		}
	}
	sort.SliceStable(raws, func(i, j int) bool {
		if raws[i].line != raws[j].line {
			return raws[i].line < raws[j].line
		}
		return raws[i].char < raws[j].char
	})
	return deltaEncode(raws)
}

func rangeLength(r lsptypes.Range) int {
	if r.Start.Line == r.End.Line {
		return r.End.Character - r.Start.Character
	}
	return 1
}

func classify(n ast.Node) (TokenType, bool) {
	switch n.(type) {
	case *ast.Process:
		return TokenProcess, true
	case *ast.Workflow:
		return TokenWorkflow, true
	case *ast.Function:
		return TokenFunction, true
	case *ast.Literal:
		lit := n.(*ast.Literal)
		switch lit.LitKind {
		case ast.LiteralString:
			return TokenString, true
		case ast.LiteralNumber:
			return TokenNumber, true
		}
	}
	return 0, false
}

func tokenLength(n ast.Node) int {
	span := n.Span()
	if span.Start.Line == span.End.Line {
		return span.End.Character - span.Start.Character
	}
	return 1
}

// deltaEncode converts an absolute-position token list (already sorted
// by line, then character, by SemanticTokens) into the LSP relative
// 5-tuple wire format.
func deltaEncode(raws []rawToken) []int {
	out := make([]int, 0, len(raws)*5)
	prevLine, prevChar := 0, 0
	for _, t := range raws {
		deltaLine := t.line - prevLine
		deltaChar := t.char
		if deltaLine == 0 {
			deltaChar = t.char - prevChar
		}
		out = append(out, deltaLine, deltaChar, t.length, int(t.tokType), 0)
		prevLine, prevChar = t.line, t.char
	}
	return out
}
