package parser

import (
	"regexp"

	gofastparser "github.com/t14raptor/go-fast/parser"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/lexer"
)

// parseHostExpr handles an expression the DSL's own hand-rolled grammar
// doesn't recognize as a primary (a piece of genuine host-language
// syntax: ternaries, string-gstring interpolation internals, regex
// literals, and so on). Grounded on the teacher's
// internal/analysis/javascript_gofast_analyzer.go, which calls
// parser.ParseFile(content) and walks program.Body/.Stmt; here the
// integration is kept deliberately narrow — a syntactic-validity probe,
// not a full AST lowering — per SPEC_FULL.md's Lexer/Parser expansion:
// if go-fast accepts the raw text as a standalone program, the
// expression is accepted and its identifiers are recovered with a
// regex scan (avoiding a second, deeper dependency on go-fast's AST
// shapes); if go-fast also fails, the text becomes an OpaqueExpr, per
// spec.md §7's "degrade to a no-op" recovery policy.
func (p *Parser) parseHostExpr() ast.Node {
	start := p.cur()
	raw := p.consumeBalancedExprText()
	end := p.peekN(-1)
	r := spanFrom(start, end)

	if _, err := gofastparser.ParseFile(raw); err == nil {
		if idents := identifierPattern.FindAllString(raw, -1); len(idents) > 0 {
			// Surface the first identifier as a reference so name
			// resolution has at least a partial anchor into this
			// expression; the rest remain part of the opaque text. A full
			// host-language AST lowering is out of scope (spec.md §2's
			// "host language expressions are analyzed only insofar as
			// they reference workflow DSL symbols").
			id := &ast.Identifier{Name: idents[0]}
			id.RangeVal = r
			return id
		}
	}

	oe := &ast.OpaqueExpr{RawText: raw}
	oe.RangeVal = r
	return oe
}

// parseHostStatement handles a control-flow statement (if/for/while/try)
// the DSL grammar does not model as a first-class node; it is consumed
// wholesale as an opaque statement, matching the Block/control-flow
// non-goal in spec.md §2.
func (p *Parser) parseHostStatement() ast.Node {
	start := p.cur()
	depth := 0
	var raw string
	for !p.at(lexer.TokEOF, "") {
		t := p.cur()
		if t.Kind == lexer.TokPunct {
			switch t.Text {
			case "{":
				depth++
			case "}":
				if depth == 0 {
					goto done
				}
				depth--
			}
		}
		raw += t.Raw + " "
		p.advance()
		if depth == 0 && t.Kind == lexer.TokPunct && t.Text == "}" {
			break
		}
	}
done:
	oe := &ast.OpaqueExpr{RawText: raw}
	oe.RangeVal = spanFrom(start, p.peekN(-1))
	es := &ast.ExprStatement{Expr: oe}
	es.RangeVal = oe.RangeVal
	return es
}

// consumeBalancedExprText scans forward from the current token to the
// next statement-level boundary (an un-nested `,`, `;`, `)`, `]`, `}`, an
// un-nested process/workflow section keyword such as `emit` or `script`
// not preceded by `.`, or EOF), tracking paren/bracket/brace depth, and
// returns the consumed source text. This gives go-fast a plausible
// standalone expression/program to parse without the caller needing to
// know the DSL's own statement grammar.
func (p *Parser) consumeBalancedExprText() string {
	depth := 0
	var raw string
	for !p.at(lexer.TokEOF, "") {
		t := p.cur()
		if depth == 0 && t.Kind == lexer.TokKeyword && p.peekN(-1).Text != "." {
			switch t.Text {
			case "take", "main", "emit", "publish", "input", "output", "when", "script", "shell", "exec", "stub":
				return raw
			}
		}
		if t.Kind == lexer.TokPunct {
			switch t.Text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				if depth == 0 {
					return raw
				}
				depth--
			case ",", ";":
				if depth == 0 {
					return raw
				}
			}
		}
		raw += t.Raw
		p.advance()
	}
	return raw
}

var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*`)
