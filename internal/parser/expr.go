package parser

import (
	"strconv"

	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/lexer"
)

// binaryPrecedence orders operators for the Pratt expression parser,
// matching the host language's usual C-family precedence (the workflow
// DSL's expression grammar is the host language's, per spec.md §2).
var binaryPrecedence = map[string]int{
	"||": 1, "&&": 2,
	"==": 3, "!=": 3, "<": 3, ">": 3, "<=": 3, ">=": 3, "<=>": 3,
	"..": 4, "...": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
	"**": 7,
}

// parseExpr parses a full expression at the lowest precedence.
func (p *Parser) parseExpr() ast.Node {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(minPrec int) ast.Node {
	left := p.parseUnary()
	for {
		t := p.cur()
		if t.Kind != lexer.TokPunct {
			break
		}
		prec, ok := binaryPrecedence[t.Text]
		if !ok || prec < minPrec {
			break
		}
		op := p.advance().Text
		right := p.parseBinary(prec + 1)
		be := &ast.BinaryExpr{Op: op, Left: left, Right: right}
		be.RangeVal = ast.NewRange(
			left.Span().Start.Line, left.Span().Start.Character,
			right.Span().End.Line, right.Span().End.Character,
		)
		left = be
	}
	return left
}

func (p *Parser) parseUnary() ast.Node {
	t := p.cur()
	if t.Kind == lexer.TokPunct && (t.Text == "-" || t.Text == "!" || t.Text == "+") {
		op := p.advance()
		operand := p.parseUnary()
		ue := &ast.UnaryExpr{Op: op.Text, Operand: operand}
		ue.RangeVal = ast.NewRange(
			tokRange(op).Start.Line, tokRange(op).Start.Character,
			operand.Span().End.Line, operand.Span().End.Character,
		)
		return ue
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix attaches property accesses and call parens to a primary
// expression: `a.b.c(d, e).f`.
func (p *Parser) parsePostfix(base ast.Node) ast.Node {
	for {
		switch {
		case p.atPunct(".") || p.atPunct("?."):
			p.advance()
			nameTok := p.advance()
			pa := &ast.PropertyAccess{Target: base, Name: nameTok.Text}
			pa.RangeVal = ast.NewRange(
				base.Span().Start.Line, base.Span().Start.Character,
				tokRange(nameTok).End.Line, tokRange(nameTok).End.Character,
			)
			base = pa
		case p.atPunct("("):
			p.advance()
			var args []ast.Node
			for !p.atPunct(")") && !p.at(lexer.TokEOF, "") {
				args = append(args, p.parseExpr())
				if p.atPunct(",") {
					p.advance()
				}
			}
			closeTok, _ := p.expectPunct(")")
			call := &ast.Call{Callee: base, Args: args}
			call.RangeVal = ast.NewRange(
				base.Span().Start.Line, base.Span().Start.Character,
				tokRange(closeTok).End.Line, tokRange(closeTok).End.Character,
			)
			base = call
		case p.atPunct("["):
			// Index access `a[i]`; modeled as a property access on a
			// synthesized numeric/string name since the tree has no
			// dedicated index node (kept minimal per spec.md §2 scope).
			p.advance()
			idx := p.parseExpr()
			p.expectPunct("]")
			pa := &ast.PropertyAccess{Target: base, Name: "[" + exprText(idx) + "]"}
			pa.RangeVal = base.Span()
			base = pa
		default:
			return base
		}
	}
}

func exprText(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Identifier:
		return v.Name
	case *ast.Literal:
		return v.Text
	default:
		return "expr"
	}
}

// parsePropertyChain parses a dotted identifier chain (`params.a.b`)
// without consuming any trailing call parens, used for assignment
// targets.
func (p *Parser) parsePropertyChain() ast.Node {
	t := p.advance()
	var base ast.Node = identFrom(t)
	for p.atPunct(".") {
		p.advance()
		nameTok := p.advance()
		pa := &ast.PropertyAccess{Target: base, Name: nameTok.Text}
		pa.RangeVal = ast.NewRange(
			base.Span().Start.Line, base.Span().Start.Character,
			tokRange(nameTok).End.Line, tokRange(nameTok).End.Character,
		)
		base = pa
	}
	return base
}

func identFrom(t lexer.Token) *ast.Identifier {
	id := &ast.Identifier{Name: t.Text}
	id.RangeVal = tokRange(t)
	return id
}

func (p *Parser) parsePrimary() ast.Node {
	t := p.cur()
	switch t.Kind {
	case lexer.TokString:
		p.advance()
		lit := &ast.Literal{LitKind: ast.LiteralString, Text: t.Text}
		lit.RangeVal = tokRange(t)
		return lit
	case lexer.TokNumber:
		p.advance()
		lit := &ast.Literal{LitKind: ast.LiteralNumber, Text: t.Text}
		lit.RangeVal = tokRange(t)
		return lit
	case lexer.TokKeyword:
		switch t.Text {
		case "true", "false":
			p.advance()
			lit := &ast.Literal{LitKind: ast.LiteralBool, Text: t.Text}
			lit.RangeVal = tokRange(t)
			return lit
		case "null":
			p.advance()
			lit := &ast.Literal{LitKind: ast.LiteralNull, Text: t.Text}
			lit.RangeVal = tokRange(t)
			return lit
		}
	case lexer.TokIdent:
		p.advance()
		if p.atPunct("->") {
			// A single-identifier closure parameter list: `x -> x + 1`.
			return p.parseClosureBody(t, []string{t.Text})
		}
		return identFrom(t)
	case lexer.TokPunct:
		switch t.Text {
		case "(":
			p.advance()
			inner := p.parseExpr()
			p.expectPunct(")")
			return inner
		case "[":
			return p.parseListOrMap()
		case "{":
			return p.parseClosureLiteral()
		}
	}
	// Unrecognized primary: degrade to an OpaqueExpr over the remaining
	// host-language expression text rather than abandon the whole parse
	// (spec.md §7's "degrade to a no-op" policy); hostexpr.go attempts a
	// go-fast parse first.
	return p.parseHostExpr()
}

func (p *Parser) parseClosureBody(arrowOwner lexer.Token, params []string) ast.Node {
	p.advance() // '->'
	var body []ast.Node
	if p.atPunct("{") {
		p.advance()
		for !p.atPunct("}") && !p.at(lexer.TokEOF, "") {
			before := p.pos
			body = append(body, p.parseStatement())
			if p.pos == before {
				p.advance()
			}
		}
		p.expectPunct("}")
	} else {
		body = append(body, p.parseStatement())
	}
	cl := &ast.Closure{Params: params, Body: body}
	cl.RangeVal = spanFrom(arrowOwner, p.peekN(-1))
	return cl
}

// parseClosureLiteral parses `{ a, b -> body }` or `{ body }`.
func (p *Parser) parseClosureLiteral() ast.Node {
	start := p.advance() // '{'
	var params []string
	savedPos := p.pos
	// Look ahead for a `params ->` prefix.
	if p.at(lexer.TokIdent, "") {
		lookStart := p.pos
		var names []string
		for p.at(lexer.TokIdent, "") {
			names = append(names, p.cur().Text)
			p.advance()
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		if p.atPunct("->") {
			params = names
			p.advance()
		} else {
			p.pos = lookStart
		}
	} else {
		p.pos = savedPos
	}
	var body []ast.Node
	for !p.atPunct("}") && !p.at(lexer.TokEOF, "") {
		before := p.pos
		body = append(body, p.parseStatement())
		if p.pos == before {
			p.advance()
		}
	}
	p.expectPunct("}")
	cl := &ast.Closure{Params: params, Body: body}
	cl.RangeVal = spanFrom(start, p.peekN(-1))
	return cl
}

// parseListOrMap parses `[a, b, c]` or `[k: v, k2: v2]`. An empty `[:]`
// is the empty-map literal.
func (p *Parser) parseListOrMap() ast.Node {
	start := p.advance() // '['
	if p.atPunct(":") && p.peekN(1).Text == "]" {
		p.advance()
		p.advance()
		me := &ast.MapExpr{}
		me.RangeVal = spanFrom(start, p.peekN(-1))
		return me
	}
	if p.atPunct("]") {
		p.advance()
		le := &ast.ListExpr{}
		le.RangeVal = spanFrom(start, p.peekN(-1))
		return le
	}
	// Disambiguate list vs map by checking for `ident :` or `'str' :` at
	// the first element.
	isMap := (p.at(lexer.TokIdent, "") || p.at(lexer.TokString, "")) && p.peekN(1).Text == ":"
	if isMap {
		var entries []ast.MapEntry
		for !p.atPunct("]") && !p.at(lexer.TokEOF, "") {
			key := p.advance().Text
			p.expectPunct(":")
			val := p.parseExpr()
			entries = append(entries, ast.MapEntry{Key: key, Value: val})
			if p.atPunct(",") {
				p.advance()
			}
		}
		p.expectPunct("]")
		me := &ast.MapExpr{Entries: entries}
		me.RangeVal = spanFrom(start, p.peekN(-1))
		return me
	}
	var elems []ast.Node
	for !p.atPunct("]") && !p.at(lexer.TokEOF, "") {
		elems = append(elems, p.parseExpr())
		if p.atPunct(",") {
			p.advance()
		}
	}
	p.expectPunct("]")
	le := &ast.ListExpr{Elements: elems}
	le.RangeVal = spanFrom(start, p.peekN(-1))
	return le
}

// numericValue parses a Literal's text as a float64, reporting false when
// the text is not a valid number. Nothing in this module calls it.
func numericValue(lit *ast.Literal) (float64, bool) {
	v, err := strconv.ParseFloat(lit.Text, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
