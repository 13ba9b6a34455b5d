// Package parser implements the recursive-descent parser for workflow-DSL
// scripts and config files (spec.md §4.2). Grounded on the teacher's
// internal/parser package's ownership discipline: one Parser instance per
// parse, never shared across goroutines, matching spec.md §9's redesign
// note on thread-local parser state. The teacher's own parser is a
// tree-sitter wrapper (internal/parser_legacy_ts, kept as reference — see
// DESIGN.md); this DSL has no tree-sitter grammar, so the tokenizing and
// tree-building here is hand-written instead, in the same single-owner,
// single-pass style.
//
// Parsing is a single pass with local recovery: on an unexpected token
// the parser records a syntax diagnostic, skips to the next plausible
// statement boundary (syncToStatementBoundary) and keeps going, so one
// error never blanks out an entire file's diagnostics. There is no
// separate fast first attempt that is rewound and retried.
package parser

import (
	"github.com/standardbeagle/wflsp/internal/ast"
	"github.com/standardbeagle/wflsp/internal/errs"
	"github.com/standardbeagle/wflsp/internal/lexer"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// Result is the outcome of parsing one file.
type Result struct {
	Script      *ast.Script // nil if the file is a config file
	Config      *ast.ConfigFile
	Diagnostics []errs.Diagnostic
}

// Parser owns one parse of one file's token stream. Never reused.
type Parser struct {
	toks []lexer.Token
	pos  int
	uri  string
	diag []errs.Diagnostic
}

// ParseScript parses a .wfl script file.
func ParseScript(uri, src string) Result {
	p := newParser(uri, src)
	script := p.parseScript()
	return Result{Script: script, Diagnostics: p.diag}
}

// ParseConfig parses a .config file.
func ParseConfig(uri, src string) Result {
	p := newParser(uri, src)
	cfg := p.parseConfigFile()
	return Result{Config: cfg, Diagnostics: p.diag}
}

func newParser(uri, src string) *Parser {
	toks := lexer.New(src).Tokenize()
	filtered := make([]lexer.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind == lexer.TokLineComment || t.Kind == lexer.TokNewline {
			continue
		}
		filtered = append(filtered, t)
	}
	return &Parser{uri: uri, toks: filtered}
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.toks) {
		return lexer.Token{Kind: lexer.TokEOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekN(n int) lexer.Token {
	i := p.pos + n
	if i < 0 || i >= len(p.toks) {
		return lexer.Token{Kind: lexer.TokEOF}
	}
	return p.toks[i]
}

func (p *Parser) at(kind lexer.TokenKind, text string) bool {
	t := p.cur()
	return t.Kind == kind && (text == "" || t.Text == text)
}

func (p *Parser) atPunct(text string) bool   { return p.at(lexer.TokPunct, text) }
func (p *Parser) atKeyword(text string) bool { return p.at(lexer.TokKeyword, text) }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) expectPunct(text string) (lexer.Token, bool) {
	if p.atPunct(text) {
		return p.advance(), true
	}
	p.errorHere("expected %q, found %q", text, p.cur().Raw)
	return lexer.Token{}, false
}

func (p *Parser) errorHere(format string, args ...any) {
	r := tokRange(p.cur())
	p.diag = append(p.diag, errs.Error(errs.PhaseSyntax, r, format, args...))
}

func tokRange(t lexer.Token) lsptypes.Range {
	return lsptypes.Range{
		Start: lsptypes.Position{Line: t.Start.Line - 1, Character: t.Start.Column - 1},
		End:   lsptypes.Position{Line: t.End.Line - 1, Character: t.End.Column - 1},
	}
}

func spanFrom(start, end lexer.Token) lsptypes.Range {
	r := tokRange(start)
	r.End = tokRange(end).End
	return r
}

// syncToStatementBoundary skips tokens until a plausible statement start,
// implementing the permissive recovery pass of spec.md §4.2.
func (p *Parser) syncToStatementBoundary() {
	for !p.at(lexer.TokEOF, "") {
		if p.atPunct("}") || p.atPunct("{") {
			return
		}
		if p.at(lexer.TokKeyword, "") {
			switch p.cur().Text {
			case "process", "workflow", "def", "include", "output":
				return
			}
		}
		p.advance()
	}
}

// parseScript is the top-level entry for a .wfl file.
func (p *Parser) parseScript() *ast.Script {
	start := p.cur()
	script := &ast.Script{}
	for !p.at(lexer.TokEOF, "") {
		before := p.pos
		p.parseTopLevelDecl(script)
		if p.pos == before {
			p.advance() // guard against non-advancing loops
		}
	}
	script.RangeVal = spanFrom(start, p.peekN(-1))
	return script
}

func (p *Parser) parseTopLevelDecl(script *ast.Script) {
	doc := p.takeDocComment()
	switch {
	case p.atKeyword("include"):
		if inc := p.parseInclude(); inc != nil {
			inc.Doc = doc
			script.Includes = append(script.Includes, inc)
		}
	case p.atKeyword("process"):
		if proc := p.parseProcess(); proc != nil {
			proc.Doc = doc
			script.Processes = append(script.Processes, proc)
		}
	case p.atKeyword("workflow"):
		if wf := p.parseWorkflow(); wf != nil {
			wf.Doc = doc
			script.Workflows = append(script.Workflows, wf)
		}
	case p.atKeyword("def"):
		if fn := p.parseFunction(); fn != nil {
			fn.Doc = doc
			script.Functions = append(script.Functions, fn)
		}
	case p.atKeyword("output"):
		if out := p.parseOutput(); out != nil {
			out.Doc = doc
			script.Output = out
		}
	case p.at(lexer.TokIdent, "nextflow") && p.peekN(1).Text == ".":
		if ff := p.parseFeatureFlagAssignment(script); ff != nil {
			ff.Doc = doc
		}
	case p.at(lexer.TokIdent, "params") && p.peekN(1).Text == ".":
		if prm := p.parseParamAssignment(); prm != nil {
			prm.Doc = doc
			script.Params = append(script.Params, prm)
		}
	default:
		// A dotted top-level assignment targeting neither `nextflow.` nor
		// `params.` belongs inside the entry workflow, not at script scope
		// (spec.md §4.2's "move into entry workflow" diagnostic).
		if p.at(lexer.TokIdent, "") && p.peekN(1).Text == "." {
			p.errorHere("top-level statement %q must be moved into the entry workflow", p.cur().Text)
			p.syncToStatementBoundary()
			return
		}
		p.errorHere("unexpected token %q at top level", p.cur().Raw)
		p.syncToStatementBoundary()
	}
}

// takeDocComment consumes an immediately-preceding doc comment token.
func (p *Parser) takeDocComment() string {
	if p.cur().Kind == lexer.TokDocComment {
		return p.advance().Text
	}
	return ""
}

func (p *Parser) parseFeatureFlagAssignment(script *ast.Script) *ast.FeatureFlag {
	start := p.cur()
	name := p.parseDottedName()
	if _, ok := p.expectPunct("="); !ok {
		p.syncToStatementBoundary()
		return nil
	}
	val := p.parseExpr()
	ff := &ast.FeatureFlag{DottedName: name, Value: val}
	ff.RangeVal = spanFrom(start, p.peekN(-1))
	script.FeatureFlags = append(script.FeatureFlags, ff)
	return ff
}

func (p *Parser) parseDottedName() string {
	name := p.advance().Text
	for p.atPunct(".") {
		p.advance()
		name += "." + p.advance().Text
	}
	return name
}

func (p *Parser) parseParamAssignment() *ast.Param {
	start := p.cur()
	target := p.parsePropertyChain()
	pa, ok := target.(*ast.PropertyAccess)
	if !ok {
		p.errorHere("params assignment must target a dotted path")
		p.syncToStatementBoundary()
		return nil
	}
	if _, ok := p.expectPunct("="); !ok {
		p.syncToStatementBoundary()
		return nil
	}
	val := p.parseExpr()
	prm := &ast.Param{Target: pa, Value: val}
	prm.RangeVal = spanFrom(start, p.peekN(-1))
	return prm
}

// parseInclude parses `include { a; b as c } from 'path'`.
func (p *Parser) parseInclude() *ast.Include {
	start := p.advance() // 'include'
	if _, ok := p.expectPunct("{"); !ok {
		p.syncToStatementBoundary()
		return nil
	}
	var vars []*ast.IncludeVariable
	for !p.atPunct("}") && !p.at(lexer.TokEOF, "") {
		vstart := p.cur()
		name := p.advance().Text
		alias := ""
		if p.atKeyword("as") {
			p.advance()
			alias = p.advance().Text
		}
		iv := &ast.IncludeVariable{Name: name, Alias: alias}
		iv.RangeVal = spanFrom(vstart, p.peekN(-1))
		vars = append(vars, iv)
		if p.atPunct(";") {
			p.advance()
		}
	}
	p.expectPunct("}")
	if !p.atKeyword("from") {
		p.errorHere("expected 'from' after include block")
		p.syncToStatementBoundary()
		return nil
	}
	p.advance()
	pathTok := p.advance() // string literal
	inc := &ast.Include{SourcePath: pathTok.Text, Variables: vars}
	inc.RangeVal = spanFrom(start, p.peekN(-1))
	return inc
}

// parseProcess parses `process NAME { directives inputs outputs when body }`.
func (p *Parser) parseProcess() *ast.Process {
	start := p.advance() // 'process'
	name := p.advance().Text
	if _, ok := p.expectPunct("{"); !ok {
		p.syncToStatementBoundary()
		return nil
	}
	proc := &ast.Process{Name: name}
	var directives []ast.Node
	for !p.atPunct("}") && !p.at(lexer.TokEOF, "") {
		switch {
		case p.atKeyword("input"):
			p.advance()
			p.expectPunct(":")
			proc.Inputs = p.parseDirectiveBlockUntilSection()
		case p.atKeyword("output"):
			p.advance()
			p.expectPunct(":")
			proc.Outputs = p.parseDirectiveBlockUntilSection()
		case p.atKeyword("when"):
			p.advance()
			p.expectPunct(":")
			proc.When = p.parseExpr()
		case p.atKeyword("script"):
			p.advance()
			p.expectPunct(":")
			proc.BodyKind = ast.ProcessBodyScript
			proc.Exec = p.parseRawBodyBlock(ast.ProcessBodyScript)
		case p.atKeyword("shell"):
			p.advance()
			p.expectPunct(":")
			proc.BodyKind = ast.ProcessBodyShell
			proc.Exec = p.parseRawBodyBlock(ast.ProcessBodyShell)
		case p.atKeyword("exec"):
			p.advance()
			p.expectPunct(":")
			proc.BodyKind = ast.ProcessBodyExec
			proc.Exec = p.parseDirectiveBlockUntilSection()
		case p.atKeyword("stub"):
			p.advance()
			p.expectPunct(":")
			proc.Stub = p.parseRawBodyBlock(ast.ProcessBodyScript)
		default:
			// A bare directive statement before any section header, e.g.
			// `cpus 4` or `container 'x'`.
			stmt := p.parseDirectiveStatement()
			if stmt != nil {
				directives = append(directives, stmt)
			} else {
				p.advance()
			}
		}
	}
	p.expectPunct("}")
	if len(directives) > 0 {
		proc.Directives = &ast.Block{Statements: directives}
	}
	proc.RangeVal = spanFrom(start, p.peekN(-1))
	return proc
}

// parseDirectiveBlockUntilSection parses statements until the next
// section keyword or closing brace, lowering each per spec.md §4.2's
// directive-rewriting rule: a bare identifier becomes a no-arg call, a
// `name - expr` form becomes `name(-expr)`, anything else is an "invalid
// directive" diagnostic.
func (p *Parser) parseDirectiveBlockUntilSection() *ast.Block {
	start := p.cur()
	var stmts []ast.Node
	for !p.atSectionBoundary() {
		stmt := p.parseDirectiveStatement()
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
	}
	b := &ast.Block{Statements: stmts}
	b.RangeVal = spanFrom(start, p.cur())
	return b
}

func (p *Parser) atSectionBoundary() bool {
	if p.atPunct("}") || p.at(lexer.TokEOF, "") {
		return true
	}
	if p.at(lexer.TokKeyword, "") {
		switch p.cur().Text {
		case "input", "output", "when", "script", "shell", "exec", "stub":
			return true
		}
	}
	return false
}

// parseDirectiveStatement lowers one directive-section statement.
func (p *Parser) parseDirectiveStatement() ast.Node {
	start := p.cur()
	if start.Kind != lexer.TokIdent && start.Kind != lexer.TokKeyword {
		p.errorHere("invalid directive %q", start.Raw)
		p.advance()
		return nil
	}
	name := p.advance()
	switch {
	case p.atPunct("("):
		p.advance()
		var args []ast.Node
		for !p.atPunct(")") && !p.at(lexer.TokEOF, "") {
			args = append(args, p.parseExpr())
			if p.atPunct(",") {
				p.advance()
			}
		}
		p.expectPunct(")")
		return p.wrapDirectiveCall(name, args)
	case p.atPunct("-"):
		// `name - expr` rewrites to `name(-expr)` (spec.md §4.2).
		p.advance()
		operand := p.parseExpr()
		arg := &ast.UnaryExpr{Op: "-", Operand: operand}
		arg.RangeVal = operand.Span()
		return p.wrapDirectiveCall(name, []ast.Node{arg})
	case p.isExprContinuation():
		var args []ast.Node
		for {
			args = append(args, p.parseExpr())
			if p.atPunct(",") {
				p.advance()
				continue
			}
			break
		}
		return p.wrapDirectiveCall(name, args)
	default:
		// Bare identifier directive with no args, e.g. `debug` — a no-arg
		// call (spec.md §4.2).
		return p.wrapDirectiveCall(name, nil)
	}
}

func (p *Parser) wrapDirectiveCall(name lexer.Token, args []ast.Node) ast.Node {
	callee := &ast.Identifier{Name: name.Text}
	callee.RangeVal = tokRange(name)
	call := &ast.Call{Callee: callee, Args: args}
	call.RangeVal = spanFrom(name, p.peekN(-1))
	es := &ast.ExprStatement{Expr: call}
	es.RangeVal = call.RangeVal
	return es
}

// isExprContinuation reports whether the current token can plausibly
// start a directive's argument expression (distinguishes `cpus 4` from a
// bare `debug`).
func (p *Parser) isExprContinuation() bool {
	t := p.cur()
	switch t.Kind {
	case lexer.TokString, lexer.TokNumber, lexer.TokIdent:
		return true
	case lexer.TokKeyword:
		return t.Text == "true" || t.Text == "false" || t.Text == "null"
	case lexer.TokPunct:
		return t.Text == "[" || t.Text == "{"
	}
	return false
}

// escapeCharFor returns the host-interpolation escape character
// recognized inside a body of the given kind: a shell: body uses
// Nextflow's own `!{...}` interpolation, distinct from the shell's
// native `${...}`; script:/stub: bodies use `${...}` (SPEC_FULL.md's
// Lexer/Parser expansion on shell escapes).
func escapeCharFor(kind ast.ProcessBodyKind) string {
	if kind == ast.ProcessBodyShell {
		return "!"
	}
	return "$"
}

// parseRawBodyBlock parses a script:/shell:/stub: body, kept as a single
// OpaqueExpr spanning to the matching closing brace. The interior is
// host-language shell/script text, not DSL statements; its textual
// content is intentionally opaque to the syntax tree model (spec.md
// §4.2). escapeCharFor(kind)+"{" spans are recorded separately as
// Escapes so they can be classified as a distinct token class rather
// than folded into the opaque text.
func (p *Parser) parseRawBodyBlock(kind ast.ProcessBodyKind) *ast.Block {
	start := p.cur()
	escapeChar := escapeCharFor(kind)
	if p.at(lexer.TokString, "") {
		tok := p.advance()
		return wrapOpaqueBlock(tok.Text, tokRange(tok), scanEscapeSpans(tok.Raw, tok.Start, escapeChar[0]))
	}
	if !p.atPunct("{") {
		return wrapOpaqueBlock("", tokRange(start), nil)
	}
	depth := 0
	var raw string
	var escapes []lsptypes.Range
	var openStack []struct {
		tok         lexer.Token
		depthAtOpen int
	}
	for !p.at(lexer.TokEOF, "") {
		t := p.cur()
		if t.Kind == lexer.TokPunct && t.Text == escapeChar && adjacentBrace(t, p.peekN(1)) {
			openStack = append(openStack, struct {
				tok         lexer.Token
				depthAtOpen int
			}{t, depth})
		}
		if t.Kind == lexer.TokPunct && t.Text == "{" {
			depth++
		}
		if t.Kind == lexer.TokPunct && t.Text == "}" {
			if depth == 1 {
				p.advance()
				break
			}
			depth--
			if n := len(openStack); n > 0 && openStack[n-1].depthAtOpen == depth {
				escapes = append(escapes, spanFrom(openStack[n-1].tok, t))
				openStack = openStack[:n-1]
			}
		}
		raw += t.Raw + " "
		p.advance()
	}
	return wrapOpaqueBlock(raw, spanFrom(start, p.peekN(-1)), escapes)
}

// adjacentBrace reports whether next is a "{" immediately following esc
// in the source (no intervening whitespace), i.e. esc.Text+"{" forms an
// interpolation escape rather than two unrelated tokens.
func adjacentBrace(esc, next lexer.Token) bool {
	return next.Kind == lexer.TokPunct && next.Text == "{" &&
		esc.End.Line == next.Start.Line && esc.End.Column == next.Start.Column
}

// scanEscapeSpans finds escapeChar+"{...}" occurrences within raw (the
// exact source slice starting at start, quotes included) and returns
// their source ranges. Used for the string-literal body form (the
// common `'''...'''` shell/script body) where the whole body is a
// single lexer token rather than a stream parseRawBodyBlock can
// brace-scan token by token.
func scanEscapeSpans(raw string, start lexer.Pos, escapeChar byte) []lsptypes.Range {
	var spans []lsptypes.Range
	runes := []rune(raw)
	line, col := start.Line, start.Column
	advance := func(i int) int {
		if runes[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
		return i + 1
	}
	for i := 0; i < len(runes); {
		if runes[i] == rune(escapeChar) && i+1 < len(runes) && runes[i+1] == '{' {
			startLine, startCol := line, col
			i = advance(i) // escapeChar
			i = advance(i) // '{'
			depth := 1
			for i < len(runes) && depth > 0 {
				switch runes[i] {
				case '{':
					depth++
				case '}':
					depth--
				}
				i = advance(i)
			}
			spans = append(spans, lsptypes.Range{
				Start: lsptypes.Position{Line: startLine - 1, Character: startCol - 1},
				End:   lsptypes.Position{Line: line - 1, Character: col - 1},
			})
			continue
		}
		i = advance(i)
	}
	return spans
}

func wrapOpaqueBlock(raw string, r lsptypes.Range, escapes []lsptypes.Range) *ast.Block {
	oe := &ast.OpaqueExpr{RawText: raw, Escapes: escapes}
	oe.RangeVal = r
	es := &ast.ExprStatement{Expr: oe}
	es.RangeVal = r
	b := &ast.Block{Statements: []ast.Node{es}}
	b.RangeVal = r
	return b
}

// parseWorkflow parses `workflow [NAME] { take: main: emit: publish: }`.
func (p *Parser) parseWorkflow() *ast.Workflow {
	start := p.advance() // 'workflow'
	name := ""
	if p.at(lexer.TokIdent, "") {
		name = p.advance().Text
	}
	if _, ok := p.expectPunct("{"); !ok {
		p.syncToStatementBoundary()
		return nil
	}
	wf := &ast.Workflow{Name: name}
	for !p.atPunct("}") && !p.at(lexer.TokEOF, "") {
		switch {
		case p.atKeyword("take"):
			p.advance()
			p.expectPunct(":")
			wf.Takes = p.parseDirectiveBlockUntilWorkflowSection()
		case p.atKeyword("main"):
			p.advance()
			p.expectPunct(":")
			wf.Main = p.parseStatementBlockUntilWorkflowSection()
		case p.atKeyword("emit"):
			p.advance()
			p.expectPunct(":")
			wf.Emits = p.parseStatementBlockUntilWorkflowSection()
		case p.atKeyword("publish"):
			p.advance()
			p.expectPunct(":")
			wf.Publishers = p.parseStatementBlockUntilWorkflowSection()
		default:
			if wf.Main == nil {
				wf.Main = p.parseStatementBlockUntilWorkflowSection()
			} else {
				p.advance()
			}
		}
	}
	p.expectPunct("}")
	wf.RangeVal = spanFrom(start, p.peekN(-1))

	// A named (non-entry) workflow with take/emit sections still parses,
	// but spec.md §4.6 restricts named-output (`CALL.out.NAME`) validation
	// to the entry workflow's emit section; flag the mismatch here so the
	// diagnostic appears at the declaration rather than every call site.
	if !wf.IsEntry() && wf.Emits != nil {
		p.diag = append(p.diag, errs.Warning(errs.PhaseSyntax, wf.RangeVal,
			"named emit outputs on workflow %q are only addressable as CALL.out[n]; use the entry workflow for CALL.out.NAME access", wf.Name))
	}

	return wf
}

func (p *Parser) atWorkflowSectionBoundary() bool {
	if p.atPunct("}") || p.at(lexer.TokEOF, "") {
		return true
	}
	if p.at(lexer.TokKeyword, "") {
		switch p.cur().Text {
		case "take", "main", "emit", "publish":
			return true
		}
	}
	return false
}

func (p *Parser) parseDirectiveBlockUntilWorkflowSection() *ast.Block {
	start := p.cur()
	var stmts []ast.Node
	for !p.atWorkflowSectionBoundary() {
		stmt := p.parseDirectiveStatement()
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
	}
	b := &ast.Block{Statements: stmts}
	b.RangeVal = spanFrom(start, p.cur())
	return b
}

func (p *Parser) parseStatementBlockUntilWorkflowSection() *ast.Block {
	start := p.cur()
	var stmts []ast.Node
	for !p.atWorkflowSectionBoundary() {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	b := &ast.Block{Statements: stmts}
	b.RangeVal = spanFrom(start, p.cur())
	return b
}

// parseStatement parses one general statement inside a function/workflow
// body: an expression statement. The host language's full control-flow
// surface (if/for/while) is out of scope for the analyzer core per
// spec.md's non-goals; such statements fall back to an opaque host
// statement via parseHostStatement in hostexpr.go.
func (p *Parser) parseStatement() ast.Node {
	if p.atKeyword("if") || p.atKeyword("for") || p.atKeyword("while") || p.atKeyword("try") {
		return p.parseHostStatement()
	}
	start := p.cur()
	expr := p.parseExpr()
	es := &ast.ExprStatement{Expr: expr}
	es.RangeVal = spanFrom(start, p.peekN(-1))
	return es
}

// parseFunction parses `def NAME(params) { body }`.
func (p *Parser) parseFunction() *ast.Function {
	start := p.advance() // 'def'
	name := p.advance().Text
	var params []string
	if p.atPunct("(") {
		p.advance()
		for !p.atPunct(")") && !p.at(lexer.TokEOF, "") {
			params = append(params, p.advance().Text)
			if p.atPunct(",") {
				p.advance()
			}
		}
		p.expectPunct(")")
	}
	if _, ok := p.expectPunct("{"); !ok {
		p.syncToStatementBoundary()
		return nil
	}
	body := p.parseStatementsUntilBrace()
	p.expectPunct("}")
	fn := &ast.Function{Name: name, Params: params, Body: body}
	fn.RangeVal = spanFrom(start, p.peekN(-1))
	return fn
}

func (p *Parser) parseStatementsUntilBrace() *ast.Block {
	start := p.cur()
	var stmts []ast.Node
	for !p.atPunct("}") && !p.at(lexer.TokEOF, "") {
		before := p.pos
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		if p.pos == before {
			p.advance()
		}
	}
	b := &ast.Block{Statements: stmts}
	b.RangeVal = spanFrom(start, p.cur())
	return b
}

// parseOutput parses `output { body }`.
func (p *Parser) parseOutput() *ast.Output {
	start := p.advance() // 'output'
	if _, ok := p.expectPunct("{"); !ok {
		p.syncToStatementBoundary()
		return nil
	}
	body := p.parseStatementsUntilBrace()
	p.expectPunct("}")
	out := &ast.Output{Body: body}
	out.RangeVal = spanFrom(start, p.peekN(-1))
	return out
}

// --- config file grammar ---

func (p *Parser) parseConfigFile() *ast.ConfigFile {
	start := p.cur()
	cfg := &ast.ConfigFile{}
	for !p.at(lexer.TokEOF, "") {
		before := p.pos
		p.parseConfigTopLevel(cfg)
		if p.pos == before {
			p.advance()
		}
	}
	cfg.RangeVal = spanFrom(start, p.peekN(-1))
	return cfg
}

func (p *Parser) parseConfigTopLevel(cfg *ast.ConfigFile) {
	switch {
	case p.at(lexer.TokIdent, "includeConfig"):
		start := p.advance()
		pathTok := p.advance()
		inc := &ast.ConfigInclude{SourcePath: pathTok.Text}
		inc.RangeVal = spanFrom(start, pathTok)
		cfg.Includes = append(cfg.Includes, inc)
	case (p.at(lexer.TokIdent, "") || p.at(lexer.TokKeyword, "")) && p.peekN(1).Text == "{":
		cfg.Blocks = append(cfg.Blocks, p.parseConfigBlock())
	case p.at(lexer.TokIdent, ""):
		if a := p.parseConfigAssignment(); a != nil {
			cfg.Assignments = append(cfg.Assignments, a)
		}
	default:
		p.errorHere("unexpected token %q in config file", p.cur().Raw)
		p.advance()
	}
}

func (p *Parser) parseConfigBlock() *ast.ConfigBlock {
	start := p.advance() // block name
	p.expectPunct("{")
	block := &ast.ConfigBlock{Name: start.Text}
	for !p.atPunct("}") && !p.at(lexer.TokEOF, "") {
		before := p.pos
		switch {
		case p.at(lexer.TokIdent, "") && p.peekN(1).Text == "{":
			block.Inner = append(block.Inner, p.parseConfigBlock())
		case p.at(lexer.TokIdent, ""):
			if a := p.parseConfigAssignment(); a != nil {
				block.Inner = append(block.Inner, a)
			}
		default:
			p.advance()
		}
		if p.pos == before {
			p.advance()
		}
	}
	p.expectPunct("}")
	block.RangeVal = spanFrom(start, p.peekN(-1))
	return block
}

func (p *Parser) parseConfigAssignment() *ast.ConfigAssignment {
	start := p.cur()
	name := p.parseDottedName()
	if _, ok := p.expectPunct("="); !ok {
		return nil
	}
	val := p.parseExpr()
	a := &ast.ConfigAssignment{DottedName: name, Value: val}
	a.RangeVal = spanFrom(start, p.peekN(-1))
	return a
}
