package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenizeAlwaysEndsWithEOF(t *testing.T) {
	toks := New("process foo {}").Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, TokEOF, toks[len(toks)-1].Kind)
}

func TestTokenizeEmptySourceYieldsJustEOF(t *testing.T) {
	toks := New("").Tokenize()
	require.Len(t, toks, 1)
	assert.Equal(t, TokEOF, toks[0].Kind)
}

func TestTokenizeKeywordsVsIdentifiers(t *testing.T) {
	toks := New("process greet").Tokenize()
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, TokKeyword, toks[0].Kind)
	assert.Equal(t, "process", toks[0].Text)
	assert.Equal(t, TokIdent, toks[1].Kind)
	assert.Equal(t, "greet", toks[1].Text)
}

func TestIsReserved(t *testing.T) {
	assert.True(t, IsReserved("workflow"))
	assert.True(t, IsReserved("process"))
	assert.False(t, IsReserved("output_block"))
	assert.False(t, IsReserved("myVar"))
}

func TestTokenizeStringLiteralUnescapesText(t *testing.T) {
	toks := New(`'hi\nthere'`).Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, TokString, toks[0].Kind)
	assert.Equal(t, "hi\nthere", toks[0].Text)
	assert.Equal(t, `'hi\nthere'`, toks[0].Raw)
}

func TestTokenizeTripleQuotedStringSpansNewlines(t *testing.T) {
	src := "'''line one\nline two'''"
	toks := New(src).Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, TokString, toks[0].Kind)
	assert.Equal(t, "line one\nline two", toks[0].Text)
}

func TestTokenizeUnterminatedSingleLineStringRecoversAtNewline(t *testing.T) {
	toks := New("'oops\nprocess").Tokenize()
	require.GreaterOrEqual(t, len(toks), 2)
	assert.Equal(t, TokString, toks[0].Kind)
	assert.Equal(t, TokNewline, toks[1].Kind)
}

func TestTokenizeLineComment(t *testing.T) {
	toks := New("// a comment\nprocess").Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, TokLineComment, toks[0].Kind)
	assert.Equal(t, "// a comment", toks[0].Raw)
}

func TestTokenizeDocCommentStripsMarkers(t *testing.T) {
	toks := New("/**\n * does a thing\n */\nprocess").Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, TokDocComment, toks[0].Kind)
	assert.Equal(t, "does a thing", toks[0].Text)
}

func TestTokenizePlainBlockCommentIsNotDoc(t *testing.T) {
	toks := New("/* plain */\nprocess").Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, TokLineComment, toks[0].Kind)
}

func TestTokenizeNumbers(t *testing.T) {
	for _, src := range []string{"42", "3.14", "1_000", "1e10", "1.5e-3"} {
		toks := New(src).Tokenize()
		require.NotEmpty(t, toks)
		assert.Equalf(t, TokNumber, toks[0].Kind, "source %q", src)
		assert.Equalf(t, src, toks[0].Text, "source %q", src)
	}
}

func TestTokenizeMultiCharPunctuation(t *testing.T) {
	toks := New("a -> b").Tokenize()
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, TokPunct, toks[1].Kind)
	assert.Equal(t, "->", toks[1].Text)
}

func TestTokenizeLongestPunctuationWins(t *testing.T) {
	toks := New("<<=").Tokenize()
	require.NotEmpty(t, toks)
	assert.Equal(t, "<<=", toks[0].Text)
}

func TestTokenizeTracksLineAndColumn(t *testing.T) {
	toks := New("a\nbc").Tokenize()
	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, Pos{Line: 1, Column: 1}, toks[0].Start)
	bc := toks[2]
	assert.Equal(t, "bc", bc.Text)
	assert.Equal(t, Pos{Line: 2, Column: 1}, bc.Start)
}
