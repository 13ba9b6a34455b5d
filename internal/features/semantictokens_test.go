package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemanticTokensProducesFiveTuplesPerToken(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	toks := SemanticTokens(cache, "main.wfl")
	require.NotEmpty(t, toks)
	assert.Equal(t, 0, len(toks)%5, "tokens must be emitted as complete 5-tuples")
}

func TestSemanticTokensClassifiesProcessAndWorkflow(t *testing.T) {
	src := `
process greet {
    script:
        "echo hi"
}

workflow {
    main:
        greet()
}
`
	cache := buildCache(t, map[string]string{"main.wfl": src})
	toks := SemanticTokens(cache, "main.wfl")

	var sawProcessType, sawWorkflowType bool
	for i := 0; i+4 < len(toks); i += 5 {
		switch TokenType(toks[i+3]) {
		case TokenProcess:
			sawProcessType = true
		case TokenWorkflow:
			sawWorkflowType = true
		}
	}
	assert.True(t, sawProcessType)
	assert.True(t, sawWorkflowType)
}

func TestSemanticTokensClassifiesShellEscapeDistinctlyFromProcessAndWorkflow(t *testing.T) {
	src := `
process greet {
    input:
        val name
    shell:
        '''
        echo !{name}
        '''
}
`
	cache := buildCache(t, map[string]string{"main.wfl": src})
	toks := SemanticTokens(cache, "main.wfl")

	var sawEscape bool
	for i := 0; i+4 < len(toks); i += 5 {
		if TokenType(toks[i+3]) == TokenEscape {
			sawEscape = true
		}
	}
	assert.True(t, sawEscape, "expected a TokenEscape for the !{name} interpolation")
}

func TestSemanticTokensEmptyForUnknownURI(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	assert.Empty(t, SemanticTokens(cache, "missing.wfl"))
}

func TestDeltaEncodeFirstTokenIsAbsolute(t *testing.T) {
	out := deltaEncode([]rawToken{{line: 3, char: 5, length: 4, tokType: TokenProcess}})
	require.Len(t, out, 5)
	assert.Equal(t, []int{3, 5, 4, int(TokenProcess), 0}, out)
}

func TestDeltaEncodeSameLineUsesCharDelta(t *testing.T) {
	out := deltaEncode([]rawToken{
		{line: 1, char: 2, length: 3, tokType: TokenKeyword},
		{line: 1, char: 10, length: 1, tokType: TokenString},
	})
	require.Len(t, out, 10)
	assert.Equal(t, 0, out[5])  // deltaLine
	assert.Equal(t, 8, out[6])  // deltaChar = 10 - 2
}
