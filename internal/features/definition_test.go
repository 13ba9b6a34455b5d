package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

func TestDefinitionJumpsFromCallToProcessDeclaration(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	callPos := findPos(t, greetWorkflowSource, "greet(params")

	loc, ok := Definition(cache, "main.wfl", callPos, nil)
	require.True(t, ok)
	assert.Equal(t, lsptypes.URI("main.wfl"), loc.URI)

	declPos := findPos(t, greetWorkflowSource, "process greet")
	assert.Equal(t, declPos.Line, loc.Range.Start.Line)
}

func TestDefinitionAcrossIncludedFile(t *testing.T) {
	libSrc := `
process greet {
    input:
        val name
    script:
        "echo ${name}"
}
`
	mainSrc := `
include { greet } from './lib.wfl'

workflow {
    main:
        greet(params.name)
}
`
	cache := buildCache(t, map[string]string{"lib.wfl": libSrc, "main.wfl": mainSrc})
	callPos := findPos(t, mainSrc, "greet(params")

	loc, ok := Definition(cache, "main.wfl", callPos, nil)
	require.True(t, ok)
	assert.Equal(t, lsptypes.URI("lib.wfl"), loc.URI)
}

func TestDefinitionReturnsFalseForUnresolvedIdentifier(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	pos := findPos(t, greetWorkflowSource, "params.name")

	_, ok := Definition(cache, "main.wfl", pos, nil)
	assert.False(t, ok)
}

func TestDefinitionReturnsFalseForUnknownURI(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	_, ok := Definition(cache, "missing.wfl", lsptypes.Position{}, nil)
	assert.False(t, ok)
}
