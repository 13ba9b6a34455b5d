package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferencesFindsCallSiteWithoutDeclaration(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	callPos := findPos(t, greetWorkflowSource, "greet(params")

	locs := References(cache, "main.wfl", callPos, nil, false)
	require.Len(t, locs, 1)
}

func TestReferencesIncludesDeclarationWhenRequested(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	callPos := findPos(t, greetWorkflowSource, "greet(params")

	locs := References(cache, "main.wfl", callPos, nil, true)
	assert.Len(t, locs, 2)
}

func TestReferencesSpanMultipleFiles(t *testing.T) {
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
        greet(params.other)
}
`
	cache := buildCache(t, map[string]string{"lib.wfl": libSrc, "main.wfl": mainSrc})
	callPos := findPos(t, mainSrc, "greet(params.name")

	locs := References(cache, "main.wfl", callPos, nil, true)
	// two call sites in main.wfl plus the declaration in lib.wfl
	assert.Len(t, locs, 3)
}

func TestReferencesReturnsNilForUnresolvedIdentifier(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	locs := References(cache, "main.wfl", findPos(t, greetWorkflowSource, "params.name"), nil, true)
	assert.Nil(t, locs)
}
