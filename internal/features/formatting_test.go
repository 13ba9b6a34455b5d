package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPrintsProcessAndWorkflow(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	out, ok := Format(cache, "main.wfl")
	require.True(t, ok)
	assert.Contains(t, out, "process greet {")
	assert.Contains(t, out, "workflow {")
}

func TestFormatPrintsInclude(t *testing.T) {
	src := `
include { greet } from './lib.wfl'

workflow {
    main:
        greet()
}
`
	cache := buildCache(t, map[string]string{"main.wfl": src})
	out, ok := Format(cache, "main.wfl")
	require.True(t, ok)
	assert.Contains(t, out, "include { greet } from './lib.wfl'")
}

func TestFormatRejectsFileWithSyntaxErrors(t *testing.T) {
	cache := buildCache(t, map[string]string{"broken.wfl": "process {{{"})
	_, ok := Format(cache, "broken.wfl")
	assert.False(t, ok)
}

func TestFormatRejectsUnknownURI(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	_, ok := Format(cache, "missing.wfl")
	assert.False(t, ok)
}

func TestExprTextRendersCommonShapes(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	out, ok := Format(cache, "main.wfl")
	require.True(t, ok)
	assert.Contains(t, out, "greet(params.name)")
}
