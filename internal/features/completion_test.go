package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

func TestCompletionReturnsSnippetsForEmptyFile(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": ""})
	items, incomplete := Completion(cache, "main.wfl", lsptypes.Position{}, nil)
	assert.False(t, incomplete)
	assert.NotEmpty(t, items)
	var sawProcessSnippet bool
	for _, it := range items {
		if it.Label == "process" && it.Kind == CompletionSnippet {
			sawProcessSnippet = true
		}
	}
	assert.True(t, sawProcessSnippet)
}

func TestCompletionReturnsScopeNamesForNonEmptyFile(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	items, incomplete := Completion(cache, "main.wfl", lsptypes.Position{}, nil)
	require.False(t, incomplete)

	var sawGreet bool
	for _, it := range items {
		if it.Label == "greet" {
			sawGreet = true
			assert.Equal(t, CompletionProcess, it.Kind)
		}
	}
	assert.True(t, sawGreet)
}

func TestCompletionForUnknownURIReturnsSnippets(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	items, incomplete := Completion(cache, "missing.wfl", lsptypes.Position{}, nil)
	assert.False(t, incomplete)
	assert.NotEmpty(t, items)
}
