package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeLensesOneLensPerWorkflow(t *testing.T) {
	src := `
workflow sub {
    main:
        println(1)
}

workflow {
    main:
        sub()
}
`
	cache := buildCache(t, map[string]string{"main.wfl": src})
	lenses := CodeLenses(cache, "main.wfl")
	require.Len(t, lenses, 2)
	for _, l := range lenses {
		assert.Equal(t, "Preview workflow DAG", l.Title)
		assert.Equal(t, "wflsp.previewDag", l.Command)
	}
}

func TestCodeLensesEmptyForUnknownURI(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	assert.Empty(t, CodeLenses(cache, "missing.wfl"))
}

func TestDocumentLinksResolvesIncludeTarget(t *testing.T) {
	libSrc := `
process greet {
    script:
        "echo hi"
}
`
	mainSrc := `
include { greet } from './lib.wfl'

workflow {
    main:
        greet()
}
`
	cache := buildCache(t, map[string]string{"lib.wfl": libSrc, "main.wfl": mainSrc})
	links := DocumentLinks(cache, "main.wfl")
	require.Len(t, links, 1)
	assert.Equal(t, "lib.wfl", string(links[0].Target))
}

func TestDocumentLinksEmptyWhenNoIncludes(t *testing.T) {
	cache := buildCache(t, map[string]string{"main.wfl": greetWorkflowSource})
	assert.Empty(t, DocumentLinks(cache, "main.wfl"))
}
