package astcache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/wflsp/internal/errs"
	"github.com/standardbeagle/wflsp/internal/filecache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newCacheWithFile(t *testing.T, uri lsptypes.URI, text string) (*Cache, context.Context) {
	t.Helper()
	files := filecache.New()
	files.DidOpen(uri, text)
	return New(files), context.Background()
}

const validScript = `
process greet {
    input:
        val name
    output:
        emit(hi)
    script:
        "echo ${name}"
}

workflow {
    main:
        greet(params.name)
}
`

func TestAnalyzeParsesAndIndexesAScript(t *testing.T) {
	uri := lsptypes.URI("main.wfl")
	c, ctx := newCacheWithFile(t, uri, validScript)

	changed, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)
	assert.Contains(t, changed, uri)

	assert.True(t, c.HasAST(uri))
	assert.False(t, c.HasErrors(uri))

	unit, ok := c.GetSourceUnit(uri)
	require.True(t, ok)
	require.NotNil(t, unit.Script)
	require.Len(t, unit.Script.Processes, 1)
}

func TestAnalyzeReportsSyntaxErrorsForBrokenScript(t *testing.T) {
	uri := lsptypes.URI("broken.wfl")
	c, ctx := newCacheWithFile(t, uri, `process {{{`)

	_, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)
	assert.True(t, c.HasSyntaxErrors(uri))
}

func TestAnalyzeDetectsCallArityDiagnostic(t *testing.T) {
	uri := lsptypes.URI("arity.wfl")
	src := `
process greet {
    input:
        val name
    script:
        "echo hi"
}

workflow {
    main:
        greet()
}
`
	c, ctx := newCacheWithFile(t, uri, src)
	_, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)

	unit, ok := c.GetSourceUnit(uri)
	require.True(t, ok)
	found := false
	for _, d := range unit.Diagnostics() {
		if d.Message == "Incorrect number of call arguments, expected 1 but received 0" {
			found = true
		}
	}
	assert.True(t, found, "expected an arity-mismatch diagnostic, got %+v", unit.Diagnostics())
}

func TestAnalyzeSkipsSemanticValidationWhenNameResolutionHasErrors(t *testing.T) {
	uri := lsptypes.URI("unresolved.wfl")
	src := `
process greet {
    input:
        val name
    script:
        "echo hi"
}

workflow {
    main:
        greet(unknownVariable)
        greet()
}
`
	c, ctx := newCacheWithFile(t, uri, src)
	_, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)

	unit, ok := c.GetSourceUnit(uri)
	require.True(t, ok)
	require.NotEmpty(t, unit.diags[errs.PhaseNameResolution], "expected a name-resolution error on the unknown variable")
	assert.Empty(t, unit.diags[errs.PhaseTypeInference], "type-inference checks should be skipped once name resolution has an error")
}

func TestConfigFileIsRoutedThroughConfigParser(t *testing.T) {
	uri := lsptypes.URI("nextflow.config")
	c, ctx := newCacheWithFile(t, uri, `docker.enabled = true`)

	_, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)

	unit, ok := c.GetSourceUnit(uri)
	require.True(t, ok)
	assert.True(t, unit.IsConfig)
	assert.NotNil(t, unit.Config)
	assert.Nil(t, unit.Script)
}

func TestGetNodeAtLineAndColumnFindsInnermostNode(t *testing.T) {
	uri := lsptypes.URI("main.wfl")
	c, ctx := newCacheWithFile(t, uri, validScript)
	_, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)

	unit, ok := c.GetSourceUnit(uri)
	require.True(t, ok)
	proc := unit.Script.Processes[0]
	n := c.GetNodeAtLineAndColumn(uri, proc.Span().Start)
	require.NotNil(t, n)
	assert.Equal(t, uri, c.GetURI(n))
}

func TestGetProcessAndWorkflowNodesAcrossAllUnits(t *testing.T) {
	uri := lsptypes.URI("main.wfl")
	c, ctx := newCacheWithFile(t, uri, validScript)
	_, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)

	assert.Len(t, c.GetProcessNodes(), 1)
	assert.Len(t, c.GetWorkflowNodes(), 1)
	assert.Len(t, c.GetProcessNodes(uri), 1)
	assert.Empty(t, c.GetProcessNodes("other.wfl"))
}

func TestRemoveDropsUnitEntirely(t *testing.T) {
	uri := lsptypes.URI("main.wfl")
	c, ctx := newCacheWithFile(t, uri, validScript)
	_, err := c.Analyze(ctx, []lsptypes.URI{uri})
	require.NoError(t, err)
	require.True(t, c.HasAST(uri))

	c.Remove(uri)
	assert.False(t, c.HasAST(uri))
	_, ok := c.GetSourceUnit(uri)
	assert.False(t, ok)
}

func TestIncludeResolutionBindsAcrossTwoFiles(t *testing.T) {
	libURI := lsptypes.URI("lib.wfl")
	mainURI := lsptypes.URI("main.wfl")

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
	files := filecache.New()
	files.DidOpen(libURI, libSrc)
	files.DidOpen(mainURI, mainSrc)
	c := New(files)

	changed, err := c.Analyze(context.Background(), []lsptypes.URI{libURI, mainURI})
	require.NoError(t, err)
	assert.Contains(t, changed, mainURI)

	mainUnit, ok := c.GetSourceUnit(mainURI)
	require.True(t, ok)
	require.Len(t, mainUnit.Script.Includes, 1)
	v := mainUnit.Script.Includes[0].Variables[0]
	assert.NotNil(t, v.Target, "include variable should resolve to the lib's greet process")
}

func TestURIsReturnsEveryAnalyzedFile(t *testing.T) {
	uriA := lsptypes.URI("a.wfl")
	uriB := lsptypes.URI("b.wfl")
	files := filecache.New()
	files.DidOpen(uriA, `workflow { main: }`)
	files.DidOpen(uriB, `workflow { main: }`)
	c := New(files)

	_, err := c.Analyze(context.Background(), []lsptypes.URI{uriA, uriB})
	require.NoError(t, err)

	assert.ElementsMatch(t, []lsptypes.URI{uriA, uriB}, c.URIs())
}
