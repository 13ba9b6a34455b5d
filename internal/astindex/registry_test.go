package astindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/parser"
)

const sampleSource = `
process greet {
    input:
        val name
    script:
        "echo ${name}"
}

workflow {
    main:
        greet(params.name)
}
`

func TestBuildIndexesEveryNonSyntheticNode(t *testing.T) {
	res := parser.ParseScript("main.wfl", sampleSource)
	require.Empty(t, res.Diagnostics)

	r := Build(res.Script, 1)
	assert.NotEmpty(t, r.Nodes())
	for _, n := range r.Nodes() {
		assert.False(t, n.Synthetic())
		assert.True(t, r.Contains(n.Handle()))
	}
}

func TestBuildAssignsDistinctHandlesStartingFromGivenSeed(t *testing.T) {
	res := parser.ParseScript("main.wfl", sampleSource)
	require.Empty(t, res.Diagnostics)

	r := Build(res.Script, 100)
	seen := make(map[lsptypes.NodeHandle]bool)
	for _, n := range r.Nodes() {
		assert.False(t, seen[n.Handle()], "handle %d reused", n.Handle())
		seen[n.Handle()] = true
		assert.GreaterOrEqual(t, uint64(n.Handle()), uint64(100))
	}
}

func TestParentReturnsNilForRootAndUnknownNode(t *testing.T) {
	res := parser.ParseScript("main.wfl", sampleSource)
	require.Empty(t, res.Diagnostics)

	r := Build(res.Script, 1)
	assert.Nil(t, r.Parent(res.Script))
	assert.Nil(t, r.Parent(nil))
}

func TestParentOfProcessIsScript(t *testing.T) {
	res := parser.ParseScript("main.wfl", sampleSource)
	require.Empty(t, res.Diagnostics)
	require.Len(t, res.Script.Processes, 1)

	r := Build(res.Script, 1)
	proc := res.Script.Processes[0]
	assert.Same(t, res.Script, r.Parent(proc))
}

func TestNodeAtReturnsInnermostContainingNode(t *testing.T) {
	res := parser.ParseScript("main.wfl", sampleSource)
	require.Empty(t, res.Diagnostics)

	r := Build(res.Script, 1)
	proc := res.Script.Processes[0]
	start := proc.Span().Start

	chain := r.NodesAt(start)
	require.NotEmpty(t, chain)
	assert.Equal(t, chain[0], r.NodeAt(start))

	// The chain must be innermost-first: each later entry's range must
	// contain the earlier entry's range.
	for i := 0; i < len(chain)-1; i++ {
		assert.True(t, chain[i+1].Span().ContainsRange(chain[i].Span()))
	}
}

func TestNodeAtOutsideAnyRangeReturnsNil(t *testing.T) {
	res := parser.ParseScript("main.wfl", sampleSource)
	require.Empty(t, res.Diagnostics)

	r := Build(res.Script, 1)
	assert.Nil(t, r.NodeAt(lsptypes.Position{Line: 9999, Character: 0}))
}

func TestBuildOnNilRootReturnsEmptyRegistry(t *testing.T) {
	r := Build(nil, 1)
	assert.Empty(t, r.Nodes())
	assert.Nil(t, r.NodeAt(lsptypes.Position{}))
}

func TestContainsFalseForUnknownHandle(t *testing.T) {
	res := parser.ParseScript("main.wfl", sampleSource)
	require.Empty(t, res.Diagnostics)

	r := Build(res.Script, 1)
	assert.False(t, r.Contains(lsptypes.NodeHandle(999999)))
}
