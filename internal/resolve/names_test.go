package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/wflsp/internal/parser"
	"github.com/standardbeagle/wflsp/internal/schema"
)

func TestResolveUnresolvedReferenceDiagnostic(t *testing.T) {
	src := `
workflow {
    main:
        greet(totallyUndeclared)
}
`
	res := parser.ParseScript("main.wfl", src)
	require.Empty(t, res.Diagnostics)

	r := &NameResolver{}
	diags := r.Resolve(res.Script)
	require.Len(t, diags, 2) // greet and totallyUndeclared both unresolved
}

func TestResolveDeclaredProcessIsVisibleFromWorkflow(t *testing.T) {
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
	res := parser.ParseScript("main.wfl", src)
	require.Empty(t, res.Diagnostics)

	r := &NameResolver{}
	diags := r.Resolve(res.Script)
	assert.Empty(t, diags)
}

func TestResolveIncludeVariableIsVisibleByAlias(t *testing.T) {
	src := `
include { greet as hello } from './mod.nf'

workflow {
    main:
        hello()
}
`
	res := parser.ParseScript("main.wfl", src)
	require.Empty(t, res.Diagnostics)

	r := &NameResolver{}
	diags := r.Resolve(res.Script)
	assert.Empty(t, diags)
}

func TestResolveParamSchemaFieldIsVisible(t *testing.T) {
	src := `
workflow {
    main:
        println(params.input)
}
`
	res := parser.ParseScript("main.wfl", src)
	require.Empty(t, res.Diagnostics)

	raw := []byte(`{"properties": {"input": {"type": "string"}}}`)
	ps, err := schema.LoadParamSchema("nextflow_schema.json", raw)
	require.NoError(t, err)

	r := &NameResolver{ParamSchema: ps}
	diags := r.Resolve(res.Script)
	assert.Empty(t, diags)
}

func TestResolveFunctionParamsAreLocalToBody(t *testing.T) {
	src := `
def double(x) {
    x * 2
}
`
	res := parser.ParseScript("main.wfl", src)
	require.Empty(t, res.Diagnostics)

	r := &NameResolver{}
	diags := r.Resolve(res.Script)
	assert.Empty(t, diags)
}

func TestResolveSuggestsCloseMatch(t *testing.T) {
	src := `
process greet {
    script:
        "echo hi"
}

workflow {
    main:
        greett()
}
`
	res := parser.ParseScript("main.wfl", src)
	require.Empty(t, res.Diagnostics)

	r := &NameResolver{}
	diags := r.Resolve(res.Script)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "did you mean")
	assert.Contains(t, diags[0].Message, "greet")
}
