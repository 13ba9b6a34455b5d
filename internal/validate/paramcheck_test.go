package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/wflsp/internal/parser"
	"github.com/standardbeagle/wflsp/internal/schema"
)

func mustParamSchema(t *testing.T, raw string) *schema.ParamSchema {
	t.Helper()
	s, err := schema.LoadParamSchema("nextflow_schema.json", []byte(raw))
	require.NoError(t, err)
	return s
}

func TestParamCheckerNilSchemaIsNoOp(t *testing.T) {
	res := parser.ParseScript("main.wfl", `params.input = 'a.csv'`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{}
	assert.Empty(t, c.CheckAssignments(res.Script))
}

func TestParamCheckerUnknownFieldIsReported(t *testing.T) {
	res := parser.ParseScript("main.wfl", `params.notInSchema = 1`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{Schema: mustParamSchema(t, `{"properties": {"input": {"type": "string"}}}`)}
	diags := c.CheckAssignments(res.Script)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Unrecognized parameter `notInSchema`")
}

func TestParamCheckerUnknownReferenceIsReported(t *testing.T) {
	res := parser.ParseScript("main.wfl", `
workflow {
    main:
        println(params.sample)
}
`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{Schema: mustParamSchema(t, `{"properties": {"reads": {"type": "string"}}}`)}
	diags := c.CheckAssignments(res.Script)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "Unrecognized parameter `sample`")
}

func TestParamCheckerKnownReferencePasses(t *testing.T) {
	res := parser.ParseScript("main.wfl", `
workflow {
    main:
        println(params.reads)
}
`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{Schema: mustParamSchema(t, `{"properties": {"reads": {"type": "string"}}}`)}
	assert.Empty(t, c.CheckAssignments(res.Script))
}

func TestParamCheckerUnknownFieldSuggestsClose(t *testing.T) {
	res := parser.ParseScript("main.wfl", `params.inpt = 'a.csv'`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{Schema: mustParamSchema(t, `{"properties": {"input": {"type": "string"}}}`)}
	diags := c.CheckAssignments(res.Script)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "did you mean params.input?")
}

func TestParamCheckerTypeMismatch(t *testing.T) {
	res := parser.ParseScript("main.wfl", `params.input = 42`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{Schema: mustParamSchema(t, `{"properties": {"input": {"type": "string"}}}`)}
	diags := c.CheckAssignments(res.Script)
	require.Len(t, diags, 1)
	assert.Contains(t, diags[0].Message, "declared as string, assigned f64")
}

func TestParamCheckerNumericLiteralSatisfiesIntegerField(t *testing.T) {
	res := parser.ParseScript("main.wfl", `params.max_cpus = 4`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{Schema: mustParamSchema(t, `{"properties": {"max_cpus": {"type": "integer"}}}`)}
	assert.Empty(t, c.CheckAssignments(res.Script))
}

func TestParamCheckerMatchingTypePasses(t *testing.T) {
	res := parser.ParseScript("main.wfl", `params.input = 'a.csv'`)
	require.Empty(t, res.Diagnostics)

	c := ParamChecker{Schema: mustParamSchema(t, `{"properties": {"input": {"type": "string"}}}`)}
	assert.Empty(t, c.CheckAssignments(res.Script))
}
