package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadParamSchemaFlattensTopLevelProperties(t *testing.T) {
	raw := []byte(`{
		"properties": {
			"input": {"type": "string", "description": "Input samplesheet"},
			"max_cpus": {"type": "integer"}
		},
		"required": ["input"]
	}`)
	s, err := LoadParamSchema("nextflow_schema.json", raw)
	require.NoError(t, err)

	f, ok := s.Lookup("input")
	require.True(t, ok)
	assert.Equal(t, FieldString, f.Type)
	assert.True(t, f.Required)
	assert.Equal(t, "Input samplesheet", f.Description)

	f, ok = s.Lookup("max_cpus")
	require.True(t, ok)
	assert.Equal(t, FieldInt, f.Type)
	assert.False(t, f.Required)
}

func TestLoadParamSchemaFlattensNestedObjects(t *testing.T) {
	raw := []byte(`{
		"properties": {
			"reads": {
				"type": "object",
				"properties": {
					"r1": {"type": "string"},
					"r2": {"type": "string"}
				}
			}
		}
	}`)
	s, err := LoadParamSchema("nextflow_schema.json", raw)
	require.NoError(t, err)
	_, ok := s.Lookup("reads.r1")
	assert.True(t, ok)
	_, ok = s.Lookup("reads.r2")
	assert.True(t, ok)
	_, ok = s.Lookup("reads")
	assert.False(t, ok)
}

func TestLoadParamSchemaFlattensDefsGroups(t *testing.T) {
	raw := []byte(`{
		"$defs": {
			"input_output_options": {
				"properties": {
					"outdir": {"type": "string"}
				},
				"required": ["outdir"]
			}
		}
	}`)
	s, err := LoadParamSchema("nextflow_schema.json", raw)
	require.NoError(t, err)
	f, ok := s.Lookup("outdir")
	require.True(t, ok)
	assert.True(t, f.Required)
}

func TestLoadParamSchemaUnknownTypeIsDynamic(t *testing.T) {
	raw := []byte(`{"properties": {"weird": {"type": "array"}}}`)
	s, err := LoadParamSchema("nextflow_schema.json", raw)
	require.NoError(t, err)
	f, ok := s.Lookup("weird")
	require.True(t, ok)
	assert.Equal(t, FieldDynamic, f.Type)
}

func TestLoadParamSchemaInvalidJSONReturnsError(t *testing.T) {
	_, err := LoadParamSchema("nextflow_schema.json", []byte("{not json"))
	assert.Error(t, err)
}

func TestParamSchemaNamesSorted(t *testing.T) {
	raw := []byte(`{"properties": {"zeta": {"type": "string"}, "alpha": {"type": "string"}}}`)
	s, err := LoadParamSchema("nextflow_schema.json", raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, s.Names())
}
