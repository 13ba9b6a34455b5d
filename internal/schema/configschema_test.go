package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinConfigSchemaLookupKnownPath(t *testing.T) {
	opt, ok := BuiltinConfigSchema.Lookup("process.cpus")
	require.True(t, ok)
	assert.Equal(t, FieldInt, opt.Type)
}

func TestBuiltinConfigSchemaLookupUnknownPath(t *testing.T) {
	_, ok := BuiltinConfigSchema.Lookup("process.totallyMadeUp")
	assert.False(t, ok)
}

func TestBuiltinConfigSchemaStripsProfilePrefix(t *testing.T) {
	opt, ok := BuiltinConfigSchema.Lookup("profiles.standard.docker.enabled")
	require.True(t, ok)
	assert.Equal(t, FieldBool, opt.Type)
}

func TestBuiltinConfigSchemaPermissivePrefixes(t *testing.T) {
	for _, path := range []string{"env.MY_VAR", "params.anything", "process.ext.args"} {
		opt, ok := BuiltinConfigSchema.Lookup(path)
		require.Truef(t, ok, "path %q", path)
		assert.Equal(t, FieldDynamic, opt.Type)
	}
}

func TestBuiltinConfigSchemaNamesNonEmpty(t *testing.T) {
	assert.NotEmpty(t, BuiltinConfigSchema.Names())
}
