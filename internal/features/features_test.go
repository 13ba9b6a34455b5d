package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/filecache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

// buildCache analyzes one or more named sources through a fresh cache, the
// same pipeline astcache_test.go exercises directly, so every feature test
// here works against a realistic post-pipeline SourceUnit rather than a
// hand-built AST.
func buildCache(t *testing.T, sources map[string]string) *astcache.Cache {
	t.Helper()
	files := filecache.New()
	uris := make([]lsptypes.URI, 0, len(sources))
	for name, src := range sources {
		uri := lsptypes.URI(name)
		files.DidOpen(uri, src)
		uris = append(uris, uri)
	}
	cache := astcache.New(files)
	_, err := cache.Analyze(context.Background(), uris)
	require.NoError(t, err)
	return cache
}

// findPos returns the 0-based Position of needle's first occurrence in src.
func findPos(t *testing.T, src, needle string) lsptypes.Position {
	t.Helper()
	line := 0
	col := 0
	idx := indexOf(src, needle)
	require.GreaterOrEqual(t, idx, 0, "needle %q not found in source", needle)
	for i := 0; i < idx; i++ {
		if src[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return lsptypes.Position{Line: line, Character: col}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

const greetWorkflowSource = `
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
