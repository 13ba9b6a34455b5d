package mcpapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gosdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/filecache"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
)

func newTestServer(t *testing.T, uri lsptypes.URI, text string) *Server {
	t.Helper()
	files := filecache.New()
	files.DidOpen(uri, text)
	cache := astcache.New(files)
	_, err := cache.Analyze(context.Background(), []lsptypes.URI{uri})
	require.NoError(t, err)
	return New(cache, nil, nil, nil)
}

func toolRequest(t *testing.T, args any) *gosdkmcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return &gosdkmcp.CallToolRequest{Params: &gosdkmcp.CallToolParamsRaw{Arguments: raw}}
}

func TestHandleDiagnosticsUnknownFile(t *testing.T) {
	s := newTestServer(t, "main.wfl", "workflow {\n    main:\n        println 'hi'\n}\n")
	resp, err := s.handleDiagnostics(context.Background(), toolRequest(t, map[string]string{"uri": "missing.wfl"}))
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}

func TestHandleDiagnosticsKnownFile(t *testing.T) {
	uri := lsptypes.URI("main.wfl")
	s := newTestServer(t, uri, "workflow {\n    main:\n        println 'hi'\n}\n")
	resp, err := s.handleDiagnostics(context.Background(), toolRequest(t, map[string]string{"uri": string(uri)}))
	require.NoError(t, err)
	assert.False(t, resp.IsError)
	assert.NotEmpty(t, resp.Content)
}

func TestHandleDocumentSymbols(t *testing.T) {
	uri := lsptypes.URI("main.wfl")
	s := newTestServer(t, uri, "workflow greet {\n    main:\n        println 'hi'\n}\n")
	resp, err := s.handleDocumentSymbols(context.Background(), toolRequest(t, map[string]string{"uri": string(uri)}))
	require.NoError(t, err)
	assert.False(t, resp.IsError)
}

func TestHandleUpdateNowWithoutService(t *testing.T) {
	s := newTestServer(t, "main.wfl", "workflow {\n    main:\n        println 'hi'\n}\n")
	resp, err := s.handleUpdateNow(context.Background(), toolRequest(t, map[string]string{}))
	require.NoError(t, err)
	assert.True(t, resp.IsError)
}
