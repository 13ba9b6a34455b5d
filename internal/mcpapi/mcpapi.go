// Package mcpapi exposes a second, optional external interface over the
// analysis core: read-only diagnostic and symbol queries as MCP tools,
// for a host (an agent, a CLI) that wants workflow-script intelligence
// without speaking the editor transport spec.md §1 explicitly excludes.
//
// Grounded on the teacher's internal/mcp/server.go: an mcp.NewServer +
// AddTool registration pattern, jsonschema.Schema input schemas, and a
// createJSONResponse-style helper wrapping results as a single
// mcp.TextContent. Trimmed to a handful of read-only tools backed by
// astcache.Cache and internal/features, with no indexing/auto-start
// machinery (this analysis core's workspace lifecycle is owned by
// langservice.Service, not by the MCP server).
package mcpapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	gosdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/wflsp/internal/astcache"
	"github.com/standardbeagle/wflsp/internal/features"
	"github.com/standardbeagle/wflsp/internal/langservice"
	"github.com/standardbeagle/wflsp/internal/logging"
	"github.com/standardbeagle/wflsp/internal/lsptypes"
	"github.com/standardbeagle/wflsp/internal/schema"
)

// Server wraps an MCP server over a shared Cache/Service, so its tools
// observe the same analysis state the language-service side publishes
// diagnostics from.
type Server struct {
	mcp         *gosdkmcp.Server
	cache       *astcache.Cache
	service     *langservice.Service
	paramSchema *schema.ParamSchema
	log         *logging.Logger
}

// New constructs a Server and registers its tools. service may be nil
// (tools that trigger an update become no-ops returning a clear error).
func New(cache *astcache.Cache, service *langservice.Service, paramSchema *schema.ParamSchema, log *logging.Logger) *Server {
	if log == nil {
		log = logging.Discard
	}
	s := &Server{
		cache:       cache,
		service:     service,
		paramSchema: paramSchema,
		log:         log,
	}
	s.mcp = gosdkmcp.NewServer(&gosdkmcp.Implementation{
		Name:    "wflsp-mcp-server",
		Version: "0.1.0",
	}, nil)
	s.registerTools()
	return s
}

// Start runs the server over stdio until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.log.Info("starting MCP server with stdio transport")
	return s.mcp.Run(ctx, &gosdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.mcp.AddTool(&gosdkmcp.Tool{
		Name:        "diagnostics",
		Description: "List diagnostics (syntax, name resolution, include resolution, type/schema errors) for a file.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uri": {Type: "string", Description: "File URI or path"},
			},
			Required: []string{"uri"},
		},
	}, s.handleDiagnostics)

	s.mcp.AddTool(&gosdkmcp.Tool{
		Name:        "definition",
		Description: "Resolve the identifier at a position to its declaration site.",
		InputSchema: positionSchema(),
	}, s.handleDefinition)

	s.mcp.AddTool(&gosdkmcp.Tool{
		Name:        "references",
		Description: "List every reference to the identifier at a position, across the whole workspace.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uri":                 {Type: "string", Description: "File URI or path"},
				"line":                {Type: "integer", Description: "0-based line"},
				"character":           {Type: "integer", Description: "0-based character"},
				"includeDeclaration": {Type: "boolean", Description: "Include the declaration site itself"},
			},
			Required: []string{"uri", "line", "character"},
		},
	}, s.handleReferences)

	s.mcp.AddTool(&gosdkmcp.Tool{
		Name:        "hover",
		Description: "Get a short description of the symbol at a position.",
		InputSchema: positionSchema(),
	}, s.handleHover)

	s.mcp.AddTool(&gosdkmcp.Tool{
		Name:        "document_symbols",
		Description: "List the functions, processes, and workflows declared in a file.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"uri": {Type: "string", Description: "File URI or path"},
			},
			Required: []string{"uri"},
		},
	}, s.handleDocumentSymbols)

	s.mcp.AddTool(&gosdkmcp.Tool{
		Name:        "workspace_symbols",
		Description: "Fuzzy-search (stemmed) for functions, processes, and workflows across the whole workspace.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {Type: "string", Description: "Search query"},
			},
			Required: []string{"query"},
		},
	}, s.handleWorkspaceSymbols)

	s.mcp.AddTool(&gosdkmcp.Tool{
		Name:        "update_now",
		Description: "Force an immediate analysis pass, bypassing the debounce window, and report changed files.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleUpdateNow)
}

func positionSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"uri":       {Type: "string", Description: "File URI or path"},
			"line":      {Type: "integer", Description: "0-based line"},
			"character": {Type: "integer", Description: "0-based character"},
		},
		Required: []string{"uri", "line", "character"},
	}
}

func createJSONResponse(data any) (*gosdkmcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return &gosdkmcp.CallToolResult{
		Content: []gosdkmcp.Content{&gosdkmcp.TextContent{Text: string(content)}},
	}, nil
}

func createErrorResponse(operation string, err error) (*gosdkmcp.CallToolResult, error) {
	resp, marshalErr := createJSONResponse(map[string]any{
		"success":   false,
		"operation": operation,
		"error":     err.Error(),
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	resp.IsError = true
	return resp, nil
}

type positionParams struct {
	URI       string `json:"uri"`
	Line      int    `json:"line"`
	Character int    `json:"character"`
}

func parsePosition(req *gosdkmcp.CallToolRequest) (lsptypes.URI, lsptypes.Position, error) {
	var p positionParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return "", lsptypes.Position{}, fmt.Errorf("invalid parameters: %w", err)
	}
	if p.URI == "" {
		return "", lsptypes.Position{}, fmt.Errorf("uri is required")
	}
	return lsptypes.URI(p.URI), lsptypes.Position{Line: p.Line, Character: p.Character}, nil
}

func (s *Server) handleDiagnostics(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	var p struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return createErrorResponse("diagnostics", fmt.Errorf("invalid parameters: %w", err))
	}
	unit, ok := s.cache.GetSourceUnit(lsptypes.URI(p.URI))
	if !ok {
		return createErrorResponse("diagnostics", fmt.Errorf("unknown file %q", p.URI))
	}
	return createJSONResponse(map[string]any{
		"uri":         p.URI,
		"diagnostics": unit.Diagnostics(),
	})
}

func (s *Server) handleDefinition(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	uri, pos, err := parsePosition(req)
	if err != nil {
		return createErrorResponse("definition", err)
	}
	loc, ok := features.Definition(s.cache, uri, pos, s.paramSchema)
	if !ok {
		return createJSONResponse(map[string]any{"found": false})
	}
	return createJSONResponse(map[string]any{"found": true, "location": loc})
}

func (s *Server) handleReferences(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	var p struct {
		URI                string `json:"uri"`
		Line               int    `json:"line"`
		Character          int    `json:"character"`
		IncludeDeclaration bool   `json:"includeDeclaration"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return createErrorResponse("references", fmt.Errorf("invalid parameters: %w", err))
	}
	pos := lsptypes.Position{Line: p.Line, Character: p.Character}
	locs := features.References(s.cache, lsptypes.URI(p.URI), pos, s.paramSchema, p.IncludeDeclaration)
	return createJSONResponse(map[string]any{"references": locs})
}

func (s *Server) handleHover(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	uri, pos, err := parsePosition(req)
	if err != nil {
		return createErrorResponse("hover", err)
	}
	h, ok := features.HoverAt(s.cache, uri, pos, s.paramSchema)
	if !ok {
		return createJSONResponse(map[string]any{"found": false})
	}
	return createJSONResponse(map[string]any{"found": true, "hover": h})
}

func (s *Server) handleDocumentSymbols(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	var p struct {
		URI string `json:"uri"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return createErrorResponse("document_symbols", fmt.Errorf("invalid parameters: %w", err))
	}
	syms := features.DocumentSymbols(s.cache, lsptypes.URI(p.URI))
	return createJSONResponse(map[string]any{"symbols": syms})
}

func (s *Server) handleWorkspaceSymbols(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	var p struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return createErrorResponse("workspace_symbols", fmt.Errorf("invalid parameters: %w", err))
	}
	syms := features.WorkspaceSymbols(s.cache, p.Query)
	return createJSONResponse(map[string]any{"symbols": syms})
}

func (s *Server) handleUpdateNow(ctx context.Context, req *gosdkmcp.CallToolRequest) (*gosdkmcp.CallToolResult, error) {
	if s.service == nil {
		return createErrorResponse("update_now", fmt.Errorf("language service unavailable"))
	}
	if err := s.service.UpdateNow(ctx); err != nil {
		return createErrorResponse("update_now", err)
	}
	return createJSONResponse(map[string]any{"success": true})
}
