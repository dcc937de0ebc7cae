// Package mcp exposes the context engine over the Model Context Protocol
// with a stdio transport. One tool per engine operation; handlers are
// panic-isolated so a bad request can never take the server down.
package mcp

import (
	"context"
	"runtime/debug"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/sce/internal/config"
	sdbg "github.com/standardbeagle/sce/internal/debug"
	"github.com/standardbeagle/sce/internal/engine"
	"github.com/standardbeagle/sce/internal/version"
)

// Server serves engine operations over MCP.
type Server struct {
	cfg    *config.Config
	engine *engine.Engine
	server *mcp.Server
}

// NewServer builds an MCP server around an engine.
func NewServer(cfg *config.Config, eng *engine.Engine) *Server {
	s := &Server{
		cfg:    cfg,
		engine: eng,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "sce-mcp-server",
			Version: version.Version,
		}, nil),
	}
	s.registerTools()
	return s
}

// Start runs the server over stdio until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	sdbg.LogMCP("starting MCP server with stdio transport\n")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "select_context",
		Description: "Select the most relevant project files for a prompt within a token budget. Combines semantic matching with dependency graph expansion.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"prompt": {
					Type:        "string",
					Description: "User prompt or task description to select context for",
				},
				"root": {
					Type:        "string",
					Description: "Project root directory (defaults to configured project root)",
				},
				"max_tokens": {
					Type:        "integer",
					Description: "Token budget override for this request",
				},
				"sensitivity": {
					Type:        "string",
					Description: "Seed threshold: conservative, balanced, or aggressive",
				},
			},
			Required: []string{"prompt"},
		},
	}, s.handleSelectContext)

	s.server.AddTool(&mcp.Tool{
		Name:        "find_matches",
		Description: "Score every project file against a prompt and return the raw semantic matches, sorted by relevance. Useful for inspecting why select_context chose what it chose.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"prompt": {
					Type:        "string",
					Description: "User prompt or task description to score files against",
				},
				"root": {
					Type:        "string",
					Description: "Project root directory (defaults to configured project root)",
				},
				"limit": {
					Type:        "integer",
					Description: "Return at most this many matches (0 means all)",
				},
			},
			Required: []string{"prompt"},
		},
	}, s.handleFindMatches)

	s.server.AddTool(&mcp.Tool{
		Name:        "estimate_complexity",
		Description: "Classify an edit request into a complexity tier (SIMPLE, MODERATE, COMPLEX, MULTI_FILE) with confidence, token estimate, and a suggested execution strategy.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"prompt": {
					Type:        "string",
					Description: "Edit request to classify",
				},
				"file": {
					Type:        "string",
					Description: "Path of the file the edit targets",
				},
			},
			Required: []string{"prompt"},
		},
	}, s.handleEstimateComplexity)

	s.server.AddTool(&mcp.Tool{
		Name:        "optimize_edit",
		Description: "Package an edit request for generation: classify it, pick a model strategy, and render a prompt with tier-appropriate instructions and validation expectations.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"prompt": {
					Type:        "string",
					Description: "Edit request to optimize",
				},
				"file": {
					Type:        "string",
					Description: "Path of the file the edit targets",
				},
			},
			Required: []string{"prompt"},
		},
	}, s.handleOptimizeEdit)

	s.server.AddTool(&mcp.Tool{
		Name:        "validate_edit",
		Description: "Validate a proposed edit against the rule registry (syntax, structure, imports, style, security and more depending on level).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"original": {
					Type:        "string",
					Description: "File content before the edit",
				},
				"edited": {
					Type:        "string",
					Description: "File content after the edit",
				},
				"file": {
					Type:        "string",
					Description: "File path, used for file-type specific rules",
				},
				"level": {
					Type:        "string",
					Description: "Validation level: basic, enhanced, or strict (default basic)",
				},
			},
			Required: []string{"edited"},
		},
	}, s.handleValidateEdit)

	s.server.AddTool(&mcp.Tool{
		Name:        "graph_stats",
		Description: "Build or reuse the project dependency graph and report node/edge counts, degree statistics, and import cycles.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"root": {
					Type:        "string",
					Description: "Project root directory (defaults to configured project root)",
				},
			},
		},
	}, s.handleGraphStats)

	s.server.AddTool(&mcp.Tool{
		Name:        "info",
		Description: "Get server version, configuration, and cache statistics.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, s.handleInfo)
}

// recoverFromPanic isolates handler execution. A panicking handler produces
// an error response instead of killing the stdio session.
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			sdbg.LogMCP("panic recovered in %s: %v\n%s", operation, r, debug.Stack())
			result, err = createErrorResponse(operation, "internal error, see debug log")
		}
	}()
	return handler()
}
