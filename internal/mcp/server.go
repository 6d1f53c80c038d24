package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/northbuild/necbquery/internal/corpus"
	"github.com/northbuild/necbquery/internal/search"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes the corpus query tools.
type Server struct {
	store  *corpus.Store
	engine *search.Engine
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server with the given dependencies.
func NewServer(store *corpus.Store, engine *search.Engine) *Server {
	s := &Server{
		store:  store,
		engine: engine,
	}

	s.mcp = server.NewMCPServer(
		"necbquery",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(lookupSectionTool, s.handleLookupSection)
	s.mcp.AddTool(lookupTableTool, s.handleLookupTable)
	s.mcp.AddTool(lookupRequirementsTool, s.handleLookupRequirements)
	s.mcp.AddTool(keywordQueryTool, s.handleKeywordQuery)
	s.mcp.AddTool(semanticQueryTool, s.handleSemanticQuery)
	s.mcp.AddTool(compareRequirementsTool, s.handleCompareRequirements)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
