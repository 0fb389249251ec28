package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/panbanda/styleaudit/pkg/config"
)

// Server wraps the MCP server and registers the style audit tools.
type Server struct {
	server *mcp.Server
	config *config.Config
}

// NewServer creates a new MCP server. cfg supplies the defaults every tool
// call starts from; nil means the built-in defaults.
func NewServer(version string, cfg *config.Config) *Server {
	if version == "" {
		version = "dev"
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "styleaudit",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, config: cfg}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_styles",
		Description: describeAnalyzeStyles(),
	}, s.handleAnalyzeStyles)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "style_graph",
		Description: describeStyleGraph(),
	}, s.handleStyleGraph)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "style_usage",
		Description: describeStyleUsage(),
	}, s.handleStyleUsage)
}
