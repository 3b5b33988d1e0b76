// Package server exposes the fetch pipeline as MCP tools over stdio.
package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/gaurav-prasanna/fetchpipe/core/orchestrate"
	"github.com/gaurav-prasanna/fetchpipe/core/session"
)

// Server wires the orchestrator and session manager into an MCP server.
type Server struct {
	srv     *mcp.Server
	orch    *orchestrate.Orchestrator
	manager *session.Manager
	log     zerolog.Logger
}

// New creates the MCP server and registers the tool surface.
func New(manager *session.Manager, orch *orchestrate.Orchestrator, version string, log zerolog.Logger) *Server {
	s := &Server{
		orch:    orch,
		manager: manager,
		log:     log.With().Str("component", "server").Logger(),
	}
	s.srv = mcp.NewServer(&mcp.Implementation{
		Name:    "fetchpipe",
		Version: version,
	}, nil)
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is canceled or the client
// disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Msg("serving MCP over stdio")
	return s.srv.Run(ctx, &mcp.StdioTransport{})
}

// textResult wraps a plain text payload in a tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
