// Package mcp exposes the vault tool registry over the Model Context
// Protocol so MCP hosts (editors, desktop assistants) can drive the same
// tools as the chat agent. Tools execute directly here: the host owns the
// approval UX, so the confirmation gate does not apply.
package mcp

import (
	"context"
	"encoding/json"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/quillnotes/quill/internal/tools"
)

// Server bridges the tool registry to an MCP stdio server.
type Server struct {
	registry *tools.Registry
	identity string
}

// NewServer wraps a registry. identity attributes identity-scoped tool
// calls (todo_write) made through MCP.
func NewServer(registry *tools.Registry, identity string) *Server {
	return &Server{registry: registry, identity: identity}
}

// MCPServer returns a configured mcp-go server with every registered
// vault tool exposed under its own name.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("quill", "1.0.0", server.WithToolCapabilities(true))

	for _, t := range s.registry.All() {
		srv.AddTool(s.bridgeTool(t))
	}
	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	stdioServer := server.NewStdioServer(s.MCPServer())
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// bridgeTool converts one registry tool into an MCP tool plus handler.
// The registry's JSON schema passes through unchanged.
func (s *Server) bridgeTool(t tools.Tool) (mcp.Tool, server.ToolHandlerFunc) {
	schema, err := json.Marshal(t.Schema().JSONSchema())
	if err != nil {
		schema = []byte(`{"type":"object"}`)
	}
	tool := mcp.NewToolWithRawSchema(t.Name(), t.Description(), schema)

	name := t.Name()
	handler := func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		ctx = tools.WithIdentity(ctx, s.identity)
		result := s.registry.Execute(ctx, name, args)

		if !result.Success {
			return mcp.NewToolResultError(result.Message), nil
		}
		payload, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError("unserializable tool result"), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
	return tool, handler
}
