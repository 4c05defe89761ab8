package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rhobs/agent-tools/pkg/tools"
)

// ToolHandler adapts a numeric tool handler to the MCP handler signature.
// Failures are returned as error results, never as Go errors.
func ToolHandler(handler tools.Handler) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handler(ctx, req.GetArguments()).ToMCPResult()
	}
}
