package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rhobs/agent-tools/pkg/tooldef"
	"github.com/rhobs/agent-tools/pkg/tools"
)

func toMCPTool(def tooldef.ToolDef) mcp.Tool {
	return def.ToMCPTool(mcp.WithOutputSchema[tools.ArithmeticOutput]())
}

// AllTools returns every MCP tool exposed by this server.
func AllTools() []mcp.Tool {
	defs := tools.AllTools()
	out := make([]mcp.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, toMCPTool(def))
	}
	return out
}
