package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sashabaranov/go-openai"

	"github.com/rhobs/agent-tools/pkg/resultutil"
	"github.com/rhobs/agent-tools/pkg/tooldef"
	"github.com/rhobs/agent-tools/pkg/version"
)

const clientName = "agent-tools"

// MCPClient is the subset of the mcp-go client used by the bridge.
type MCPClient interface {
	ListTools(ctx context.Context, request mcp.ListToolsRequest) (*mcp.ListToolsResult, error)
	CallTool(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
	Close() error
}

// MCPBridge offers the tools of a remote MCP server to the model.
type MCPBridge struct {
	client MCPClient
	tools  []mcp.Tool
}

// DialStdio launches command as an MCP server over stdio, performs the
// initialize handshake and lists its tools.
func DialStdio(ctx context.Context, command []string, env []string) (*MCPBridge, error) {
	if len(command) == 0 {
		return nil, errors.New("empty MCP server command")
	}

	c, err := client.NewStdioMCPClient(command[0], env, command[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to start MCP server %q: %w", command[0], err)
	}

	if err := Initialize(ctx, c); err != nil {
		_ = c.Close()
		return nil, err
	}

	bridge, err := NewMCPBridge(ctx, c)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	return bridge, nil
}

// Initialize performs the MCP handshake on an already started client.
func Initialize(ctx context.Context, c *client.Client) error {
	res, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: clientName, Version: version.String()},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize MCP session: %w", err)
	}
	slog.Info("Connected to MCP server", "name", res.ServerInfo.Name, "version", res.ServerInfo.Version)
	return nil
}

// NewMCPBridge lists the tools of an initialized client.
func NewMCPBridge(ctx context.Context, c MCPClient) (*MCPBridge, error) {
	res, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, fmt.Errorf("failed to list MCP tools: %w", err)
	}

	names := make([]string, 0, len(res.Tools))
	for _, t := range res.Tools {
		names = append(names, t.Name)
	}
	slog.Debug("Bridged MCP tools", "tools", names)

	return &MCPBridge{client: c, tools: res.Tools}, nil
}

// OpenAITools declares the remote tools as OpenAI functions.
func (b *MCPBridge) OpenAITools() []openai.Tool {
	out := make([]openai.Tool, 0, len(b.tools))
	for _, t := range b.tools {
		var params any = t.InputSchema
		if len(t.RawInputSchema) > 0 {
			params = t.RawInputSchema
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// Call forwards a tool call to the remote server. Transport failures and
// results flagged isError come back as "Error: ..." text.
func (b *MCPBridge) Call(ctx context.Context, name, arguments string) string {
	args, err := tooldef.DecodeArguments(arguments)
	if err != nil {
		return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := b.client.CallTool(ctx, req)
	if err != nil {
		return fmt.Sprintf("Error: MCP tool %s failed: %v", name, err)
	}

	text, isError := resultutil.MCPResultText(res)
	if isError {
		if !strings.HasPrefix(text, "Error") {
			text = "Error: " + text
		}
		return text
	}
	if text == "" {
		return "Tool returned no content."
	}
	return text
}

// Close terminates the session and, for stdio clients, the server process.
func (b *MCPBridge) Close() error {
	return b.client.Close()
}

