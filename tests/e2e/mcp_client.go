//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
)

const mcpEndpoint = "/mcp"

// MCPRequest is a JSON-RPC 2.0 request. ID is filled in by MCPClient.
type MCPRequest struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Method  string         `json:"method"`
	Params  map[string]any `json:"params,omitempty"`
}

type MCPResponse struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      int64          `json:"id"`
	Result  map[string]any `json:"result,omitempty"`
	Error   *MCPError      `json:"error,omitempty"`
}

type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToolResult is the decoded result of a tools/call request against one of the
// arithmetic tools.
type ToolResult struct {
	IsError bool
	Text    string
	// Value is structuredContent.result; only meaningful when HasValue is set.
	Value    float64
	HasValue bool
}

// MCPClient posts hand-built JSON-RPC bodies to the stateless /mcp endpoint of
// a running calculator-mcp, so the end-to-end tests check the wire format
// itself rather than going through the mcp-go client used by pkg/agent.
type MCPClient struct {
	baseURL string
	client  *http.Client
	nextID  atomic.Int64
}

func NewMCPClient(baseURL string) *MCPClient {
	return &MCPClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// SendRequest assigns a fresh ID to req, posts it and decodes the response.
// A JSON-RPC error is returned in the response, not as err.
func (c *MCPClient) SendRequest(t *testing.T, req MCPRequest) (*MCPResponse, error) {
	t.Helper()

	req.JSONRPC = "2.0"
	req.ID = c.nextID.Add(1)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", req.Method, err)
	}

	httpReq, err := http.NewRequest(http.MethodPost, c.baseURL+mcpEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", req.Method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected HTTP status %d: %s", resp.StatusCode, respBody)
	}

	var mcpResp MCPResponse
	if err := json.Unmarshal(respBody, &mcpResp); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w (body: %s)", req.Method, err, respBody)
	}
	if mcpResp.ID != req.ID {
		return nil, fmt.Errorf("response id %d does not match request id %d", mcpResp.ID, req.ID)
	}
	return &mcpResp, nil
}

// ListToolNames returns the advertised tool names in server order.
func (c *MCPClient) ListToolNames(t *testing.T) ([]string, error) {
	t.Helper()

	resp, err := c.SendRequest(t, MCPRequest{Method: "tools/list"})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("tools/list: %s", resp.Error.Message)
	}

	tools, ok := resp.Result["tools"].([]any)
	if !ok {
		return nil, fmt.Errorf("tools/list: expected a tools array, got %T", resp.Result["tools"])
	}
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		m, _ := tool.(map[string]any)
		if name, ok := m["name"].(string); ok {
			names = append(names, name)
		}
	}
	return names, nil
}

// CallTool invokes toolName and decodes its content and structured result.
// Protocol-level failures are returned as err; tool failures set IsError.
func (c *MCPClient) CallTool(t *testing.T, toolName string, args map[string]any) (*ToolResult, error) {
	t.Helper()

	resp, err := c.SendRequest(t, MCPRequest{
		Method: "tools/call",
		Params: map[string]any{
			"name":      toolName,
			"arguments": args,
		},
	})
	if err != nil {
		return nil, err
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("tools/call %s: %s", toolName, resp.Error.Message)
	}

	res := &ToolResult{}
	res.IsError, _ = resp.Result["isError"].(bool)
	if content, ok := resp.Result["content"].([]any); ok && len(content) > 0 {
		if first, ok := content[0].(map[string]any); ok {
			res.Text, _ = first["text"].(string)
		}
	}
	if structured, ok := resp.Result["structuredContent"].(map[string]any); ok {
		res.Value, res.HasValue = structured["result"].(float64)
	}
	return res, nil
}
