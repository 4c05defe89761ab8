package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhobs/agent-tools/pkg/metrics"
	"github.com/rhobs/agent-tools/pkg/resultutil"
)

func newTestClient(t *testing.T, opts CalculatorMCPOptions) *client.Client {
	t.Helper()

	srv, err := NewMCPServer(opts)
	require.NoError(t, err)

	c, err := client.NewInProcessClient(srv)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))

	_, err = c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo:      mcp.Implementation{Name: "test-client", Version: "0.0.1"},
		},
	})
	require.NoError(t, err)
	return c
}

func callTool(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args

	res, err := c.CallTool(context.Background(), req)
	require.NoError(t, err)
	return res
}

func TestListTools(t *testing.T) {
	c := newTestClient(t, CalculatorMCPOptions{})

	res, err := c.ListTools(context.Background(), mcp.ListToolsRequest{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
	}
	assert.ElementsMatch(t, []string{"add", "subtract", "multiply", "divide", "modulo", "power"}, names)
}

func TestCallTool(t *testing.T) {
	c := newTestClient(t, CalculatorMCPOptions{})

	tests := []struct {
		name      string
		tool      string
		args      map[string]any
		want      float64
		wantError string
	}{
		{name: "add", tool: "add", args: map[string]any{"a": 2, "b": 3}, want: 5},
		{name: "subtract", tool: "subtract", args: map[string]any{"a": 2, "b": 3}, want: -1},
		{name: "multiply", tool: "multiply", args: map[string]any{"a": 2.5, "b": 4}, want: 10},
		{name: "divide", tool: "divide", args: map[string]any{"a": 9, "b": 2}, want: 4.5},
		{name: "modulo", tool: "modulo", args: map[string]any{"a": 9, "b": 4}, want: 1},
		{name: "power", tool: "power", args: map[string]any{"base": 2, "exponent": 10}, want: 1024},
		{name: "square root", tool: "power", args: map[string]any{"base": 9, "exponent": 0.5}, want: 3},
		{name: "divide by zero", tool: "divide", args: map[string]any{"a": 1, "b": 0}, wantError: "Cannot divide by zero."},
		{name: "modulo by zero", tool: "modulo", args: map[string]any{"a": 1, "b": 0}, wantError: "Cannot modulo by zero."},
		{name: "missing argument", tool: "add", args: map[string]any{"a": 1}, wantError: `required argument "b" not found`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := callTool(t, c, tt.tool, tt.args)
			text, isError := resultutil.MCPResultText(res)

			if tt.wantError != "" {
				assert.True(t, isError)
				assert.Equal(t, tt.wantError, text)
				return
			}

			require.False(t, isError, text)
			var out struct {
				Result float64 `json:"result"`
			}
			require.NoError(t, json.Unmarshal([]byte(text), &out))
			assert.InDelta(t, tt.want, out.Result, 1e-12)
		})
	}
}

func TestCallToolRecordsMetrics(t *testing.T) {
	rec := metrics.New()
	c := newTestClient(t, CalculatorMCPOptions{Metrics: rec})

	callTool(t, c, "divide", map[string]any{"a": 1, "b": 0})
	callTool(t, c, "add", map[string]any{"a": 1, "b": 1})

	count, err := testutil.GatherAndCount(rec.Gatherer(), "agent_tools_tool_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNewHandler(t *testing.T) {
	srv, err := NewMCPServer(CalculatorMCPOptions{})
	require.NoError(t, err)

	opts := CalculatorMCPOptions{Metrics: metrics.New()}
	handler := NewHandler(srv, &http.Server{}, opts)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, healthEndpoint, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, metricsEndpoint, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestAllTools(t *testing.T) {
	all := AllTools()
	require.Len(t, all, 6)

	for _, tool := range all {
		assert.Contains(t, tool.OutputSchema.Properties, "result", tool.Name)
		require.NotNil(t, tool.Annotations.ReadOnlyHint)
		assert.True(t, *tool.Annotations.ReadOnlyHint)
	}
}

var _ server.ToolHandlerFunc = ToolHandler(nil)
