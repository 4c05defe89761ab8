package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/rhobs/agent-tools/pkg/metrics"
	"github.com/rhobs/agent-tools/pkg/tools"
	"github.com/rhobs/agent-tools/pkg/version"
)

// CalculatorMCPOptions contains configuration options for the MCP server
type CalculatorMCPOptions struct {
	// Registry holds the tools to expose. Defaults to tools.NewRegistry().
	Registry *tools.Registry
	// Metrics records tool calls. May be nil.
	Metrics *metrics.Recorder
}

const (
	mcpEndpoint            = "/mcp"
	healthEndpoint         = "/health"
	metricsEndpoint        = metrics.Endpoint
	serverName             = "calculator-mcp"
	defaultShutdownTimeout = 10 * time.Second
)

func NewMCPServer(opts CalculatorMCPOptions) (*server.MCPServer, error) {
	mcpServer := server.NewMCPServer(
		serverName,
		version.String(),
		server.WithLogging(),
		server.WithRecovery(),
		server.WithToolCapabilities(true),
		server.WithInstructions(tools.ServerPrompt),
		server.WithToolHandlerMiddleware(instrumentToolCalls(opts.Metrics)),
	)

	if err := SetupTools(mcpServer, opts); err != nil {
		return nil, err
	}

	return mcpServer, nil
}

func SetupTools(mcpServer *server.MCPServer, opts CalculatorMCPOptions) error {
	reg := opts.Registry
	if reg == nil {
		var err error
		reg, err = tools.NewRegistry()
		if err != nil {
			return fmt.Errorf("failed to build tool registry: %w", err)
		}
	}

	serverTools := make([]server.ServerTool, 0, reg.Len())
	for _, entry := range reg.Entries() {
		serverTools = append(serverTools, server.ServerTool{
			Tool:    toMCPTool(entry.Def),
			Handler: ToolHandler(entry.Handler),
		})
	}
	mcpServer.AddTools(serverTools...)

	slog.Debug("Registered tools", "tools", reg.Names())
	return nil
}

// instrumentToolCalls records the duration and outcome of every tool call.
func instrumentToolCalls(rec *metrics.Recorder) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := time.Now()
			result, err := next(ctx, req)
			failed := err != nil || (result != nil && result.IsError)
			rec.ObserveToolCall(metrics.HostMCP, req.Params.Name, failed, time.Since(start))
			return result, err
		}
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Info("Incoming request", "method", r.Method, "path", r.URL.Path, "remote_addr", r.RemoteAddr)
		slog.Debug("Request headers", "headers", r.Header)
		if r.ContentLength > 0 {
			slog.Info("Request content length", "content_length", r.ContentLength)
		}
		next.ServeHTTP(w, r)
	})
}

// NewHandler builds the HTTP handler tree used by Serve.
func NewHandler(mcpServer *server.MCPServer, httpServer *http.Server, opts CalculatorMCPOptions) http.Handler {
	mux := http.NewServeMux()

	streamableHTTPServer := server.NewStreamableHTTPServer(mcpServer,
		server.WithStreamableHTTPServer(httpServer),
		server.WithStateLess(true),
	)
	mux.Handle(mcpEndpoint, streamableHTTPServer)

	mux.Handle("/", streamableHTTPServer)

	mux.HandleFunc(healthEndpoint, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.Handle(metricsEndpoint, opts.Metrics.Handler())

	return loggingMiddleware(mux)
}

func Serve(ctx context.Context, mcpServer *server.MCPServer, listenAddr string, opts CalculatorMCPOptions) error {
	httpServer := &http.Server{
		Addr:              listenAddr,
		ReadHeaderTimeout: 10 * time.Second,
	}
	httpServer.Handler = NewHandler(mcpServer, httpServer, opts)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGHUP, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server starting", "listen_addr", listenAddr, "mcp_endpoint", mcpEndpoint)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		slog.Warn("Received signal, initiating graceful shutdown", "signal", sig)
		cancel()
	case <-ctx.Done():
		slog.Warn("Context cancelled, initiating graceful shutdown")
	case err := <-serverErr:
		slog.Error("HTTP server error", "error", err)
		return err
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer shutdownCancel()

	slog.Info("Shutting down HTTP server gracefully")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
		return err
	}

	slog.Info("HTTP server shutdown complete")
	return nil
}
