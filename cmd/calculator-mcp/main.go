package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/common/promslog"
	"github.com/spf13/cobra"

	"github.com/rhobs/agent-tools/pkg/mcp"
	"github.com/rhobs/agent-tools/pkg/metrics"
	"github.com/rhobs/agent-tools/pkg/version"
)

var (
	listen   string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:           "calculator-mcp",
	Short:         "MCP server exposing arithmetic tools",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&listen, "listen", "", "Listen address for HTTP mode (e.g., :9100, 127.0.0.1:8080). Empty serves MCP over stdio")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("calculator-mcp failed", "err", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	if err := configureLogging(logLevel); err != nil {
		return err
	}

	opts := mcp.CalculatorMCPOptions{
		Metrics: metrics.New(),
	}

	mcpServer, err := mcp.NewMCPServer(opts)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx := cmd.Context()

	if listen != "" {
		slog.Info("Starting server", "transport", "http", "version", version.String())
		if err := mcp.Serve(ctx, mcpServer, listen, opts); err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	}

	slog.Info("Starting server", "transport", "stdio", "version", version.String())
	stdioServer := server.NewStdioServer(mcpServer)
	if err := stdioServer.Listen(ctx, os.Stdin, os.Stdout); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// configureLogging sets up the slog logger with the specified log level.
// Logs go to stderr so they never interleave with the stdio transport.
func configureLogging(levelStr string) error {
	level := promslog.NewLevel()
	if err := level.Set(levelStr); err != nil {
		return err
	}

	format := promslog.NewFormat()
	if err := format.Set("logfmt"); err != nil {
		return err
	}

	logger := promslog.New(&promslog.Config{
		Level:  level,
		Format: format,
		Style:  promslog.GoKitStyle,
		Writer: os.Stderr,
	})
	slog.SetDefault(logger)
	return nil
}
