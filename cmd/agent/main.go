package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/common/promslog"
	"github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"

	"github.com/rhobs/agent-tools/pkg/agent"
	"github.com/rhobs/agent-tools/pkg/agenttools"
	"github.com/rhobs/agent-tools/pkg/config"
	"github.com/rhobs/agent-tools/pkg/metrics"
	"github.com/rhobs/agent-tools/pkg/sandbox"
	"github.com/rhobs/agent-tools/pkg/search"
	"github.com/rhobs/agent-tools/pkg/version"
)

const demoQuery = "Write a Python script that generates the first 10 Fibonacci numbers and prints them."

var (
	configPath    string
	logLevel      string
	maxIterations int
	mcpCommand    string
	metricsListen string
	timeout       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "agent [query...]",
	Short: "Answer a single query with a tool-calling language model",
	Long: `Forwards one natural-language query to an OpenAI compatible chat model that can call
web_search, calculator, python_repl, get_current_datetime and convert_time, and prints
the final answer. Without a query a built-in demo query is used.`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&configPath, "config", "", "Optional TOML configuration file")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "Maximum model round trips (default from config, 50)")
	rootCmd.Flags().StringVar(&mcpCommand, "mcp-command", "", "Launch an MCP server over stdio and offer its tools too, e.g. \"calculator-mcp\"")
	rootCmd.Flags().StringVar(&metricsListen, "metrics-listen", "", "Serve Prometheus metrics on this address (e.g., :9101) while the query runs")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "Overall deadline for answering the query (0 disables)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("agent failed", "err", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if err := configureLogging(logLevel); err != nil {
		return err
	}

	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if maxIterations > 0 {
		cfg.Agent.MaxIterations = maxIterations
	}
	if mcpCommand != "" {
		cfg.Agent.MCPCommand = strings.Fields(mcpCommand)
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	if query == "" {
		query = demoQuery
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	rec := metrics.New()
	if metricsListen != "" {
		srv, err := rec.Listen(metricsListen)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				slog.Warn("Metrics server shutdown error", "err", err)
			}
		}()
	}

	a, cleanup, err := buildAgent(ctx, cfg, rec)
	if err != nil {
		return err
	}
	defer cleanup()

	slog.Info("Running agent", "model", cfg.Model.Name, "tools", a.ToolNames())

	res, err := a.Run(ctx, query)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Agent: %s\n", res.Answer)
	return nil
}

func buildAgent(ctx context.Context, cfg *config.Config, rec *metrics.Recorder) (*agent.Agent, func(), error) {
	backend, err := search.New(cfg.Search)
	if err != nil {
		return nil, nil, err
	}

	reg, err := agenttools.NewRegistry(agenttools.Options{
		Search: backend,
		Python: sandbox.New(cfg.Python),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build tool registry: %w", err)
	}

	toolSets := []agent.ToolSet{agent.NewLocalTools(reg)}
	cleanup := func() {}

	if len(cfg.Agent.MCPCommand) > 0 {
		bridge, err := agent.DialStdio(ctx, cfg.Agent.MCPCommand, os.Environ())
		if err != nil {
			return nil, nil, err
		}
		toolSets = append(toolSets, bridge)
		cleanup = func() {
			if err := bridge.Close(); err != nil {
				slog.Warn("Failed to close MCP session", "err", err)
			}
		}
	}

	clientConfig := openai.DefaultConfig(cfg.Model.APIKey)
	if cfg.Model.BaseURL != "" {
		clientConfig.BaseURL = cfg.Model.BaseURL
	}

	a, err := agent.New(agent.Options{
		Client:        openai.NewClientWithConfig(clientConfig),
		Model:         cfg.Model.Name,
		Temperature:   cfg.Model.Temperature,
		MaxIterations: cfg.Agent.MaxIterations,
		ToolSets:      toolSets,
		Metrics:       rec,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return a, cleanup, nil
}

// configureLogging sets up the slog logger with the specified log level.
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
