package agenttools

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	langchaintools "github.com/tmc/langchaingo/tools"

	"github.com/rhobs/agent-tools/pkg/registry"
	"github.com/rhobs/agent-tools/pkg/sandbox"
	"github.com/rhobs/agent-tools/pkg/tooldef"
)

// Registry maps agent tool names to their definitions and handlers.
type Registry = registry.Registry[Handler]

// Options wires the external collaborators of the agent tools.
type Options struct {
	// Search backs web_search. A nil backend makes the tool report an error.
	Search langchaintools.Tool
	// Python backs python_repl. A nil executor makes the tool report an error.
	Python *sandbox.Executor
	// Now reads the wall clock. Defaults to time.Now.
	Now func() time.Time
}

// NewRegistry builds the registry of the five agent tools.
func NewRegistry(opts Options) (*Registry, error) {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return registry.New(
		registry.Entry[Handler]{Def: Calculator, Handler: CalculatorHandler},
		registry.Entry[Handler]{Def: WebSearch, Handler: WebSearchHandler(opts.Search)},
		registry.Entry[Handler]{Def: ConvertTime, Handler: ConvertTimeHandler(now)},
		registry.Entry[Handler]{Def: GetCurrentDatetime, Handler: DatetimeHandler(now)},
		registry.Entry[Handler]{Def: PythonREPL, Handler: PythonREPLHandler(opts.Python)},
	)
}

// Invoke decodes and validates rawArgs against the tool's schema and runs it.
// Every failure, including an unknown tool name, is returned as text.
func Invoke(ctx context.Context, reg *Registry, name, rawArgs string) string {
	entry, ok := reg.Get(name)
	if !ok {
		slog.Warn("Model requested unknown tool", "tool", name)
		return fmt.Sprintf("Error: unknown tool %q", name)
	}

	args, err := tooldef.DecodeArguments(rawArgs)
	if err != nil {
		return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
	}
	if err := entry.Def.Validate(args); err != nil {
		return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
	}

	return entry.Handler(ctx, args)
}
