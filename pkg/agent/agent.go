// Package agent runs a tool-calling loop against an OpenAI compatible chat
// completion API.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/rhobs/agent-tools/pkg/agenttools"
	"github.com/rhobs/agent-tools/pkg/config"
	"github.com/rhobs/agent-tools/pkg/metrics"
)

// ErrMaxIterations is returned when the model keeps requesting tools past the
// iteration ceiling.
var ErrMaxIterations = errors.New("max iterations exceeded")

// maxObservationLen caps a single tool result kept in the conversation.
const maxObservationLen = 20000

// ChatClient is satisfied by *openai.Client.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Options configures an Agent.
type Options struct {
	Client        ChatClient
	Model         string
	Temperature   float32
	MaxIterations int
	// SystemPrompt defaults to agenttools.SystemPrompt.
	SystemPrompt string
	ToolSets     []ToolSet
	Metrics      *metrics.Recorder
}

// Agent answers one query at a time. It keeps no state between runs.
type Agent struct {
	client        ChatClient
	model         string
	temperature   float32
	maxIterations int
	systemPrompt  string
	metrics       *metrics.Recorder

	tools  []openai.Tool
	routes map[string]ToolSet
}

// Result is the outcome of a successful run.
type Result struct {
	Answer     string
	Iterations int
	Messages   []openai.ChatCompletionMessage
}

// New builds an Agent. Tool names must be unique across all tool sets.
func New(opts Options) (*Agent, error) {
	if opts.Client == nil {
		return nil, errors.New("agent requires a chat client")
	}

	a := &Agent{
		client:        opts.Client,
		model:         opts.Model,
		temperature:   opts.Temperature,
		maxIterations: opts.MaxIterations,
		systemPrompt:  opts.SystemPrompt,
		metrics:       opts.Metrics,
		routes:        make(map[string]ToolSet),
	}
	if a.model == "" {
		a.model = config.DefaultModel
	}
	if a.maxIterations <= 0 {
		a.maxIterations = config.DefaultMaxIterations
	}
	if a.systemPrompt == "" {
		a.systemPrompt = agenttools.SystemPrompt
	}

	for _, set := range opts.ToolSets {
		for _, t := range set.OpenAITools() {
			name := t.Function.Name
			if _, ok := a.routes[name]; ok {
				return nil, fmt.Errorf("duplicate tool name %q", name)
			}
			a.routes[name] = set
			a.tools = append(a.tools, t)
		}
	}

	return a, nil
}

// ToolNames lists the tools offered to the model.
func (a *Agent) ToolNames() []string {
	names := make([]string, 0, len(a.tools))
	for _, t := range a.tools {
		names = append(names, t.Function.Name)
	}
	return names
}

// Run sends query to the model and executes the requested tool calls until
// the model replies without any, or the iteration ceiling is reached.
func (a *Agent) Run(ctx context.Context, query string) (*Result, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: a.systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: query},
	}

	iteration := 0
	for iteration < a.maxIterations {
		iteration++

		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       a.model,
			Messages:    messages,
			Tools:       a.tools,
			Temperature: a.temperature,
		})
		if err != nil {
			a.metrics.ObserveAgentRun(iteration, "error")
			return nil, fmt.Errorf("chat completion failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			a.metrics.ObserveAgentRun(iteration, "error")
			return nil, errors.New("chat completion returned no choices")
		}

		msg := resp.Choices[0].Message
		if msg.Role == "" {
			msg.Role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, msg)

		if len(msg.ToolCalls) == 0 {
			slog.Debug("Agent finished", "iterations", iteration)
			a.metrics.ObserveAgentRun(iteration, "success")
			return &Result{Answer: msg.Content, Iterations: iteration, Messages: messages}, nil
		}

		slog.Debug("Model requested tools", "iteration", iteration, "count", len(msg.ToolCalls))

		observations, err := a.callTools(ctx, msg.ToolCalls)
		if err != nil {
			a.metrics.ObserveAgentRun(iteration, "error")
			return nil, err
		}
		for i, tc := range msg.ToolCalls {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Function.Name,
				Content:    observations[i],
			})
		}
	}

	a.metrics.ObserveAgentRun(iteration, "max_iterations")
	return nil, fmt.Errorf("%w: %d", ErrMaxIterations, a.maxIterations)
}

// callTools runs the tool calls of one assistant turn concurrently and returns
// their observations in request order.
func (a *Agent) callTools(ctx context.Context, calls []openai.ToolCall) ([]string, error) {
	observations := make([]string, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, tc := range calls {
		g.Go(func() error {
			observations[i] = a.callTool(gctx, tc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Tool failures are text, so only cancellation aborts the run.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return observations, nil
}

func (a *Agent) callTool(ctx context.Context, tc openai.ToolCall) string {
	name := tc.Function.Name
	slog.Info("Calling tool", "tool", name)
	slog.Debug("Tool arguments", "tool", name, "arguments", tc.Function.Arguments)

	start := time.Now()
	var obs string
	set, ok := a.routes[name]
	if !ok {
		slog.Warn("Model requested unknown tool", "tool", name)
		obs = fmt.Sprintf("Error: unknown tool %q", name)
	} else {
		obs = set.Call(ctx, name, tc.Function.Arguments)
	}
	a.metrics.ObserveToolCall(metrics.HostAgent, name, strings.HasPrefix(obs, "Error"), time.Since(start))

	if obs == "" {
		obs = "Tool returned no output."
	}
	if len(obs) > maxObservationLen {
		obs = obs[:maxObservationLen] + "\n... (truncated)"
	}
	return obs
}
