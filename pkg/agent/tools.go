package agent

import (
	"context"

	"github.com/sashabaranov/go-openai"

	"github.com/rhobs/agent-tools/pkg/agenttools"
)

// ToolSet is a group of tools the model may call. Call never fails: errors
// are returned as text starting with "Error".
type ToolSet interface {
	OpenAITools() []openai.Tool
	Call(ctx context.Context, name, arguments string) string
}

// LocalTools exposes an agent tool registry to the model.
type LocalTools struct {
	reg *agenttools.Registry
}

// NewLocalTools wraps reg as a ToolSet.
func NewLocalTools(reg *agenttools.Registry) *LocalTools {
	return &LocalTools{reg: reg}
}

// OpenAITools declares every registered tool as an OpenAI function.
func (l *LocalTools) OpenAITools() []openai.Tool {
	defs := l.reg.Defs()
	out := make([]openai.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.InputSchema(),
			},
		})
	}
	return out
}

// Call runs the named tool with the model supplied JSON arguments.
func (l *LocalTools) Call(ctx context.Context, name, arguments string) string {
	return agenttools.Invoke(ctx, l.reg, name, arguments)
}
