package tooldef

import (
	"github.com/mark3labs/mcp-go/mcp"
	"k8s.io/utils/ptr"
)

// ToMCPTool converts a ToolDef to an mcp.Tool. Extra options (typically an
// output schema) are applied after the parameters.
func (d ToolDef) ToMCPTool(extra ...mcp.ToolOption) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(d.Description)}

	for _, param := range d.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(param.Description)}
		if param.Required {
			propOpts = append(propOpts, mcp.Required())
		}

		switch param.Type {
		case ParamTypeString:
			if param.Pattern != "" {
				propOpts = append(propOpts, mcp.Pattern(param.Pattern))
			}
			if def, ok := param.Default.(string); ok {
				propOpts = append(propOpts, mcp.DefaultString(def))
			}
			opts = append(opts, mcp.WithString(param.Name, propOpts...))

		case ParamTypeNumber:
			if def, ok := param.Default.(float64); ok {
				propOpts = append(propOpts, mcp.DefaultNumber(def))
			}
			opts = append(opts, mcp.WithNumber(param.Name, propOpts...))

		case ParamTypeBoolean:
			if def, ok := param.Default.(bool); ok {
				propOpts = append(propOpts, mcp.DefaultBool(def))
			}
			opts = append(opts, mcp.WithBoolean(param.Name, propOpts...))
		}
	}

	opts = append(opts, extra...)
	tool := mcp.NewTool(d.Name, opts...)

	tool.Annotations = mcp.ToolAnnotation{
		Title:           d.Title,
		ReadOnlyHint:    ptr.To(d.ReadOnly),
		DestructiveHint: ptr.To(d.Destructive),
		IdempotentHint:  ptr.To(d.Idempotent),
		OpenWorldHint:   ptr.To(d.OpenWorld),
	}

	// Workaround for tools with no parameters
	// See https://github.com/containers/kubernetes-mcp-server/pull/341/files
	if len(d.Params) == 0 {
		tool.InputSchema = mcp.ToolInputSchema{}
		tool.RawInputSchema = []byte(`{"type":"object","properties":{}}`)
	}

	return tool
}
