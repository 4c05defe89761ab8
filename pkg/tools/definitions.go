package tools

import "github.com/rhobs/agent-tools/pkg/tooldef"

func operand(name, description string) tooldef.ParamDef {
	return tooldef.ParamDef{
		Name:        name,
		Type:        tooldef.ParamTypeNumber,
		Description: description,
		Required:    true,
	}
}

// All tool definitions as a single source of truth
var (
	Add = tooldef.ToolDef{
		Name:        "add",
		Description: AddPrompt,
		Title:       "Add",
		Params: []tooldef.ParamDef{
			operand("a", "First addend"),
			operand("b", "Second addend"),
		},
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   false,
	}

	Subtract = tooldef.ToolDef{
		Name:        "subtract",
		Description: SubtractPrompt,
		Title:       "Subtract",
		Params: []tooldef.ParamDef{
			operand("a", "Minuend"),
			operand("b", "Subtrahend"),
		},
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   false,
	}

	Multiply = tooldef.ToolDef{
		Name:        "multiply",
		Description: MultiplyPrompt,
		Title:       "Multiply",
		Params: []tooldef.ParamDef{
			operand("a", "First factor"),
			operand("b", "Second factor"),
		},
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   false,
	}

	Divide = tooldef.ToolDef{
		Name:        "divide",
		Description: DividePrompt,
		Title:       "Divide",
		Params: []tooldef.ParamDef{
			operand("a", "Dividend"),
			operand("b", "Divisor, must not be zero"),
		},
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   false,
	}

	Modulo = tooldef.ToolDef{
		Name:        "modulo",
		Description: ModuloPrompt,
		Title:       "Modulo",
		Params: []tooldef.ParamDef{
			operand("a", "Dividend"),
			operand("b", "Divisor, must not be zero"),
		},
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   false,
	}

	Power = tooldef.ToolDef{
		Name:        "power",
		Description: PowerPrompt,
		Title:       "Power",
		Params: []tooldef.ParamDef{
			operand("base", "Base"),
			operand("exponent", "Exponent, may be fractional"),
		},
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   false,
	}
)

// AllTools returns all numeric tool definitions in registration order.
func AllTools() []tooldef.ToolDef {
	return []tooldef.ToolDef{Add, Subtract, Multiply, Divide, Modulo, Power}
}
