package agenttools

import "github.com/rhobs/agent-tools/pkg/tooldef"

// All agent tool definitions as a single source of truth
var (
	Calculator = tooldef.ToolDef{
		Name:        "calculator",
		Title:       "Calculator",
		Description: CalculatorPrompt,
		Params: []tooldef.ParamDef{
			{
				Name:        "expression",
				Type:        tooldef.ParamTypeString,
				Description: `A math expression such as "2**10", "sqrt(144)", "sin(pi/4)"`,
				Required:    true,
			},
		},
		ReadOnly:   true,
		Idempotent: true,
	}

	WebSearch = tooldef.ToolDef{
		Name:        "web_search",
		Title:       "Web Search",
		Description: WebSearchPrompt,
		Params: []tooldef.ParamDef{
			{
				Name:        "query",
				Type:        tooldef.ParamTypeString,
				Description: "The search query",
				Required:    true,
			},
		},
		ReadOnly:  true,
		OpenWorld: true,
	}

	ConvertTime = tooldef.ToolDef{
		Name:        "convert_time",
		Title:       "Convert Time",
		Description: ConvertTimePrompt,
		Params: []tooldef.ParamDef{
			{
				Name:        "time_str",
				Type:        tooldef.ParamTypeString,
				Description: `Time in HH:MM (24-hour) format, e.g. "14:30"`,
				Required:    true,
			},
			{
				Name:        "from_tz",
				Type:        tooldef.ParamTypeString,
				Description: `Source IANA timezone, e.g. "US/Eastern"`,
				Required:    true,
			},
			{
				Name:        "to_tz",
				Type:        tooldef.ParamTypeString,
				Description: `Target IANA timezone, e.g. "Asia/Tokyo"`,
				Required:    true,
			},
		},
		ReadOnly: true,
	}

	GetCurrentDatetime = tooldef.ToolDef{
		Name:        "get_current_datetime",
		Title:       "Get Current Date and Time",
		Description: GetCurrentDatetimePrompt,
		Params: []tooldef.ParamDef{
			{
				Name:        "timezone",
				Type:        tooldef.ParamTypeString,
				Description: `IANA timezone name, e.g. "UTC", "US/Eastern", "Europe/London", "Asia/Tokyo"`,
				Default:     defaultTimezone,
			},
		},
		ReadOnly: true,
	}

	PythonREPL = tooldef.ToolDef{
		Name:        "python_repl",
		Title:       "Python REPL",
		Description: PythonREPLPrompt,
		Params: []tooldef.ParamDef{
			{
				Name:        "code",
				Type:        tooldef.ParamTypeString,
				Description: "Python source to execute. Use print() to produce output.",
				Required:    true,
			},
		},
		Destructive: true,
		OpenWorld:   true,
	}
)

// AllTools returns all agent tool definitions in registration order.
func AllTools() []tooldef.ToolDef {
	return []tooldef.ToolDef{Calculator, WebSearch, ConvertTime, GetCurrentDatetime, PythonREPL}
}
