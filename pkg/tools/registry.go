package tools

import "github.com/rhobs/agent-tools/pkg/registry"

// Registry maps numeric tool names to their definitions and handlers.
type Registry = registry.Registry[Handler]

// NewRegistry builds the registry of the six numeric tools.
func NewRegistry() (*Registry, error) {
	return registry.New(
		registry.Entry[Handler]{Def: Add, Handler: binary(AddHandler)},
		registry.Entry[Handler]{Def: Subtract, Handler: binary(SubtractHandler)},
		registry.Entry[Handler]{Def: Multiply, Handler: binary(MultiplyHandler)},
		registry.Entry[Handler]{Def: Divide, Handler: binary(DivideHandler)},
		registry.Entry[Handler]{Def: Modulo, Handler: binary(ModuloHandler)},
		registry.Entry[Handler]{Def: Power, Handler: power},
	)
}
