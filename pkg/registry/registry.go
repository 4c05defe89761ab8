// Package registry holds the explicit name to tool mapping consumed by the MCP
// server and the agent. Registries are filled once at start-up and only read
// afterwards.
package registry

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/rhobs/agent-tools/pkg/tooldef"
)

var (
	// ErrDuplicateTool is returned when a name is registered twice.
	ErrDuplicateTool = errors.New("duplicate tool name")
	// ErrInvalidTool is returned for an entry without a name or handler.
	ErrInvalidTool = errors.New("invalid tool")
)

// Entry pairs a tool definition with the handler that executes it.
type Entry[H any] struct {
	Def     tooldef.ToolDef
	Handler H
}

// Registry is an ordered set of uniquely named tools.
type Registry[H any] struct {
	entries []Entry[H]
	index   map[string]int
}

// New creates a registry from the given entries, failing on the first invalid
// or duplicate one.
func New[H any](entries ...Entry[H]) (*Registry[H], error) {
	r := &Registry[H]{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if err := r.Register(e); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds an entry. Names must be unique and non-empty.
func (r *Registry[H]) Register(e Entry[H]) error {
	if r.index == nil {
		r.index = make(map[string]int)
	}
	if e.Def.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidTool)
	}
	if isNil(e.Handler) {
		return fmt.Errorf("%w: %s has no handler", ErrInvalidTool, e.Def.Name)
	}
	if _, ok := r.index[e.Def.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, e.Def.Name)
	}
	r.index[e.Def.Name] = len(r.entries)
	r.entries = append(r.entries, e)
	return nil
}

// Get looks up a tool by name.
func (r *Registry[H]) Get(name string) (Entry[H], bool) {
	i, ok := r.index[name]
	if !ok {
		var zero Entry[H]
		return zero, false
	}
	return r.entries[i], true
}

// Entries returns the registered tools in registration order.
func (r *Registry[H]) Entries() []Entry[H] {
	out := make([]Entry[H], len(r.entries))
	copy(out, r.entries)
	return out
}

// Defs returns the tool definitions in registration order.
func (r *Registry[H]) Defs() []tooldef.ToolDef {
	defs := make([]tooldef.ToolDef, 0, len(r.entries))
	for _, e := range r.entries {
		defs = append(defs, e.Def)
	}
	return defs
}

// Names returns the registered tool names in registration order.
func (r *Registry[H]) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.Def.Name)
	}
	return names
}

// Len returns the number of registered tools.
func (r *Registry[H]) Len() int {
	return len(r.entries)
}

func isNil(h any) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	switch v.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan:
		return v.IsNil()
	}
	return false
}
