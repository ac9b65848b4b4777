package tool

import (
	"context"
	"fmt"
	"math"
)

// Registry maps tool names to their descriptors and handlers. It is
// populated once at process start and read-only afterwards, so concurrent
// invocations need no locking.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: map[string]Tool{}}
}

// Register adds a tool to the registry. Registering a name twice is an error.
func (r *Registry) Register(t Tool) error {
	if err := t.validate(); err != nil {
		return err
	}
	if _, exists := r.tools[t.Name]; exists {
		return fmt.Errorf("tool %q already registered", t.Name)
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Get looks up a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tools in registration order.
func (r *Registry) List() []Tool {
	tools := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		tools = append(tools, r.tools[name])
	}
	return tools
}

// Invoke looks up the named tool, validates the arguments against its
// descriptor, and runs the handler. Failures come back as *NotFoundError,
// *ArgumentError, or *HandlerError; the handler is never called unless
// validation passed, and a panicking handler is recovered into a
// *HandlerError rather than crashing the process.
func (r *Registry) Invoke(ctx context.Context, name string, arguments map[string]interface{}) (result interface{}, err error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, &NotFoundError{Tool: name}
	}

	args, err := coerceArgs(t, arguments)
	if err != nil {
		return nil, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = &HandlerError{Tool: name, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	result, err = t.Handler(ctx, args)
	if err != nil {
		return nil, &HandlerError{Tool: name, Err: err}
	}
	return result, nil
}

func coerceArgs(t Tool, arguments map[string]interface{}) (Args, error) {
	args := make(Args, len(t.Params))
	for _, p := range t.Params {
		raw, present := arguments[p.Name]
		if !present || raw == nil {
			if p.Required {
				return nil, &ArgumentError{Tool: t.Name, Param: p.Name, Expected: p.Type, Missing: true}
			}
			continue
		}

		v, ok := coerceValue(p.Type, raw)
		if !ok {
			return nil, &ArgumentError{Tool: t.Name, Param: p.Name, Expected: p.Type}
		}
		args[p.Name] = v
	}
	return args, nil
}

// coerceValue converts a JSON-decoded value to the parameter's semantic
// type. JSON numbers arrive as float64; integral ones are accepted for
// integer parameters.
func coerceValue(pt ParamType, raw interface{}) (interface{}, bool) {
	switch pt {
	case TypeString:
		v, ok := raw.(string)
		return v, ok
	case TypeBoolean:
		v, ok := raw.(bool)
		return v, ok
	case TypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		}
		return nil, false
	case TypeInteger:
		switch v := raw.(type) {
		case int:
			return int64(v), true
		case int64:
			return v, true
		case float64:
			if v == math.Trunc(v) {
				return int64(v), true
			}
		}
		return nil, false
	}
	return nil, false
}
